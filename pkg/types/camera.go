// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package types

// CameraPreset holds the sensor parameters shared by a camera model.
type CameraPreset struct {
	Width      int     `json:"width" yaml:"width"`
	Height     int     `json:"height" yaml:"height"`
	Saturation float64 `json:"saturation" yaml:"saturation"`
	Gain       float64 `json:"gain" yaml:"gain"`
	ReadNoise  float64 `json:"read_noise" yaml:"read_noise"`
}

// CameraOverride selects a preset for one camera serial and optionally
// overrides individual parameters. Zero values mean "use the preset".
type CameraOverride struct {
	Preset   string  `json:"preset" yaml:"preset"`
	Width    int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int     `json:"height,omitempty" yaml:"height,omitempty"`
	Overscan int     `json:"overscan,omitempty" yaml:"overscan,omitempty"`
	Gain     float64 `json:"gain,omitempty" yaml:"gain,omitempty"`
}

// Amplifier describes one readout amplifier. A Huntsman detector has exactly
// one, but the on-disk format allows more.
type Amplifier struct {
	Name            string    `json:"name" yaml:"name"`
	Width           int       `json:"width" yaml:"width"`
	Height          int       `json:"height" yaml:"height"`
	Gain            float64   `json:"gain" yaml:"gain"`
	ReadNoise       float64   `json:"read_noise" yaml:"read_noise"`
	Saturation      float64   `json:"saturation" yaml:"saturation"`
	ReadoutCorner   string    `json:"readout_corner" yaml:"readout_corner"`
	LinearityType   string    `json:"linearity_type" yaml:"linearity_type"`
	LinearityCoeffs []float64 `json:"linearity_coeffs" yaml:"linearity_coeffs"`
}

// Detector describes one camera in the array.
type Detector struct {
	// ID is the integer detector number, assigned by sorted serial.
	ID int `json:"id" yaml:"id"`

	// Serial is the camera serial number (also the detector full name).
	Serial string `json:"serial" yaml:"serial"`

	// Purpose is the detector role: "science" for on-sky cameras.
	Purpose string `json:"purpose" yaml:"purpose"`

	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	Amplifiers []Amplifier `json:"amplifiers" yaml:"amplifiers"`
}
