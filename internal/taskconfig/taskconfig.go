// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package taskconfig holds the observatory overrides for the host pipeline's
// processing tasks. Defaults embody the Huntsman survey settings; an
// overrides YAML file merges on top, and the effective result renders back
// to YAML for the pipeline to consume.
package taskconfig

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultRefcat is the reference catalogue dataset used for astrometric
// calibration.
const DefaultRefcat = "ps1_pv3_3pi_20170110_GmagLT19"

// ISRConfig controls instrument signature removal.
type ISRConfig struct {
	DoBias   bool `yaml:"do_bias"`
	DoDark   bool `yaml:"do_dark"`
	DoFlat   bool `yaml:"do_flat"`
	DoDefect bool `yaml:"do_defect"`
}

// CharacterizeConfig controls image characterisation (background
// subtraction, PSF modelling, cosmic-ray repair).
type CharacterizeConfig struct {
	DoWrite         bool `yaml:"do_write"`
	DoWriteExposure bool `yaml:"do_write_exposure"`
}

// CalibrateConfig controls astrometric and photometric calibration.
type CalibrateConfig struct {
	DoAstrometry bool   `yaml:"do_astrometry"`
	DoPhotoCal   bool   `yaml:"do_photo_cal"`
	Refcat       string `yaml:"refcat"`
}

// SkyMapConfig controls the discrete sky map used for coaddition.
type SkyMapConfig struct {
	CoaddName            string  `yaml:"coadd_name"`
	PatchInnerDimensions [2]int  `yaml:"patch_inner_dimensions"`
	PatchBorder          int     `yaml:"patch_border"`
	TractOverlapDeg      float64 `yaml:"tract_overlap_deg"`
}

// TaskConfig groups the per-task settings.
type TaskConfig struct {
	ISR          ISRConfig          `yaml:"isr"`
	Characterize CharacterizeConfig `yaml:"characterize"`
	Calibrate    CalibrateConfig    `yaml:"calibrate"`
	SkyMap       SkyMapConfig       `yaml:"skymap"`
}

// Defaults returns the Huntsman task settings: full ISR, characterisation
// outputs written, astrometry on against the PS1 catalogue, photometric
// calibration off until colour terms are measured.
func Defaults() TaskConfig {
	return TaskConfig{
		ISR: ISRConfig{
			DoBias:   true,
			DoDark:   true,
			DoFlat:   true,
			DoDefect: true,
		},
		Characterize: CharacterizeConfig{
			DoWrite:         true,
			DoWriteExposure: false,
		},
		Calibrate: CalibrateConfig{
			DoAstrometry: true,
			DoPhotoCal:   false,
			Refcat:       DefaultRefcat,
		},
		SkyMap: SkyMapConfig{
			CoaddName:            "deep",
			PatchInnerDimensions: [2]int{10000, 10000},
			PatchBorder:          100,
			TractOverlapDeg:      0,
		},
	}
}

// Load returns the defaults with the overrides file at path merged on top.
// An empty path means defaults only.
func Load(path string) (TaskConfig, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TaskConfig{}, fmt.Errorf("taskconfig: %w", err)
	}
	// Unmarshaling into the populated struct merges: absent keys keep
	// their defaults.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TaskConfig{}, fmt.Errorf("taskconfig: parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return TaskConfig{}, err
	}
	return cfg, nil
}

func (c TaskConfig) validate() error {
	if c.Calibrate.DoAstrometry && c.Calibrate.Refcat == "" {
		return fmt.Errorf("taskconfig: astrometry enabled with no reference catalogue")
	}
	if c.SkyMap.PatchInnerDimensions[0] <= 0 || c.SkyMap.PatchInnerDimensions[1] <= 0 {
		return fmt.Errorf("taskconfig: non-positive patch dimensions %v", c.SkyMap.PatchInnerDimensions)
	}
	if c.SkyMap.PatchBorder < 0 {
		return fmt.Errorf("taskconfig: negative patch border %d", c.SkyMap.PatchBorder)
	}
	return nil
}

// Render writes the effective config as YAML.
func (c TaskConfig) Render(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(c)
}
