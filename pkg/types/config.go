// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package types

// SiteConfig holds the observatory site coordinates used when a raw header
// does not carry its own location cards.
type SiteConfig struct {
	// LatitudeDeg is the site latitude in degrees, north positive.
	LatitudeDeg float64 `json:"latitude_deg" yaml:"latitude_deg"`

	// LongitudeDeg is the site longitude in degrees, east positive.
	LongitudeDeg float64 `json:"longitude_deg" yaml:"longitude_deg"`

	// ElevationM is the site elevation above sea level in metres.
	ElevationM float64 `json:"elevation_m" yaml:"elevation_m"`
}

// TranslateConfig holds settings for header translation.
type TranslateConfig struct {
	// Mappings are the trivial translations: observation field name to the
	// FITS header card that supplies it directly.
	Mappings map[string]string `json:"mappings" yaml:"mappings"`

	// Site is the fallback observatory location.
	Site SiteConfig `json:"site" yaml:"site"`
}

// RefcatConfig holds settings for reference catalogue ingestion.
type RefcatConfig struct {
	// Depth controls the resolution of the spatial shard index (default 4).
	Depth int `json:"depth" yaml:"depth"`

	// OutDir is the base directory for ingested catalogues
	// (contains ref_cats/<name>/).
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Bands lists the magnitude columns expected in the raw catalogue.
	Bands []string `json:"bands" yaml:"bands"`
}

// CameraConfig holds the camera presets and the per-camera overrides that
// together describe every detector in the array.
type CameraConfig struct {
	// CameraDir is the directory holding one detector file per camera.
	CameraDir string `json:"camera_dir" yaml:"camera_dir"`

	// Presets maps a preset name (e.g. "zwo") to its sensor parameters.
	Presets map[string]CameraPreset `json:"presets" yaml:"presets"`

	// Cameras maps a camera serial to its preset and overrides. Detector IDs
	// are assigned by sorted serial, so map order is not significant.
	Cameras map[string]CameraOverride `json:"cameras" yaml:"cameras"`
}

// RegistryConfig holds settings for the SQLite registry.
type RegistryConfig struct {
	// Root is the directory containing registry.db.
	Root string `json:"root" yaml:"root"`
}

// ObsConfig groups all configuration for the obs-huntsman tooling.
type ObsConfig struct {
	// Instrument is the short dimension name ("Huntsman").
	Instrument string `json:"instrument" yaml:"instrument"`

	// DataRoot is the repository root expected by the host stack
	// (contains DATA/ref_cats/).
	DataRoot string `json:"data_root" yaml:"data_root"`

	Refcat    RefcatConfig    `json:"refcat" yaml:"refcat"`
	Camera    CameraConfig    `json:"camera" yaml:"camera"`
	Registry  RegistryConfig  `json:"registry" yaml:"registry"`
	Translate TranslateConfig `json:"translate" yaml:"translate"`
}
