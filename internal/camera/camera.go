// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package camera builds and loads the detector descriptions for the Huntsman
// array. Each camera is a single-amplifier detector; the on-disk form is one
// YAML file per camera in a camera/ directory.
package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

// DetectorGroup is the constant detector group name: Huntsman has no rafts.
const DetectorGroup = "Huntsman"

// DefaultConfig returns the production camera set. The testingcam entries are
// small sensors retained for pipeline tests.
func DefaultConfig() types.CameraConfig {
	zwo := types.CameraPreset{
		Width:      5496,
		Height:     3672,
		Saturation: 4095,
		Gain:       1.145,
		ReadNoise:  2.4,
	}
	serials := []string{
		"1815420013090900",
		"371d420013090900",
		"0e2c420013090900",
		"0f1d420013090900",
		"361d420013090900",
		"3528420013090900",
		"370d420013090900",
		"1919420013090900",
		"2d194b0013090900",
		"2014420013090900",
	}
	cameras := make(map[string]types.CameraOverride, len(serials)+2)
	for _, s := range serials {
		cameras[s] = types.CameraOverride{Preset: "zwo"}
	}
	cameras["testingcam00"] = types.CameraOverride{Preset: "zwo", Width: 100, Height: 100}
	cameras["testingcam01"] = types.CameraOverride{Preset: "zwo", Width: 500, Height: 500}

	return types.CameraConfig{
		CameraDir: "camera",
		Presets:   map[string]types.CameraPreset{"zwo": zwo},
		Cameras:   cameras,
	}
}

// Build constructs the detector list from config. Detector IDs are assigned
// in sorted-serial order so they are stable across runs. Non-zero overscan
// is rejected.
func Build(cfg types.CameraConfig) ([]types.Detector, error) {
	serials := make([]string, 0, len(cfg.Cameras))
	for s := range cfg.Cameras {
		serials = append(serials, s)
	}
	sort.Strings(serials)

	dets := make([]types.Detector, 0, len(serials))
	for i, serial := range serials {
		ov := cfg.Cameras[serial]

		preset, ok := cfg.Presets[ov.Preset]
		if !ok {
			return nil, fmt.Errorf("camera %s: unknown preset %q", serial, ov.Preset)
		}
		if ov.Overscan != 0 {
			return nil, fmt.Errorf("camera %s: non-zero overscan not supported", serial)
		}

		width, height := preset.Width, preset.Height
		if ov.Width != 0 {
			width = ov.Width
		}
		if ov.Height != 0 {
			height = ov.Height
		}
		gain := preset.Gain
		if ov.Gain != 0 {
			gain = ov.Gain
		}

		dets = append(dets, types.Detector{
			ID:      i,
			Serial:  serial,
			Purpose: "science",
			Width:   width,
			Height:  height,
			Amplifiers: []types.Amplifier{{
				Name:            serial,
				Width:           width,
				Height:          height,
				Gain:            gain,
				ReadNoise:       preset.ReadNoise,
				Saturation:      preset.Saturation,
				ReadoutCorner:   "LR",
				LinearityType:   "None",
				LinearityCoeffs: []float64{1.0},
			}},
		})
	}
	return dets, nil
}

// WriteFiles writes one YAML detector file per camera into dir, creating it
// if needed. Existing files are overwritten: the config is the authority.
func WriteFiles(dets []types.Detector, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating camera directory: %w", err)
	}
	for _, d := range dets {
		data, err := yaml.Marshal(&d)
		if err != nil {
			return fmt.Errorf("marshaling detector %s: %w", d.Serial, err)
		}
		path := filepath.Join(dir, d.Serial+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// Camera is a loaded detector collection with serial and ID lookup.
type Camera struct {
	detectors []types.Detector
	bySerial  map[string]int
	byID      map[int]int
}

// FromConfig builds a Camera directly from config, without touching disk.
func FromConfig(cfg types.CameraConfig) (*Camera, error) {
	dets, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	return newCamera(dets), nil
}

// Load reads every detector YAML file in dir.
func Load(dir string) (*Camera, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading camera directory %s: %w", dir, err)
	}

	var dets []types.Detector
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		var d types.Detector
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		dets = append(dets, d)
	}
	if len(dets) == 0 {
		return nil, fmt.Errorf("no detector files in %s", dir)
	}

	sort.Slice(dets, func(i, j int) bool { return dets[i].ID < dets[j].ID })
	return newCamera(dets), nil
}

func newCamera(dets []types.Detector) *Camera {
	c := &Camera{
		detectors: dets,
		bySerial:  make(map[string]int, len(dets)),
		byID:      make(map[int]int, len(dets)),
	}
	for i, d := range dets {
		c.bySerial[d.Serial] = i
		c.byID[d.ID] = i
	}
	return c
}

// Detectors returns the detectors in ID order.
func (c *Camera) Detectors() []types.Detector {
	return c.detectors
}

// BySerial looks up a detector by camera serial.
func (c *Camera) BySerial(serial string) (types.Detector, bool) {
	i, ok := c.bySerial[serial]
	if !ok {
		return types.Detector{}, false
	}
	return c.detectors[i], true
}

// ByID looks up a detector by integer ID.
func (c *Camera) ByID(id int) (types.Detector, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Detector{}, false
	}
	return c.detectors[i], true
}
