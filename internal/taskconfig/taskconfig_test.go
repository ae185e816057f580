// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package taskconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.ISR.DoBias)
	assert.True(t, cfg.ISR.DoDark)
	assert.True(t, cfg.ISR.DoFlat)
	assert.True(t, cfg.Calibrate.DoAstrometry)
	assert.False(t, cfg.Calibrate.DoPhotoCal)
	assert.Equal(t, DefaultRefcat, cfg.Calibrate.Refcat)
	assert.Equal(t, "deep", cfg.SkyMap.CoaddName)
	assert.Equal(t, [2]int{10000, 10000}, cfg.SkyMap.PatchInnerDimensions)
	assert.Equal(t, 100, cfg.SkyMap.PatchBorder)
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadMergesOverrides(t *testing.T) {
	path := writeOverrides(t, `
calibrate:
  do_photo_cal: true
  refcat: gaia_dr3
skymap:
  patch_border: 250
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden values take.
	assert.True(t, cfg.Calibrate.DoPhotoCal)
	assert.Equal(t, "gaia_dr3", cfg.Calibrate.Refcat)
	assert.Equal(t, 250, cfg.SkyMap.PatchBorder)

	// Untouched sections keep defaults.
	assert.True(t, cfg.ISR.DoBias)
	assert.Equal(t, "deep", cfg.SkyMap.CoaddName)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "astrometry with empty refcat",
			content: "calibrate:\n  refcat: \"\"\n",
			errMsg:  "no reference catalogue",
		},
		{
			name:    "bad patch dimensions",
			content: "skymap:\n  patch_inner_dimensions: [0, 10000]\n",
			errMsg:  "patch dimensions",
		},
		{
			name:    "negative border",
			content: "skymap:\n  patch_border: -5\n",
			errMsg:  "patch border",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeOverrides(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRenderRoundTrips(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Defaults().Render(&b))

	var back TaskConfig
	require.NoError(t, yaml.Unmarshal([]byte(b.String()), &back))
	assert.Equal(t, Defaults(), back)
}
