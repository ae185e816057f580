// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package refcat

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVDecimalDegrees(t *testing.T) {
	raw := `id,ra,dec,g,r
src-1,10.5,-33.25,14.2,13.9
src-2,200.0,45.0,16.1,
`
	result, err := ReadCSV(strings.NewReader(raw), nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, 0, result.BadRows)
	assert.Equal(t, []string{"g", "r"}, result.Bands)

	s := result.Sources[0]
	assert.Equal(t, "src-1", s.ID)
	assert.Equal(t, 10.5, s.RADeg)
	assert.Equal(t, -33.25, s.DecDeg)
	assert.Equal(t, 14.2, s.Mags["g"])
	assert.Equal(t, 13.9, s.Mags["r"])

	// Empty magnitude cell means no measurement, not zero.
	_, ok := result.Sources[1].Mags["r"]
	assert.False(t, ok)
}

func TestReadCSVSexagesimal(t *testing.T) {
	raw := `id,ra,dec,g
src-1,12:30:00,-45:30:00,15.0
`
	result, err := ReadCSV(strings.NewReader(raw), nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)

	s := result.Sources[0]
	assert.InDelta(t, 187.5, s.RADeg, 1e-9)
	assert.InDelta(t, -45.5, s.DecDeg, 1e-9)
}

func TestReadCSVBandFilter(t *testing.T) {
	raw := `id,ra,dec,g,r,i
src-1,10,10,14,15,16
`
	result, err := ReadCSV(strings.NewReader(raw), []string{"g", "r"}, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)

	assert.ElementsMatch(t, []string{"g", "r"}, result.Bands)
	_, ok := result.Sources[0].Mags["i"]
	assert.False(t, ok)
}

func TestReadCSVBadRows(t *testing.T) {
	raw := `id,ra,dec,g
src-1,10,10,14
,20,20,15
src-3,not-an-angle,20,15
src-4,30,95,15
src-5,40,-40,not-a-mag
src-6,50,50,12
`
	var log strings.Builder
	result, err := ReadCSV(strings.NewReader(raw), nil, &log)
	require.NoError(t, err)

	assert.Len(t, result.Sources, 2)
	assert.Equal(t, 4, result.BadRows)
	assert.Contains(t, log.String(), "bad row")
}

func TestReadCSVMissingColumns(t *testing.T) {
	raw := `name,x,y
a,1,2
`
	_, err := ReadCSV(strings.NewReader(raw), nil, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id/ra/dec")
}

func TestReadCSVAltHeaderNames(t *testing.T) {
	raw := `source_id,RAJ2000,DEJ2000,g
s1,15.0,-20.0,13.5
`
	result, err := ReadCSV(strings.NewReader(raw), nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "s1", result.Sources[0].ID)
}
