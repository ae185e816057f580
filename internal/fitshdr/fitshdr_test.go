// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package fitshdr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// card pads one card image to 80 columns.
func card(s string) string {
	if len(s) > 80 {
		panic("card image longer than 80 columns: " + s)
	}
	return s + strings.Repeat(" ", 80-len(s))
}

// headerBytes assembles card images into 2880-byte blocks, appending END and
// padding the final block with blanks.
func headerBytes(cards ...string) []byte {
	var b bytes.Buffer
	for _, c := range cards {
		b.WriteString(card(c))
	}
	b.WriteString(card("END"))
	for b.Len()%2880 != 0 {
		b.WriteByte(' ')
	}
	return b.Bytes()
}

func sampleHeader() []byte {
	return headerBytes(
		"SIMPLE  =                    T / conforms to FITS standard",
		"BITPIX  =                   16",
		"NAXIS   =                    2",
		"EXPTIME =                120.0 / exposure time (s)",
		"DATE-OBS= '2021-03-27T08:22:17.723' / start of exposure",
		"INSTRUME= '371d420013090900'",
		"FILTER  = 'g2_8    '",
		"IMAGETYP= 'Light Frame'",
		"SATURATE=              4.095E3",
		"COMMENT  raw frame from the Huntsman array",
		"CCD-TEMP=                  0.0",
		"TRACKON =                    T",
	)
}

func TestReadParsesValues(t *testing.T) {
	h, err := Read(bytes.NewReader(sampleHeader()))
	require.NoError(t, err)

	tests := []struct {
		keyword string
		want    any
	}{
		{"SIMPLE", true},
		{"BITPIX", int64(16)},
		{"EXPTIME", 120.0},
		{"DATE-OBS", "2021-03-27T08:22:17.723"},
		{"FILTER", "g2_8"},
		{"SATURATE", 4095.0},
		{"TRACKON", true},
	}
	for _, tt := range tests {
		c, ok := h.Card(tt.keyword)
		require.True(t, ok, "missing card %s", tt.keyword)
		assert.Equal(t, tt.want, c.Value, tt.keyword)
	}
}

func TestReadCardComments(t *testing.T) {
	h, err := Read(bytes.NewReader(sampleHeader()))
	require.NoError(t, err)

	c, ok := h.Card("EXPTIME")
	require.True(t, ok)
	assert.Equal(t, "exposure time (s)", c.Comment)

	c, ok = h.Card("DATE-OBS")
	require.True(t, ok)
	assert.Equal(t, "start of exposure", c.Comment)
}

func TestReadAccessors(t *testing.T) {
	h, err := Read(bytes.NewReader(sampleHeader()))
	require.NoError(t, err)

	s, err := h.Str("INSTRUME")
	require.NoError(t, err)
	assert.Equal(t, "371d420013090900", s)

	// Numeric card read as string.
	s, err = h.Str("BITPIX")
	require.NoError(t, err)
	assert.Equal(t, "16", s)

	f, err := h.Float("EXPTIME")
	require.NoError(t, err)
	assert.Equal(t, 120.0, f)

	// Integer card converts to float.
	f, err = h.Float("NAXIS")
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	i, err := h.Int("BITPIX")
	require.NoError(t, err)
	assert.Equal(t, int64(16), i)

	b, err := h.Bool("TRACKON")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = h.Str("NOSUCH")
	assert.Error(t, err)
	assert.False(t, h.Has("NOSUCH"))
	assert.True(t, h.Has("FILTER"))
}

func TestReadQuotedQuote(t *testing.T) {
	h, err := Read(bytes.NewReader(headerBytes(
		"SIMPLE  =                    T",
		"OBSERVER= 'O''Halloran'",
	)))
	require.NoError(t, err)

	s, err := h.Str("OBSERVER")
	require.NoError(t, err)
	assert.Equal(t, "O'Halloran", s)
}

func TestReadFortranExponent(t *testing.T) {
	h, err := Read(bytes.NewReader(headerBytes(
		"SIMPLE  =                    T",
		"GAIN    =              1.145D0",
	)))
	require.NoError(t, err)

	f, err := h.Float("GAIN")
	require.NoError(t, err)
	assert.InDelta(t, 1.145, f, 1e-12)
}

func TestReadErrors(t *testing.T) {
	// Not a FITS file.
	_, err := Read(bytes.NewReader(headerBytes(
		"BOGUS   =                    1",
	)))
	assert.ErrorIs(t, err, ErrNotFITS)

	// Truncated: one block, no END.
	var b bytes.Buffer
	b.WriteString(card("SIMPLE  =                    T"))
	for b.Len() < 2880 {
		b.WriteString(card("HISTORY  filler"))
	}
	_, err = Read(bytes.NewReader(b.Bytes()[:2880]))
	assert.ErrorIs(t, err, ErrNoEnd)

	// Short read mid-block.
	_, err = Read(bytes.NewReader(sampleHeader()[:100]))
	assert.ErrorIs(t, err, ErrNoEnd)
}

func TestReadMultiBlockHeader(t *testing.T) {
	// 40 cards force a second 2880-byte block.
	cards := []string{"SIMPLE  =                    T"}
	for i := 0; i < 40; i++ {
		cards = append(cards, "HISTORY  filler card")
	}
	cards = append(cards, "LASTCARD=                   99")

	h, err := Read(bytes.NewReader(headerBytes(cards...)))
	require.NoError(t, err)

	i, err := h.Int("LASTCARD")
	require.NoError(t, err)
	assert.Equal(t, int64(99), i)
}
