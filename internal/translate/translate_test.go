// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package translate

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrohuntsman/obs-huntsman/internal/camera"
	"github.com/astrohuntsman/obs-huntsman/internal/fitshdr"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

// header assembles card images into a parsed fitshdr.Header.
func header(t *testing.T, cards ...string) *fitshdr.Header {
	t.Helper()
	var b bytes.Buffer
	for _, c := range cards {
		if len(c) > 80 {
			t.Fatalf("card too long: %s", c)
		}
		b.WriteString(c + strings.Repeat(" ", 80-len(c)))
	}
	b.WriteString("END" + strings.Repeat(" ", 77))
	for b.Len()%2880 != 0 {
		b.WriteByte(' ')
	}
	h, err := fitshdr.Read(&b)
	require.NoError(t, err)
	return h
}

func testTranslator(t *testing.T) *Translator {
	t.Helper()
	cam, err := camera.FromConfig(camera.DefaultConfig())
	require.NoError(t, err)
	site := types.SiteConfig{LatitudeDeg: -31.16, LongitudeDeg: 149.07, ElevationM: 1160}
	return New(types.TranslateConfig{Site: site}, cam, types.DefaultFilters())
}

func rawCards() []string {
	return []string{
		"SIMPLE  =                    T",
		"DATE-OBS= '2021-03-27T08:22:17.723'",
		"EXPTIME =                120.0",
		"FILTER  = 'g2_8'",
		"INSTRUME= '371d420013090900'",
		"IMAGETYP= 'Light Frame'",
		"FIELD   = 'NGC 300'",
		"RA-MNT  =              13.7229",
		"DEC-MNT =             -37.6846",
		"ALT-MNT =                 54.2",
		"AZ-MNT  =                211.8",
	}
}

func TestTranslateScienceFrame(t *testing.T) {
	tr := testTranslator(t)
	info, err := tr.Translate(header(t, rawCards()...))
	require.NoError(t, err)

	assert.Equal(t, "Huntsman", info.Instrument)
	assert.Equal(t, "Huntsman", info.DetectorGroup)
	assert.Equal(t, "371d420013090900", info.DetectorSerial)

	// IDs derive from the 17 digits of DATE-OBS.
	assert.Equal(t, int64(20210327082217723), info.VisitID)
	assert.Equal(t, info.VisitID, info.ExposureID)
	assert.Equal(t, info.ExposureID, info.ObservationCounter)

	// Detector-exposure ID is the decimal concatenation.
	assert.Equal(t, int64(202103270822177239), info.DetectorExposureID)
	assert.Equal(t, 9, info.DetectorNum)

	assert.Equal(t, types.ObsScience, info.ObservationType)
	assert.Equal(t, "g2_8", info.PhysicalFilter)

	begin := time.Date(2021, 3, 27, 8, 22, 17, 723000000, time.UTC)
	assert.True(t, info.DatetimeBegin.Equal(begin), "begin = %v", info.DatetimeBegin)
	assert.True(t, info.DatetimeEnd.Equal(begin.Add(2*time.Minute)), "end = %v", info.DatetimeEnd)
	assert.Equal(t, 120.0, info.ExposureTimeSec)
	assert.InDelta(t, 59300.348816, info.MJDBegin, 1e-3)

	assert.Equal(t, 13.7229, info.TrackingRADeg)
	assert.Equal(t, -37.6846, info.TrackingDecDeg)
	assert.Equal(t, 54.2, info.AltDeg)
	assert.Equal(t, 211.8, info.AzDeg)

	// No location cards: configured site applies.
	assert.Equal(t, -31.16, info.Location.LatitudeDeg)
	assert.Equal(t, 1160.0, info.Location.ElevationM)
}

func TestTranslateLocationCardsOverrideSite(t *testing.T) {
	tr := testTranslator(t)
	cards := append(rawCards(),
		"LAT-OBS =               -33.05",
		"LONG-OBS=               150.12",
		"ELEV-OBS=                 42.0",
	)
	info, err := tr.Translate(header(t, cards...))
	require.NoError(t, err)

	assert.Equal(t, -33.05, info.Location.LatitudeDeg)
	assert.Equal(t, 150.12, info.Location.LongitudeDeg)
	assert.Equal(t, 42.0, info.Location.ElevationM)
}

func TestObservationTypes(t *testing.T) {
	tr := testTranslator(t)

	tests := []struct {
		name     string
		imagetyp string
		field    string
		want     types.ObservationType
	}{
		{"light on a science field", "Light Frame", "NGC 300", types.ObsScience},
		{"light without a field card", "Light Frame", "", types.ObsScience},
		{"flat sequence as light frames", "Light Frame", "Flat Field", types.ObsFlat},
		{"dark sequence as light frames", "Light Frame", "DarkObs", types.ObsDark},
		{"dark frame", "Dark Frame", "", types.ObsDark},
		{"bias frame", "Bias Frame", "", types.ObsBias},
		{"flat field", "Flat Field", "", types.ObsFlat},
		{"unknown image type", "Tricolor", "", types.ObsUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := []string{
				"SIMPLE  =                    T",
				"DATE-OBS= '2021-03-27T08:22:17.723'",
				"EXPTIME =                 10.0",
				"INSTRUME= 'testingcam00'",
				"RA-MNT  =                  0.0",
				"DEC-MNT =                  0.0",
				"IMAGETYP= '" + tt.imagetyp + "'",
			}
			if tt.field != "" {
				cards = append(cards, "FIELD   = '"+tt.field+"'")
			}
			info, err := tr.Translate(header(t, cards...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.ObservationType)
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tr := testTranslator(t)

	// Unknown camera serial.
	cards := rawCards()
	cards[4] = "INSTRUME= 'nosuchcam'"
	_, err := tr.Translate(header(t, cards...))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown camera serial")

	// DATE-OBS with the wrong digit count.
	cards = rawCards()
	cards[1] = "DATE-OBS= '2021-03-27T08:22:17'"
	_, err = tr.Translate(header(t, cards...))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "17 numeric characters")

	// Missing exposure time.
	cards = rawCards()
	cards[2] = "NOTEXP  =                120.0"
	_, err = tr.Translate(header(t, cards...))
	require.Error(t, err)
}

func TestTranslateFilterFallsBackToUnknown(t *testing.T) {
	tr := testTranslator(t)

	cards := rawCards()
	cards[3] = "FILTER  = 'mystery'"
	info, err := tr.Translate(header(t, cards...))
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", info.PhysicalFilter)

	// Alias resolves to its physical filter.
	cards[3] = "FILTER  = 'no_filter'"
	info, err = tr.Translate(header(t, cards...))
	require.NoError(t, err)
	assert.Equal(t, "blank", info.PhysicalFilter)
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		in   string
		isRA bool
		want float64
	}{
		{"187.5", true, 187.5},
		{"-45.25", false, -45.25},
		{"12:30:00", true, 187.5},
		{"12 30 00", true, 187.5},
		{"-45:30:00", false, -45.5},
		{"+10:15:00", false, 10.25},
	}
	for _, tt := range tests {
		got, err := ParseAngle(tt.in, tt.isRA)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	for _, bad := range []string{"", "12:30", "a:b:c", "-12:00:00"} {
		isRA := strings.HasPrefix(bad, "-")
		if _, err := ParseAngle(bad, isRA); err == nil {
			t.Errorf("ParseAngle(%q) accepted", bad)
		}
	}
}

func TestFromCalibID(t *testing.T) {
	h := header(t,
		"SIMPLE  =                    T",
		"CALIB_ID= 'filter=g_band calibDate=2021-03-01 ccd=3'",
	)

	v, err := FromCalibID(h, "calibDate")
	require.NoError(t, err)
	assert.Equal(t, "2021-03-01", v)

	_, err = FromCalibID(h, "nope")
	assert.Error(t, err)
}
