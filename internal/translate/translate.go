// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package translate converts raw Huntsman FITS header values into the
// standardized observation metadata understood by the host pipeline.
package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"

	"github.com/astrohuntsman/obs-huntsman/internal/camera"
	"github.com/astrohuntsman/obs-huntsman/internal/fitshdr"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

// MaxDetectors is the largest detector count the ID scheme supports.
const MaxDetectors = 99

// MaxExposureID is the largest exposure ID the 17-digit DATE-OBS scheme can
// produce. Detector-exposure IDs append up to two more digits and still fit
// in an int64 for any realistic observing date.
const MaxExposureID = 1e17 - 1

// jdToMJD converts a Julian date to a modified Julian date.
const jdToMJD = 2400000.5

// Translator derives ObservationInfo records from raw headers. Trivial
// card mappings come from config; computed translations are fixed.
type Translator struct {
	cfg     types.TranslateConfig
	cam     *camera.Camera
	filters []types.FilterDefinition
}

// DefaultMappings returns the trivial field-to-card map for Huntsman raw
// frames, used when the config file does not override it.
func DefaultMappings() map[string]string {
	return map[string]string{
		"date_obs":        "DATE-OBS",
		"exposure_time":   "EXPTIME",
		"physical_filter": "FILTER",
		"detector_serial": "INSTRUME",
		"image_type":      "IMAGETYP",
		"field_name":      "FIELD",
		"tracking_ra":     "RA-MNT",
		"tracking_dec":    "DEC-MNT",
		"alt":             "ALT-MNT",
		"az":              "AZ-MNT",
		"latitude":        "LAT-OBS",
		"longitude":       "LONG-OBS",
		"elevation":       "ELEV-OBS",
	}
}

// New returns a Translator for the given config, camera table, and filter
// definitions. Missing mappings fall back to DefaultMappings.
func New(cfg types.TranslateConfig, cam *camera.Camera, filters []types.FilterDefinition) *Translator {
	if cfg.Mappings == nil {
		cfg.Mappings = map[string]string{}
	}
	for field, card := range DefaultMappings() {
		if _, ok := cfg.Mappings[field]; !ok {
			cfg.Mappings[field] = card
		}
	}
	if len(filters) == 0 {
		filters = types.DefaultFilters()
	}
	return &Translator{cfg: cfg, cam: cam, filters: filters}
}

// card returns the header card name for a logical field.
func (t *Translator) card(field string) string {
	return t.cfg.Mappings[field]
}

// Translate produces the ObservationInfo for one raw header.
func (t *Translator) Translate(h *fitshdr.Header) (*types.ObservationInfo, error) {
	info := &types.ObservationInfo{
		Instrument:    "Huntsman",
		DetectorGroup: camera.DetectorGroup,
	}

	serial, err := h.Str(t.card("detector_serial"))
	if err != nil {
		return nil, fmt.Errorf("translate: detector serial: %w", err)
	}
	info.DetectorSerial = serial

	det, ok := t.cam.BySerial(serial)
	if !ok {
		return nil, fmt.Errorf("translate: unknown camera serial %q", serial)
	}
	info.DetectorNum = det.ID

	dateObs, err := h.Str(t.card("date_obs"))
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	info.VisitID, err = visitID(dateObs)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	info.ExposureID = info.VisitID
	info.ObservationCounter = info.ExposureID

	info.DetectorExposureID, err = detectorExposureID(info.ExposureID, info.DetectorNum)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	begin, err := parseDate(dateObs)
	if err != nil {
		return nil, fmt.Errorf("translate: %s: %w", t.card("date_obs"), err)
	}
	info.DatetimeBegin = begin
	info.MJDBegin = julian.TimeToJD(begin) - jdToMJD

	exptime, err := h.Float(t.card("exposure_time"))
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	info.ExposureTimeSec = exptime
	info.DatetimeEnd = begin.Add(time.Duration(exptime * float64(time.Second)))

	info.ObservationType = t.observationType(h)

	if raw, err := h.Str(t.card("physical_filter")); err == nil {
		info.PhysicalFilter = types.NormalizeFilter(raw, t.filters)
	} else {
		info.PhysicalFilter = "UNKNOWN"
	}

	ra, dec, err := t.trackingRADec(h)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	info.TrackingRADeg = ra
	info.TrackingDecDeg = dec

	if alt, err := h.Float(t.card("alt")); err == nil {
		info.AltDeg = alt
	}
	if az, err := h.Float(t.card("az")); err == nil {
		info.AzDeg = az
	}

	info.Location = t.location(h)

	return info, nil
}

// visitID returns the visit ID: the digits of DATE-OBS, which must number
// exactly 17 (YYYYMMDDhhmmssSSS).
func visitID(dateObs string) (int64, error) {
	var b strings.Builder
	for _, r := range dateObs {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 17 {
		return 0, fmt.Errorf("date string %q: expected 17 numeric characters, got %d", dateObs, len(digits))
	}
	return strconv.ParseInt(digits, 10, 64)
}

// detectorExposureID concatenates the exposure ID and detector number in
// decimal, matching the host stack's uniqueness convention.
func detectorExposureID(expID int64, detNum int) (int64, error) {
	id, err := strconv.ParseInt(fmt.Sprintf("%d%d", expID, detNum), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("detector exposure ID overflows: exposure %d detector %d", expID, detNum)
	}
	return id, nil
}

// dateLayouts are the DATE-OBS forms seen in Huntsman raw data.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseDate parses a DATE-OBS value as UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "Z"))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// observationType normalizes the exposure classification. IMAGETYP decides
// for calibration frame types; light frames are further classified by the
// field name, since the control system records flat and dark acquisition
// sequences as light frames pointed at a named field.
func (t *Translator) observationType(h *fitshdr.Header) types.ObservationType {
	imgType, err := h.Str(t.card("image_type"))
	if err != nil {
		return types.ObsUnknown
	}

	switch strings.ToLower(strings.TrimSpace(imgType)) {
	case "dark frame", "dark":
		return types.ObsDark
	case "bias frame", "bias":
		return types.ObsBias
	case "flat frame", "flat field", "flat":
		return types.ObsFlat
	case "light frame", "light":
	default:
		return types.ObsUnknown
	}

	field, err := h.Str(t.card("field_name"))
	if err != nil {
		return types.ObsScience
	}
	lower := strings.ToLower(field)
	switch {
	case strings.Contains(lower, "flat"):
		return types.ObsFlat
	case strings.Contains(lower, "dark"):
		return types.ObsDark
	case strings.Contains(lower, "bias"):
		return types.ObsBias
	}
	return types.ObsScience
}

// trackingRADec reads the requested mount coordinates. Values may be decimal
// degrees or sexagesimal strings (hours for RA, degrees for Dec).
func (t *Translator) trackingRADec(h *fitshdr.Header) (raDeg, decDeg float64, err error) {
	raDeg, err = angleCard(h, t.card("tracking_ra"), true)
	if err != nil {
		return 0, 0, err
	}
	decDeg, err = angleCard(h, t.card("tracking_dec"), false)
	if err != nil {
		return 0, 0, err
	}
	return raDeg, decDeg, nil
}

// location reads the site coordinates from the header, falling back to the
// configured site for any missing card.
func (t *Translator) location(h *fitshdr.Header) types.SiteConfig {
	loc := t.cfg.Site
	if lat, err := angleCard(h, t.card("latitude"), false); err == nil {
		loc.LatitudeDeg = lat
	}
	if lon, err := angleCard(h, t.card("longitude"), false); err == nil {
		loc.LongitudeDeg = lon
	}
	if elev, err := h.Float(t.card("elevation")); err == nil {
		loc.ElevationM = elev
	}
	return loc
}

// angleCard reads an angle card as degrees. Numeric cards are taken as
// decimal degrees directly; string cards may be decimal or sexagesimal,
// with RA sexagesimal read as hours.
func angleCard(h *fitshdr.Header, keyword string, isRA bool) (float64, error) {
	c, ok := h.Card(keyword)
	if !ok {
		return 0, fmt.Errorf("missing card %s", keyword)
	}
	switch v := c.Value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		return ParseAngle(v, isRA)
	}
	return 0, fmt.Errorf("card %s is not an angle", keyword)
}

// ParseAngle parses a coordinate string as degrees. Plain numbers are
// decimal degrees. Colon- or space-separated sexagesimal is hours for RA
// ("08:22:17.7" = 125.57 deg) and signed degrees otherwise.
func ParseAngle(s string, isRA bool) (float64, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}

	neg := byte(' ')
	if strings.HasPrefix(s, "-") {
		neg = '-'
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ' ' })
	if len(parts) != 3 {
		return 0, fmt.Errorf("unparseable angle %q", s)
	}

	d, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("unparseable angle %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("unparseable angle %q: %w", s, err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable angle %q: %w", s, err)
	}

	if isRA {
		if neg == '-' {
			return 0, fmt.Errorf("negative right ascension %q", s)
		}
		return unit.NewRA(d, m, sec).Deg(), nil
	}
	return unit.NewAngle(neg, d, m, sec).Deg(), nil
}

var calibIDPattern = regexp.MustCompile(`(\S+)=(\S+)`)

// FromCalibID extracts one key from the CALIB_ID card. Calibration products
// carry provenance metadata as space-separated key=value pairs.
func FromCalibID(h *fitshdr.Header, key string) (string, error) {
	data, err := h.Str("CALIB_ID")
	if err != nil {
		return "", err
	}
	for _, m := range calibIDPattern.FindAllStringSubmatch(data, -1) {
		if m[1] == key {
			return m[2], nil
		}
	}
	return "", fmt.Errorf("translate: CALIB_ID has no key %q", key)
}
