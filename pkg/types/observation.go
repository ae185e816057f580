// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package types

import "time"

// ObservationType is the normalized exposure classification derived from
// raw header cards.
type ObservationType string

const (
	ObsScience ObservationType = "science"
	ObsDark    ObservationType = "dark"
	ObsBias    ObservationType = "bias"
	ObsFlat    ObservationType = "flat"
	ObsDefect  ObservationType = "defect"
	ObsUnknown ObservationType = "unknown"
)

// ObservationInfo is the standardized exposure metadata record produced by
// header translation. Angles are stored in degrees so the record serializes
// cleanly; the translator works in proper angle types internally.
type ObservationInfo struct {
	// Instrument is the short instrument name ("Huntsman").
	Instrument string `json:"instrument" yaml:"instrument"`

	// DetectorSerial is the camera serial from the raw header.
	DetectorSerial string `json:"detector_serial" yaml:"detector_serial"`

	// DetectorNum is the integer detector ID assigned by the camera table.
	DetectorNum int `json:"detector_num" yaml:"detector_num"`

	// DetectorGroup is constant for Huntsman: every camera is in one group.
	DetectorGroup string `json:"detector_group" yaml:"detector_group"`

	// VisitID is the 17-digit integer derived from DATE-OBS.
	VisitID int64 `json:"visit_id" yaml:"visit_id"`

	// ExposureID equals VisitID: Huntsman takes one exposure per visit.
	ExposureID int64 `json:"exposure_id" yaml:"exposure_id"`

	// ObservationCounter equals ExposureID; exposures are not counted
	// separately within an observing day.
	ObservationCounter int64 `json:"observation_counter" yaml:"observation_counter"`

	// DetectorExposureID is the decimal concatenation of ExposureID and
	// DetectorNum, unique per detector per exposure.
	DetectorExposureID int64 `json:"detector_exposure_id" yaml:"detector_exposure_id"`

	// DatetimeBegin is the start of the observation (UTC).
	DatetimeBegin time.Time `json:"datetime_begin" yaml:"datetime_begin"`

	// DatetimeEnd is DatetimeBegin plus the exposure time.
	DatetimeEnd time.Time `json:"datetime_end" yaml:"datetime_end"`

	// MJDBegin is DatetimeBegin as a modified Julian date.
	MJDBegin float64 `json:"mjd_begin" yaml:"mjd_begin"`

	// ExposureTimeSec is the exposure duration in seconds.
	ExposureTimeSec float64 `json:"exposure_time_sec" yaml:"exposure_time_sec"`

	// ObservationType is the normalized exposure classification.
	ObservationType ObservationType `json:"observation_type" yaml:"observation_type"`

	// PhysicalFilter is the filter name from the raw header, normalized
	// against the filter definitions.
	PhysicalFilter string `json:"physical_filter" yaml:"physical_filter"`

	// TrackingRADeg and TrackingDecDeg are the requested mount coordinates.
	TrackingRADeg  float64 `json:"tracking_ra_deg" yaml:"tracking_ra_deg"`
	TrackingDecDeg float64 `json:"tracking_dec_deg" yaml:"tracking_dec_deg"`

	// AltDeg and AzDeg are the boresight altitude and azimuth at start.
	AltDeg float64 `json:"alt_deg" yaml:"alt_deg"`
	AzDeg  float64 `json:"az_deg" yaml:"az_deg"`

	// Location is the observatory site.
	Location SiteConfig `json:"location" yaml:"location"`
}
