// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package types

import "time"

// RefSource is one entry in a reference catalogue: a known source position
// with per-band magnitudes, used for astrometric and photometric calibration.
type RefSource struct {
	// ID is the source identifier from the upstream catalogue.
	ID string `json:"id" yaml:"id"`

	// RADeg and DecDeg are ICRS coordinates in degrees.
	RADeg  float64 `json:"ra_deg" yaml:"ra_deg"`
	DecDeg float64 `json:"dec_deg" yaml:"dec_deg"`

	// Mags maps band name to magnitude.
	Mags map[string]float64 `json:"mags" yaml:"mags"`
}

// CatalogMeta is the config.yaml record written alongside an ingested
// catalogue. It is the authority on the shard layout: a shard file not listed
// here is not part of the catalogue.
type CatalogMeta struct {
	// Name is the catalogue dataset name (e.g. "ps1_pv3_3pi_20170110_GmagLT19").
	Name string `json:"name" yaml:"name"`

	// FormatVersion identifies the shard encoding.
	FormatVersion int `json:"format_version" yaml:"format_version"`

	// Depth is the shard index resolution the catalogue was built with.
	Depth int `json:"depth" yaml:"depth"`

	// Bands lists the magnitude bands present.
	Bands []string `json:"bands" yaml:"bands"`

	// NSources is the total source count across shards.
	NSources int `json:"n_sources" yaml:"n_sources"`

	// Shards maps shard ID to the number of sources in that shard file.
	Shards map[int]int `json:"shards" yaml:"shards"`

	// SourceFile is the raw catalogue path the shards were built from.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// Checksum is the SHA-256 of the raw catalogue, used to skip re-ingestion.
	Checksum string `json:"checksum" yaml:"checksum"`

	// IngestedAt is the ingestion timestamp (UTC).
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
}
