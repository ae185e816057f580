// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package types

// FilterDefinition describes one physical filter. PhysicalFilter names an
// individual filter (e.g. "g2_8"); Band is the generic name ("g_band").
// Wavelengths are in nanometres; LambdaMin and LambdaMax are where the
// transmission rises above 1%.
type FilterDefinition struct {
	PhysicalFilter string   `json:"physical_filter" yaml:"physical_filter"`
	Band           string   `json:"band" yaml:"band"`
	LambdaEff      float64  `json:"lambda_eff" yaml:"lambda_eff"`
	LambdaMin      float64  `json:"lambda_min" yaml:"lambda_min"`
	LambdaMax      float64  `json:"lambda_max" yaml:"lambda_max"`
	Aliases        []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// DefaultFilters returns the Huntsman filter set. The g2_8 entry is retained
// for testing against early survey data.
func DefaultFilters() []FilterDefinition {
	return []FilterDefinition{
		{PhysicalFilter: "g2_8", Band: "g_band", LambdaEff: 550, LambdaMin: 500, LambdaMax: 600},
		{PhysicalFilter: "g_band", Band: "g_band", LambdaEff: 550, LambdaMin: 500, LambdaMax: 600},
		{PhysicalFilter: "r_band", Band: "r_band", LambdaEff: 620, LambdaMin: 570, LambdaMax: 690},
		{PhysicalFilter: "blank", Band: "blank", Aliases: []string{"no_filter", "blank"}},
		{PhysicalFilter: "UNKNOWN", Band: "unknown", Aliases: []string{"unknown"}},
	}
}

// NormalizeFilter maps a raw header filter string onto a known physical
// filter, honoring aliases. Unrecognized names map to "UNKNOWN".
func NormalizeFilter(raw string, defs []FilterDefinition) string {
	for _, d := range defs {
		if raw == d.PhysicalFilter {
			return d.PhysicalFilter
		}
		for _, a := range d.Aliases {
			if raw == a {
				return d.PhysicalFilter
			}
		}
	}
	return "UNKNOWN"
}
