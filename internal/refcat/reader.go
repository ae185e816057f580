// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package refcat

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/astrohuntsman/obs-huntsman/internal/translate"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

// ReadResult holds the sources parsed from a raw catalogue and the count of
// rows that could not be parsed. Bad rows are reported, not fatal: upstream
// catalogues routinely carry a handful of malformed entries.
type ReadResult struct {
	Sources []types.RefSource
	Bands   []string
	BadRows int
}

// ReadCSV parses a raw reference catalogue. The first row is a header naming
// at least id, ra, and dec columns (case-insensitive); every other column is
// taken as a magnitude band unless bands is non-empty, in which case only
// the listed bands are kept. RA and Dec accept decimal degrees or
// sexagesimal strings. Per-row problems are logged to w.
func ReadCSV(r io.Reader, bands []string, w io.Writer) (ReadResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return ReadResult{}, fmt.Errorf("refcat: reading catalogue header: %w", err)
	}

	idCol, raCol, decCol := -1, -1, -1
	bandCols := map[int]string{}
	wanted := map[string]bool{}
	for _, b := range bands {
		wanted[strings.ToLower(b)] = true
	}

	for i, name := range header {
		switch n := strings.ToLower(strings.TrimSpace(name)); n {
		case "id", "source_id":
			idCol = i
		case "ra", "ra_deg", "raj2000":
			raCol = i
		case "dec", "dec_deg", "dej2000":
			decCol = i
		default:
			if len(wanted) == 0 || wanted[n] {
				bandCols[i] = n
			}
		}
	}
	if idCol < 0 || raCol < 0 || decCol < 0 {
		return ReadResult{}, fmt.Errorf("refcat: catalogue header missing id/ra/dec columns: %v", header)
	}

	result := ReadResult{}
	for i := range header {
		if b, ok := bandCols[i]; ok {
			result.Bands = append(result.Bands, b)
		}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "bad row  line %d: %v\n", line, err)
			result.BadRows++
			continue
		}

		src, err := parseRow(row, idCol, raCol, decCol, bandCols)
		if err != nil {
			fmt.Fprintf(w, "bad row  line %d: %v\n", line, err)
			result.BadRows++
			continue
		}
		result.Sources = append(result.Sources, src)
	}

	return result, nil
}

func parseRow(row []string, idCol, raCol, decCol int, bandCols map[int]string) (types.RefSource, error) {
	max := idCol
	if raCol > max {
		max = raCol
	}
	if decCol > max {
		max = decCol
	}
	if len(row) <= max {
		return types.RefSource{}, fmt.Errorf("short row (%d fields)", len(row))
	}

	id := strings.TrimSpace(row[idCol])
	if id == "" {
		return types.RefSource{}, fmt.Errorf("empty source id")
	}

	ra, err := translate.ParseAngle(row[raCol], true)
	if err != nil {
		return types.RefSource{}, fmt.Errorf("ra: %w", err)
	}
	dec, err := translate.ParseAngle(row[decCol], false)
	if err != nil {
		return types.RefSource{}, fmt.Errorf("dec: %w", err)
	}
	if dec < -90 || dec > 90 {
		return types.RefSource{}, fmt.Errorf("dec %v out of range", dec)
	}

	src := types.RefSource{ID: id, RADeg: ra, DecDeg: dec, Mags: map[string]float64{}}
	for col, band := range bandCols {
		if col >= len(row) {
			continue
		}
		s := strings.TrimSpace(row[col])
		if s == "" {
			continue
		}
		mag, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.RefSource{}, fmt.Errorf("band %s: %w", band, err)
		}
		src.Mags[band] = mag
	}
	return src, nil
}
