// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package refcat ingests astrometric reference catalogues into the sharded
// on-disk layout the host pipeline loads at calibration time, and maintains
// the DATA/ref_cats symlink convention the stack expects.
package refcat

import (
	"fmt"
	"math"
)

// Index is the deterministic spatial shard scheme: declination rings
// subdivided in right ascension, with segment counts tapering toward the
// poles so pixels stay roughly equal-area. Shard IDs number pixels from the
// south pole, west to east within each ring, and are stable for a given
// depth.
type Index struct {
	depth   int
	rings   int
	segs    []int
	offsets []int
	total   int
}

// maxDepth bounds the index resolution; depth 16 already gives pixels under
// a quarter of a degree.
const maxDepth = 16

// NewIndex builds the shard index for a depth between 1 and 16. The ring
// count is 4*depth, so depth 4 gives 16 rings of 11.25 degrees.
func NewIndex(depth int) (*Index, error) {
	if depth < 1 || depth > maxDepth {
		return nil, fmt.Errorf("refcat: depth %d out of range [1,%d]", depth, maxDepth)
	}

	rings := 4 * depth
	x := &Index{
		depth:   depth,
		rings:   rings,
		segs:    make([]int, rings),
		offsets: make([]int, rings),
	}

	height := 180.0 / float64(rings)
	for r := 0; r < rings; r++ {
		center := -90.0 + (float64(r)+0.5)*height
		n := int(math.Ceil(2 * float64(rings) * math.Cos(center*math.Pi/180)))
		if n < 1 {
			n = 1
		}
		x.segs[r] = n
		x.offsets[r] = x.total
		x.total += n
	}
	return x, nil
}

// Depth returns the depth the index was built with.
func (x *Index) Depth() int { return x.depth }

// Pixels returns the total shard count.
func (x *Index) Pixels() int { return x.total }

// Shard maps a position to its shard ID. RA is normalized into [0,360);
// Dec outside [-90,90] or non-finite input is an error.
func (x *Index) Shard(raDeg, decDeg float64) (int, error) {
	if math.IsNaN(raDeg) || math.IsInf(raDeg, 0) || math.IsNaN(decDeg) || math.IsInf(decDeg, 0) {
		return 0, fmt.Errorf("refcat: non-finite coordinates (%v, %v)", raDeg, decDeg)
	}
	if decDeg < -90 || decDeg > 90 {
		return 0, fmt.Errorf("refcat: declination %v out of range", decDeg)
	}

	raDeg = math.Mod(raDeg, 360)
	if raDeg < 0 {
		raDeg += 360
	}

	height := 180.0 / float64(x.rings)
	r := int((decDeg + 90) / height)
	if r >= x.rings { // dec exactly +90
		r = x.rings - 1
	}

	seg := int(raDeg / 360 * float64(x.segs[r]))
	if seg >= x.segs[r] {
		seg = x.segs[r] - 1
	}
	return x.offsets[r] + seg, nil
}

// Center returns the pixel center of a shard ID.
func (x *Index) Center(shard int) (raDeg, decDeg float64, err error) {
	if shard < 0 || shard >= x.total {
		return 0, 0, fmt.Errorf("refcat: shard %d out of range [0,%d)", shard, x.total)
	}

	r := x.rings - 1
	for ; x.offsets[r] > shard; r-- {
	}
	seg := shard - x.offsets[r]

	height := 180.0 / float64(x.rings)
	decDeg = -90 + (float64(r)+0.5)*height
	raDeg = (float64(seg) + 0.5) * 360 / float64(x.segs[r])
	return raDeg, decDeg, nil
}

// Bound returns a conservative angular radius in degrees containing the
// whole pixel: any point of the shard is within Bound of its center.
func (x *Index) Bound(shard int) (float64, error) {
	if shard < 0 || shard >= x.total {
		return 0, fmt.Errorf("refcat: shard %d out of range [0,%d)", shard, x.total)
	}

	r := x.rings - 1
	for ; x.offsets[r] > shard; r-- {
	}

	height := 180.0 / float64(x.rings)
	width := 360.0 / float64(x.segs[r])
	// Separation to a pixel corner is at most half the dec height plus half
	// the RA arc, which never exceeds the RA angle itself.
	return (height + width) / 2, nil
}
