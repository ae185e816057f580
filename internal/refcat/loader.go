// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package refcat

import (
	"fmt"
	"math"
	"sort"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"

	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

// Catalog is an opened reference catalogue. Shards load lazily and stay
// cached; a catalogue is read-mostly and shards are small.
type Catalog struct {
	dir   string
	meta  types.CatalogMeta
	index *Index
	cache map[int][]types.RefSource
}

// Open reads the catalogue metadata in dir and prepares the shard index.
func Open(dir string) (*Catalog, error) {
	meta, err := readMeta(dir)
	if err != nil {
		return nil, fmt.Errorf("refcat: opening catalogue %s: %w", dir, err)
	}
	if meta.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("refcat: %s: unsupported format version %d", dir, meta.FormatVersion)
	}
	index, err := NewIndex(meta.Depth)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		dir:   dir,
		meta:  meta,
		index: index,
		cache: make(map[int][]types.RefSource),
	}, nil
}

// Meta returns the catalogue metadata.
func (c *Catalog) Meta() types.CatalogMeta {
	return c.meta
}

// Shard returns the sources of one shard, loading it on first access.
// A shard not listed in the metadata is empty, not an error.
func (c *Catalog) Shard(id int) ([]types.RefSource, error) {
	if srcs, ok := c.cache[id]; ok {
		return srcs, nil
	}
	if _, ok := c.meta.Shards[id]; !ok {
		return nil, nil
	}
	srcs, err := readShard(c.dir, id)
	if err != nil {
		return nil, err
	}
	c.cache[id] = srcs
	return srcs, nil
}

// cart returns the unit vector of a sky position.
func cart(raDeg, decDeg float64) coord.Cart {
	ra := unit.RAFromDeg(raDeg).Rad()
	dec := unit.AngleFromDeg(decDeg).Rad()
	return coord.Cart{
		X: math.Cos(dec) * math.Cos(ra),
		Y: math.Cos(dec) * math.Sin(ra),
		Z: math.Sin(dec),
	}
}

// sepDeg returns the angular separation of two unit vectors in degrees.
func sepDeg(a, b coord.Cart) float64 {
	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return unit.Angle(math.Acos(dot)).Deg()
}

// ConeSearch returns the sources within radiusDeg of a position, sorted by
// separation. Only shards whose bound overlaps the cone are loaded.
func (c *Catalog) ConeSearch(raDeg, decDeg, radiusDeg float64) ([]types.RefSource, error) {
	if radiusDeg < 0 {
		return nil, fmt.Errorf("refcat: negative search radius %v", radiusDeg)
	}
	center := cart(raDeg, decDeg)

	type hit struct {
		src types.RefSource
		sep float64
	}
	var hits []hit

	for id := range c.meta.Shards {
		shardRA, shardDec, err := c.index.Center(id)
		if err != nil {
			return nil, err
		}
		bound, err := c.index.Bound(id)
		if err != nil {
			return nil, err
		}
		if sepDeg(center, cart(shardRA, shardDec)) > radiusDeg+bound {
			continue
		}

		srcs, err := c.Shard(id)
		if err != nil {
			return nil, err
		}
		for _, src := range srcs {
			if sep := sepDeg(center, cart(src.RADeg, src.DecDeg)); sep <= radiusDeg {
				hits = append(hits, hit{src: src, sep: sep})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].sep < hits[j].sep })
	out := make([]types.RefSource, len(hits))
	for i, h := range hits {
		out[i] = h.src
	}
	return out, nil
}
