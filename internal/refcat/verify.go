// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package refcat

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
)

// VerifyResult summarizes a catalogue structural check.
type VerifyResult struct {
	Shards   int
	Sources  int
	Problems []string
}

// OK reports whether the catalogue passed verification.
func (r VerifyResult) OK() bool {
	return len(r.Problems) == 0
}

// Verify checks a catalogue directory: the metadata parses, every listed
// shard file exists and decodes, per-shard counts match the metadata, and
// every source in a shard actually indexes to that shard. Findings are
// written to w; the returned result collects them.
func Verify(dir string, w io.Writer) (VerifyResult, error) {
	var result VerifyResult

	cat, err := Open(dir)
	if err != nil {
		return result, err
	}
	meta := cat.Meta()
	result.Shards = len(meta.Shards)

	shards := make([]int, 0, len(meta.Shards))
	for id := range meta.Shards {
		shards = append(shards, id)
	}
	sort.Ints(shards)

	for _, id := range shards {
		srcs, err := readShard(dir, id)
		if err != nil {
			result.Problems = append(result.Problems, fmt.Sprintf("shard %d: %v", id, err))
			fmt.Fprintf(w, "problem  shard %d: %v\n", id, err)
			continue
		}
		if len(srcs) != meta.Shards[id] {
			p := fmt.Sprintf("shard %d: %d sources, metadata says %d", id, len(srcs), meta.Shards[id])
			result.Problems = append(result.Problems, p)
			fmt.Fprintf(w, "problem  %s\n", p)
		}
		for _, src := range srcs {
			got, err := cat.index.Shard(src.RADeg, src.DecDeg)
			if err != nil || got != id {
				p := fmt.Sprintf("shard %d: source %s indexes to shard %d", id, src.ID, got)
				result.Problems = append(result.Problems, p)
				fmt.Fprintf(w, "problem  %s\n", p)
				break
			}
		}
		result.Sources += len(srcs)
	}

	if result.Sources != meta.NSources {
		p := fmt.Sprintf("total %d sources, metadata says %d", result.Sources, meta.NSources)
		result.Problems = append(result.Problems, p)
		fmt.Fprintf(w, "problem  %s\n", p)
	}

	if result.OK() {
		fmt.Fprintf(w, "ok  %s: %d sources in %d shards\n", filepath.Base(dir), result.Sources, result.Shards)
	}
	return result, nil
}
