// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package refcat

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

const (
	// FormatVersion identifies the shard encoding: gzip-compressed gob.
	FormatVersion = 1

	// MetaFile is the catalogue metadata filename.
	MetaFile = "config.yaml"

	refCatsDir = "ref_cats"
)

// shardFile is the gob payload of one shard.
type shardFile struct {
	Shard   int
	Sources []types.RefSource
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Meta    types.CatalogMeta
	Dir     string
	BadRows int
	Skipped bool
}

// Ingest converts the raw catalogue at rawPath into the sharded layout under
// cfg.OutDir/ref_cats/name/. Re-ingesting an unchanged raw file is a no-op:
// the stored checksum decides. Progress goes to w.
func Ingest(cfg types.RefcatConfig, name, rawPath string, w io.Writer) (IngestResult, error) {
	if name == "" {
		return IngestResult{}, fmt.Errorf("refcat: catalogue name required")
	}

	depth := cfg.Depth
	if depth <= 0 {
		depth = 4
	}
	index, err := NewIndex(depth)
	if err != nil {
		return IngestResult{}, err
	}

	checksum, err := fileChecksum(rawPath)
	if err != nil {
		return IngestResult{}, err
	}

	dir := filepath.Join(cfg.OutDir, refCatsDir, name)

	// Unchanged input: keep the existing shards.
	if meta, err := readMeta(dir); err == nil && meta.Checksum == checksum && meta.Depth == depth {
		fmt.Fprintf(w, "skipped %s (unchanged)\n", name)
		return IngestResult{Meta: meta, Dir: dir, Skipped: true}, nil
	}

	f, err := os.Open(rawPath)
	if err != nil {
		return IngestResult{}, fmt.Errorf("refcat: opening catalogue: %w", err)
	}
	defer f.Close()

	read, err := ReadCSV(f, cfg.Bands, w)
	if err != nil {
		return IngestResult{}, err
	}
	if len(read.Sources) == 0 {
		return IngestResult{}, fmt.Errorf("refcat: no usable sources in %s", rawPath)
	}

	byShard := map[int][]types.RefSource{}
	for _, src := range read.Sources {
		shard, err := index.Shard(src.RADeg, src.DecDeg)
		if err != nil {
			// ReadCSV validates coordinates, so this indicates a bug.
			return IngestResult{}, err
		}
		byShard[shard] = append(byShard[shard], src)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return IngestResult{}, fmt.Errorf("refcat: creating catalogue directory: %w", err)
	}
	if err := clearShards(dir); err != nil {
		return IngestResult{}, err
	}

	meta := types.CatalogMeta{
		Name:          name,
		FormatVersion: FormatVersion,
		Depth:         depth,
		Bands:         read.Bands,
		NSources:      len(read.Sources),
		Shards:        make(map[int]int, len(byShard)),
		SourceFile:    rawPath,
		Checksum:      checksum,
		IngestedAt:    time.Now().UTC(),
	}

	shards := make([]int, 0, len(byShard))
	for id := range byShard {
		shards = append(shards, id)
	}
	sort.Ints(shards)

	for _, id := range shards {
		srcs := byShard[id]
		if err := writeShard(dir, id, srcs); err != nil {
			return IngestResult{}, err
		}
		meta.Shards[id] = len(srcs)
		fmt.Fprintf(w, "shard %6d  %d sources\n", id, len(srcs))
	}

	if err := writeMeta(dir, meta); err != nil {
		return IngestResult{}, err
	}

	fmt.Fprintf(w, "\ningested %s: %d sources in %d shards, %d bad rows\n",
		name, meta.NSources, len(meta.Shards), read.BadRows)

	return IngestResult{Meta: meta, Dir: dir, BadRows: read.BadRows}, nil
}

// shardPath names the shard file for an ID.
func shardPath(dir string, shard int) string {
	return filepath.Join(dir, fmt.Sprintf("%d.gob.gz", shard))
}

func writeShard(dir string, shard int, srcs []types.RefSource) error {
	f, err := os.Create(shardPath(dir, shard))
	if err != nil {
		return fmt.Errorf("refcat: creating shard file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(shardFile{Shard: shard, Sources: srcs}); err != nil {
		return fmt.Errorf("refcat: encoding shard %d: %w", shard, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("refcat: closing shard %d: %w", shard, err)
	}
	return f.Close()
}

func readShard(dir string, shard int) ([]types.RefSource, error) {
	f, err := os.Open(shardPath(dir, shard))
	if err != nil {
		return nil, fmt.Errorf("refcat: opening shard %d: %w", shard, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("refcat: shard %d: %w", shard, err)
	}
	defer zr.Close()

	var sf shardFile
	if err := gob.NewDecoder(zr).Decode(&sf); err != nil {
		return nil, fmt.Errorf("refcat: decoding shard %d: %w", shard, err)
	}
	if sf.Shard != shard {
		return nil, fmt.Errorf("refcat: shard file %d claims ID %d", shard, sf.Shard)
	}
	return sf.Sources, nil
}

// clearShards removes stale shard files before a re-ingest.
func clearShards(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.gob.gz"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("refcat: removing stale shard: %w", err)
		}
	}
	return nil
}

func writeMeta(dir string, meta types.CatalogMeta) error {
	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("refcat: marshaling metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, MetaFile), data, 0o644)
}

func readMeta(dir string) (types.CatalogMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return types.CatalogMeta{}, err
	}
	var meta types.CatalogMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return types.CatalogMeta{}, fmt.Errorf("refcat: parsing %s: %w", MetaFile, err)
	}
	return meta, nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("refcat: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("refcat: hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
