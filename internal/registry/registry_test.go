// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package registry

import (
	"context"
	"testing"
	"time"

	"github.com/astrohuntsman/obs-huntsman/internal/camera"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.RegistryConfig{Root: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDetectors(t *testing.T) []types.Detector {
	t.Helper()
	dets, err := camera.Build(camera.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return dets
}

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	for _, table := range []string{"instrument", "detector", "physical_filter", "refcat"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestRegisterInstrument(t *testing.T) {
	store := testStore(t)
	dets := testDetectors(t)
	ctx := context.Background()

	err := store.RegisterInstrument(ctx, "Huntsman", 99999999999999999, dets, types.DefaultFilters())
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Detectors(ctx, "Huntsman")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(dets) {
		t.Fatalf("registered %d detectors, want %d", len(got), len(dets))
	}
	for i, d := range got {
		if d.ID != dets[i].ID || d.Serial != dets[i].Serial {
			t.Errorf("detector %d: got (%d,%s), want (%d,%s)", i, d.ID, d.Serial, dets[i].ID, dets[i].Serial)
		}
	}

	filters, err := store.Filters(ctx, "Huntsman")
	if err != nil {
		t.Fatal(err)
	}
	if len(filters) != len(types.DefaultFilters()) {
		t.Errorf("registered %d filters, want %d", len(filters), len(types.DefaultFilters()))
	}
}

func TestRegisterInstrumentIsSync(t *testing.T) {
	store := testStore(t)
	dets := testDetectors(t)
	ctx := context.Background()

	if err := store.RegisterInstrument(ctx, "Huntsman", 1, dets, types.DefaultFilters()); err != nil {
		t.Fatal(err)
	}
	// Second registration with a changed purpose updates in place.
	dets[0].Purpose = "guider"
	if err := store.RegisterInstrument(ctx, "Huntsman", 1, dets, types.DefaultFilters()); err != nil {
		t.Fatal(err)
	}

	got, err := store.Detectors(ctx, "Huntsman")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(dets) {
		t.Fatalf("duplicate rows after re-registration: %d", len(got))
	}
	if got[0].Purpose != "guider" {
		t.Errorf("purpose = %q after sync", got[0].Purpose)
	}
}

func TestRegisterInstrumentEmptyDetectors(t *testing.T) {
	store := testStore(t)
	err := store.RegisterInstrument(context.Background(), "Huntsman", 1, nil, nil)
	if err == nil {
		t.Fatal("registered an instrument with no detectors")
	}
}

func TestRegisterAndListRefcats(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	meta := types.CatalogMeta{
		Name:       "ps1_pv3_3pi_20170110_GmagLT19",
		Depth:      4,
		NSources:   12345,
		IngestedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
	}
	if err := store.RegisterRefcat(ctx, meta, "/data/ref_cats/ps1"); err != nil {
		t.Fatal(err)
	}

	// Re-registration updates, not duplicates.
	meta.NSources = 20000
	if err := store.RegisterRefcat(ctx, meta, "/data/ref_cats/ps1"); err != nil {
		t.Fatal(err)
	}

	cats, err := store.ListRefcats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 1 {
		t.Fatalf("ListRefcats returned %d records, want 1", len(cats))
	}
	r := cats[0]
	if r.NSources != 20000 {
		t.Errorf("NSources = %d after update", r.NSources)
	}
	if !r.IngestedAt.Equal(meta.IngestedAt) {
		t.Errorf("IngestedAt = %v, want %v", r.IngestedAt, meta.IngestedAt)
	}
}
