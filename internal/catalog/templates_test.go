package catalog

import (
	"context"
	"testing"
)

func TestSeedIfEmptyAddsFavoriteTemplates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seeded, err := SeedIfEmpty(ctx, s, testNow)
	if err != nil || !seeded {
		t.Fatalf("expected seeding, got %v %v", seeded, err)
	}
	entries := s.Load(ctx)
	if len(entries) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(entries))
	}
	for i, want := range []string{"VAST", "CDS_HIGH_LOW"} {
		e := entries[i]
		if e.Name != want || !e.Favorite || e.Category() != CategoryUDP {
			t.Fatalf("unexpected template %d: %+v", i, e)
		}
		if !e.CreatedAt.Equal(testNow) || !e.LastUsedAt.Equal(testNow) {
			t.Fatalf("template timestamps should be now, got %+v", e)
		}
	}
	if entries[0].ID == entries[1].ID {
		t.Fatal("templates must get distinct ids")
	}
}

func TestSeedIfEmptySkipsPopulatedCatalog(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, "mine", "videotestsrc ! autovideosink")

	seeded, err := SeedIfEmpty(ctx, s, testNow)
	if err != nil || seeded {
		t.Fatalf("expected no seeding, got %v %v", seeded, err)
	}
	if got := len(s.Load(ctx)); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
}

func TestSeedIfEmptyReseedsAfterDeletingEverything(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if _, err := SeedIfEmpty(ctx, s, testNow); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, e := range s.Load(ctx) {
		if err := s.Delete(ctx, e.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	}
	seeded, err := SeedIfEmpty(ctx, s, testNow)
	if err != nil || !seeded {
		t.Fatalf("expected reseed, got %v %v", seeded, err)
	}
}
