package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"pipedeck/internal/catalog"
	"pipedeck/internal/prefs"
)

func TestResolveEntryFallsBackToDigitPrefix(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewStore(prefs.NewMemory())
	now := time.UnixMilli(1_700_000_000_000)
	for _, e := range []catalog.Entry{
		{ID: "12345678-aaaa-bbbb-cccc-000000000001", Name: "Dock", Text: "videotestsrc ! fakesink", CreatedAt: now},
		{ID: "abcdef00-aaaa-bbbb-cccc-000000000002", Name: "Lobby", Text: "udpsrc ! fakesink", CreatedAt: now},
	} {
		if _, err := store.Add(ctx, e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := resolveEntry(ctx, store, "1234")
	if err != nil || got.Name != "Dock" {
		t.Fatalf("expected Dock by digit prefix, got %+v %v", got, err)
	}
	got, err = resolveEntry(ctx, store, "2")
	if err != nil || got.Name != "Lobby" {
		t.Fatalf("expected row 2 to be Lobby, got %+v %v", got, err)
	}
	if _, err := resolveEntry(ctx, store, "99"); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}
