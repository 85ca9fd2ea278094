package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pipedeck/internal/catalog"
	"pipedeck/internal/deps"
	"pipedeck/internal/preflight"
)

func TestFromEntry(t *testing.T) {
	e := catalog.Entry{
		ID:         "abc",
		Name:       "Door",
		Text:       "rtspsrc location=rtsp://door ! autovideosink",
		CreatedAt:  time.UnixMilli(1_700_000_000_000),
		LastUsedAt: time.UnixMilli(1_700_000_000_500),
		Favorite:   true,
	}
	dto := FromEntry(e, "abc")
	if dto.Category != "rtsp" || dto.CategoryColor != "#FF03A9F4" {
		t.Fatalf("unexpected category %q %q", dto.Category, dto.CategoryColor)
	}
	if !dto.Active || !dto.IsFavorite {
		t.Fatalf("expected active favorite, got %+v", dto)
	}
	if dto.CreatedTime != 1_700_000_000_000 || dto.LastUsedAt != "2023-11-14T22:13:20.500Z" {
		t.Fatalf("unexpected timestamps %+v", dto)
	}

	raw, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"pipeline":`, `"categoryColor":`, `"isFavorite":true`, `"lastUsedTime":`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("expected %s in %s", key, raw)
		}
	}
}

func TestFromEntriesNeverNil(t *testing.T) {
	got := FromEntries(nil, "")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
	items := FromEntries([]catalog.Entry{{ID: "a"}, {ID: "b"}}, "b")
	if items[0].Active || !items[1].Active {
		t.Fatalf("unexpected active flags %+v", items)
	}
	if items[0].CreatedAt != "" {
		t.Fatalf("zero timestamps should be omitted, got %q", items[0].CreatedAt)
	}
}

func TestFromDependencyStatuses(t *testing.T) {
	out := FromDependencyStatuses([]deps.Status{{Requirement: deps.Requirement{Name: "gst-launch", Command: "gst-launch-1.0"}, Available: true}})
	if len(out) != 1 || out[0].Name != "gst-launch" || !out[0].Available {
		t.Fatalf("unexpected conversion %+v", out)
	}
}

func TestFromPreflight(t *testing.T) {
	out := FromPreflight([]preflight.Result{{Name: "API address", Advisory: true, Detail: "in use"}})
	if len(out) != 1 || out[0].Passed || !out[0].Advisory || out[0].Detail != "in use" {
		t.Fatalf("unexpected conversion %+v", out)
	}
	if FromPreflight(nil) == nil {
		t.Fatal("expected empty slice, not nil")
	}
}
