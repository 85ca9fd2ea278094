package catalog

import (
	"testing"
	"time"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func assertNames(t *testing.T, entries []Entry, want ...string) {
	t.Helper()
	got := names(entries)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSortedViewByNameWithFavorites(t *testing.T) {
	entries := []Entry{{ID: "1", Name: "b"}, {ID: "2", Name: "A"}, {ID: "3", Name: "c"}}
	assertNames(t, SortedView(entries, SortName), "A", "b", "c")

	entries[2].Favorite = true
	assertNames(t, SortedView(entries, SortName), "c", "A", "b")
}

func TestSortedViewDoesNotMutateInput(t *testing.T) {
	entries := []Entry{{Name: "b"}, {Name: "a"}}
	_ = SortedView(entries, SortName)
	assertNames(t, entries, "b", "a")
}

func TestSortedViewByTime(t *testing.T) {
	base := time.UnixMilli(1_000_000)
	entries := []Entry{
		{Name: "old", CreatedAt: base, LastUsedAt: base.Add(3 * time.Hour)},
		{Name: "mid", CreatedAt: base.Add(time.Hour), LastUsedAt: base.Add(time.Hour)},
		{Name: "new", CreatedAt: base.Add(2 * time.Hour), LastUsedAt: base.Add(2 * time.Hour)},
	}
	assertNames(t, SortedView(entries, SortCreated), "new", "mid", "old")
	assertNames(t, SortedView(entries, SortRecent), "old", "new", "mid")
}

func TestSortedViewFavoritesKeepKeyOrder(t *testing.T) {
	base := time.UnixMilli(1_000_000)
	entries := []Entry{
		{Name: "a", LastUsedAt: base, Favorite: true},
		{Name: "b", LastUsedAt: base.Add(time.Minute)},
		{Name: "c", LastUsedAt: base.Add(2 * time.Minute), Favorite: true},
		{Name: "d", LastUsedAt: base.Add(3 * time.Minute)},
	}
	assertNames(t, SortedView(entries, SortRecent), "c", "a", "d", "b")
}

func TestSortedViewUnknownKeyKeepsInputOrder(t *testing.T) {
	entries := []Entry{{Name: "z"}, {Name: "y", Favorite: true}, {Name: "x"}}
	assertNames(t, SortedView(entries, SortKey("size")), "y", "z", "x")
}

func TestSortedViewNameTiesAreStable(t *testing.T) {
	entries := []Entry{{ID: "1", Name: "cam"}, {ID: "2", Name: "CAM"}, {ID: "3", Name: "Cam"}}
	view := SortedView(entries, SortName)
	for i, want := range []string{"1", "2", "3"} {
		if view[i].ID != want {
			t.Fatalf("expected stable order, got %+v", view)
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	entries := []Entry{
		{Name: "t", Text: "videotestsrc ! fakesink"},
		{Name: "u", Text: "udpsrc ! fakesink"},
		{Name: "f", Text: "filesrc ! fakesink"},
	}
	assertNames(t, Filter(entries, CategoryUDP), "u")
	assertNames(t, Filter(entries, ""), "t", "u", "f")
	assertNames(t, Filter(entries, CategoryRTSP))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortName, "Recent": SortRecent, " created ": SortCreated} {
		got, ok := ParseSortKey(in)
		if !ok || got != want {
			t.Fatalf("ParseSortKey(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseSortKey("size"); ok {
		t.Fatal("expected unknown key to be rejected")
	}
}
