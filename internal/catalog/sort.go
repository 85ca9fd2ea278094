package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SortKey selects the primary ordering of SortedView.
type SortKey string

const (
	SortName    SortKey = "name"
	SortRecent  SortKey = "recent"
	SortCreated SortKey = "created"
)

// SortedView returns a copy of entries ordered by key with favorites moved
// ahead of the rest. Both passes are stable, so favorites keep the order the
// key established. An unknown key keeps the input order.
func SortedView(entries []Entry, key SortKey) []Entry {
	view := slices.Clone(entries)
	switch key {
	case SortName:
		folder := cases.Fold()
		folded := make(map[string]string, len(view))
		for _, e := range view {
			if _, ok := folded[e.Name]; !ok {
				folded[e.Name] = folder.String(e.Name)
			}
		}
		slices.SortStableFunc(view, func(a, b Entry) int {
			return strings.Compare(folded[a.Name], folded[b.Name])
		})
	case SortRecent:
		slices.SortStableFunc(view, func(a, b Entry) int {
			return b.LastUsedAt.Compare(a.LastUsedAt)
		})
	case SortCreated:
		slices.SortStableFunc(view, func(a, b Entry) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	slices.SortStableFunc(view, func(a, b Entry) int {
		switch {
		case a.Favorite == b.Favorite:
			return 0
		case a.Favorite:
			return -1
		default:
			return 1
		}
	})
	return view
}

// Filter keeps entries whose derived category is category. An empty
// category keeps everything.
func Filter(entries []Entry, category Category) []Entry {
	if category == "" {
		return slices.Clone(entries)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Category() == category {
			out = append(out, e)
		}
	}
	return out
}

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortName, SortRecent, SortCreated}

// ParseSortKey accepts a sort key name, case-insensitively. An empty value
// selects SortName.
func ParseSortKey(value string) (SortKey, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortName, true
	}
	for _, key := range SortKeys {
		if string(key) == value {
			return key, true
		}
	}
	return "", false
}
