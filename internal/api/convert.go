package api

import (
	"pipedeck/internal/catalog"
	"pipedeck/internal/deps"
	"pipedeck/internal/preflight"
)

// FromEntry converts a catalog entry to its API representation. activeID
// marks the entry currently playing.
func FromEntry(e catalog.Entry, activeID string) Pipeline {
	dto := Pipeline{
		ID:            e.ID,
		Name:          e.Name,
		Pipeline:      e.Text,
		Category:      string(e.Category()),
		CategoryColor: e.Color().Hex(),
		IsFavorite:    e.Favorite,
		Active:        activeID != "" && e.ID == activeID,
		CreatedTime:   e.CreatedAt.UnixMilli(),
		LastUsedTime:  e.LastUsedAt.UnixMilli(),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !e.LastUsedAt.IsZero() {
		dto.LastUsedAt = e.LastUsedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromEntries converts entries, preserving order. The result is never nil.
func FromEntries(entries []catalog.Entry, activeID string) []Pipeline {
	out := make([]Pipeline, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e, activeID))
	}
	return out
}

// FromDependencyStatuses converts dependency checks.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, DependencyStatus{
			Name:        s.Name,
			Command:     s.Command,
			Description: s.Description,
			Optional:    s.Optional,
			Available:   s.Available,
			Detail:      s.Detail,
		})
	}
	return out
}

// FromPreflight converts readiness checks.
func FromPreflight(results []preflight.Result) []CheckResult {
	out := make([]CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, CheckResult{
			Name:     r.Name,
			Passed:   r.Passed,
			Advisory: r.Advisory,
			Detail:   r.Detail,
		})
	}
	return out
}
