package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// record is the wire form of one entry in the combined snapshot.
type record struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Pipeline     string `json:"pipeline"`
	CreatedTime  int64  `json:"createdTime"`
	LastUsedTime int64  `json:"lastUsedTime"`
	IsFavorite   bool   `json:"isFavorite"`
}

// looseRecord distinguishes absent fields from zero values.
type looseRecord struct {
	ID           *string `json:"id"`
	Name         *string `json:"name"`
	Pipeline     *string `json:"pipeline"`
	CreatedTime  *int64  `json:"createdTime"`
	LastUsedTime *int64  `json:"lastUsedTime"`
	IsFavorite   *bool   `json:"isFavorite"`
}

func encodeSnapshot(entries []Entry) (string, error) {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		records = append(records, record{
			ID:           e.ID,
			Name:         e.Name,
			Pipeline:     e.Text,
			CreatedTime:  e.CreatedAt.UnixMilli(),
			LastUsedTime: e.LastUsedAt.UnixMilli(),
			IsFavorite:   e.Favorite,
		})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// decodeSnapshot parses a stored snapshot. Every element must carry id,
// name, and pipeline; timestamps and the favorite flag default to zero.
func decodeSnapshot(raw string) ([]Entry, error) {
	var loose []looseRecord
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(loose))
	for i, rec := range loose {
		if rec.ID == nil || rec.Name == nil || rec.Pipeline == nil {
			return nil, fmt.Errorf("element %d: missing id, name, or pipeline", i)
		}
		entries = append(entries, Entry{
			ID:         *rec.ID,
			Name:       *rec.Name,
			Text:       *rec.Pipeline,
			CreatedAt:  time.UnixMilli(deref(rec.CreatedTime)),
			LastUsedAt: time.UnixMilli(deref(rec.LastUsedTime)),
			Favorite:   deref(rec.IsFavorite),
		})
	}
	return entries, nil
}

// parseImport validates a snapshot supplied by the user and normalizes it
// into entries. Missing or repeated ids are replaced with fresh ones and
// missing timestamps become now.
func parseImport(raw string, now time.Time) ([]Entry, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if elements == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidSnapshot)
	}

	stamp := millis(now).UnixMilli()
	seen := make(map[string]struct{}, len(elements))
	entries := make([]Entry, 0, len(elements))
	for i, element := range elements {
		var rec looseRecord
		if err := json.Unmarshal(element, &rec); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidSnapshot, i, err)
		}
		if rec.Name == nil {
			return nil, fmt.Errorf("%w: element %d: missing name", ErrInvalidSnapshot, i)
		}
		if rec.Pipeline == nil {
			return nil, fmt.Errorf("%w: element %d: missing pipeline", ErrInvalidSnapshot, i)
		}

		id := ""
		if rec.ID != nil {
			id = *rec.ID
		}
		if _, dup := seen[id]; id == "" || dup {
			id = uuid.NewString()
		}
		seen[id] = struct{}{}

		created := stamp
		if rec.CreatedTime != nil {
			created = *rec.CreatedTime
		}
		lastUsed := created
		if rec.LastUsedTime != nil {
			lastUsed = *rec.LastUsedTime
		}
		entries = append(entries, Entry{
			ID:         id,
			Name:       *rec.Name,
			Text:       *rec.Pipeline,
			CreatedAt:  time.UnixMilli(created),
			LastUsedAt: time.UnixMilli(lastUsed),
			Favorite:   deref(rec.IsFavorite),
		})
	}
	return entries, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
