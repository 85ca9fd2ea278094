package catalog

import (
	"context"
	"errors"
	"testing"
)

const rawPipeline = "videotestsrc ! autovideosink"

func TestImporterRejectsRepeatedToken(t *testing.T) {
	s, _ := newTestStore(t)
	im := NewImporter(s, 4)
	ctx := context.Background()

	if _, err := im.ImportData(ctx, "a.gstpipe", []byte(rawPipeline), "tok-1"); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := im.ImportData(ctx, "a.gstpipe", []byte(rawPipeline), "tok-1"); !errors.Is(err, ErrDuplicateImport) {
		t.Fatalf("expected ErrDuplicateImport, got %v", err)
	}
	if got := len(s.Load(ctx)); got != 1 {
		t.Fatalf("expected one entry, got %d", got)
	}
}

func TestImporterEmptyTokenAlwaysImports(t *testing.T) {
	s, _ := newTestStore(t)
	im := NewImporter(s, 4)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := im.ImportData(ctx, "a.gstpipe", []byte(rawPipeline), ""); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}
	if got := len(s.Load(ctx)); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
}

func TestImporterEvictsOldestToken(t *testing.T) {
	s, _ := newTestStore(t)
	im := NewImporter(s, 2)
	ctx := context.Background()
	for _, tok := range []string{"a", "b", "c"} {
		if _, err := im.ImportData(ctx, tok+".gstpipe", []byte(rawPipeline), tok); err != nil {
			t.Fatalf("import %s: %v", tok, err)
		}
	}
	for _, tok := range []string{"b", "c"} {
		if _, err := im.ImportData(ctx, tok+".gstpipe", []byte(rawPipeline), tok); !errors.Is(err, ErrDuplicateImport) {
			t.Fatalf("expected recent token %s to be remembered, got %v", tok, err)
		}
	}
	if _, err := im.ImportData(ctx, "a.gstpipe", []byte(rawPipeline), "a"); err != nil {
		t.Fatalf("evicted token should import again: %v", err)
	}
}

func TestImporterFailedImportDoesNotConsumeToken(t *testing.T) {
	s, _ := newTestStore(t)
	im := NewImporter(s, 4)
	ctx := context.Background()
	if _, err := im.ImportData(ctx, "e.gstpipe", []byte("  "), "tok"); !errors.Is(err, ErrEmptyPipeline) {
		t.Fatalf("expected ErrEmptyPipeline, got %v", err)
	}
	if _, err := im.ImportData(ctx, "e.gstpipe", []byte(rawPipeline), "tok"); err != nil {
		t.Fatalf("failed import must not remember its token: %v", err)
	}
}

func TestImporterDisabledByZeroLimit(t *testing.T) {
	s, _ := newTestStore(t)
	im := NewImporter(s, 0)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := im.ImportData(ctx, "a.gstpipe", []byte(rawPipeline), "same"); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}
}
