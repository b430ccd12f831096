package files

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var savedNamePattern = regexp.MustCompile(`^file-\d+-\d+\.txt$`)

func TestDiskStoreSaveGeneratesUniqueName(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	ctx := context.Background()

	saved, err := store.Save(ctx, "file", "My Notes.TXT", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Size != 5 {
		t.Fatalf("expected size 5, got %d", saved.Size)
	}
	name := filepath.Base(saved.Path)
	if !savedNamePattern.MatchString(name) {
		t.Fatalf("unexpected generated name %q", name)
	}
	if !strings.HasPrefix(saved.MimeType, "text/plain") {
		t.Fatalf("expected sniffed text mime, got %q", saved.MimeType)
	}

	other, err := store.Save(ctx, "file", "My Notes.TXT", strings.NewReader("world"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if other.Path == saved.Path {
		t.Fatalf("expected distinct file names for repeated uploads")
	}
}

func TestDiskStoreRoundTrip(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	ctx := context.Background()

	saved, err := store.Save(ctx, "file", "report.pdf", strings.NewReader("%PDF-1.4 content"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, err := store.Open(ctx, saved.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 content" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Remove(ctx, saved.Path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, saved.Path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist on second remove, got %v", err)
	}
	exists, err := store.Exists(ctx, saved.Path)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("expected file gone after remove")
	}
}

func TestDiskStoreRejectsPathsOutsideBase(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	ctx := context.Background()

	if _, err := store.Open(ctx, "/etc/passwd"); err == nil {
		t.Fatalf("expected error for path outside base directory")
	}
	if err := store.Remove(ctx, filepath.Join("..", "somewhere", "else")); err == nil {
		t.Fatalf("expected error for relative escape")
	}
}
