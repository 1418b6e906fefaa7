package conversation

import (
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "data", "chat_session"))

	if err := store.Save("chat-42"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	id, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if id != "chat-42" {
		t.Fatalf("got %q want %q", id, "chat-42")
	}
}

func TestFileStoreMissingFileIsAbsence(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "chat_session"))

	id, err := store.Load()
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty identifier, got %q", id)
	}
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "chat_session"))

	if err := store.Save("chat-7"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear must be a no-op: %v", err)
	}

	id, err := store.Load()
	if err != nil || id != "" {
		t.Fatalf("expected absence after clear, got %q, %v", id, err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "chat_session"))

	if err := store.Save("chat-old"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save("chat-new"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	id, _ := store.Load()
	if id != "chat-new" {
		t.Fatalf("got %q want %q", id, "chat-new")
	}
}
