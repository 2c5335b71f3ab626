package storage

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestFileStoreWriteOpenRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()
	key, err := store.Write(ctx, "/ColoringFile/output/../output/a.png", []byte("png"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "ColoringFile/output/a.png" {
		t.Fatalf("key = %q", key)
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "png" {
		t.Fatalf("content = %q", b)
	}

	keys, err := store.List(ctx, "ColoringFile/output")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("List = %v", keys)
	}
}

func TestFileStoreOpenMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Open(context.Background(), "nope.png"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
	keys, err := store.List(context.Background(), "missing")
	if err != nil || keys != nil {
		t.Fatalf("List missing = %v, %v", keys, err)
	}
}

func TestFileStoreOpenDirectoryIsNotExist(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Write(ctx, "ColoringFile/output/a.png", []byte("png")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	for _, key := range []string{"ColoringFile/output", "ColoringFile"} {
		if rc, err := store.Open(ctx, key); !errors.Is(err, ErrNotExist) {
			if rc != nil {
				_ = rc.Close()
			}
			t.Fatalf("Open(%q) err = %v, want ErrNotExist", key, err)
		}
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "../etc/passwd", "..", "  "} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("sanitizeKey(%q) should fail", key)
		}
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), Options{Driver: "ftp"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
