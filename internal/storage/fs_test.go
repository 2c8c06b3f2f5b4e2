package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestFSSetAndGet(t *testing.T) {
	s := tempFS(t)
	ctx := context.Background()
	if err := s.Set(ctx, "cards", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "cards")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("content = %q", got)
	}
}

func TestFSGetMissing(t *testing.T) {
	s := tempFS(t)
	if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestFSRemove(t *testing.T) {
	s := tempFS(t)
	ctx := context.Background()
	_ = s.Set(ctx, "bye", []byte("x"))
	if err := s.Remove(ctx, "bye"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get(ctx, "bye"); !errors.Is(err, ErrNotExist) {
		t.Error("expected ErrNotExist after Remove")
	}
	if err := s.Remove(ctx, "bye"); err != nil {
		t.Errorf("second Remove should succeed: %v", err)
	}
}

func TestFSInvalidKeys(t *testing.T) {
	s := tempFS(t)
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "a/b", ".hidden", "/etc/passwd"} {
		if err := s.Set(ctx, key, []byte("x")); err == nil {
			t.Errorf("expected error for key %q", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Errorf("expected error reading key %q", key)
		}
	}
}

func TestFSAtomicWriteLeavesNoTemp(t *testing.T) {
	s := tempFS(t)
	ctx := context.Background()
	_ = s.Set(ctx, "atomic", []byte("original"))
	if err := s.Set(ctx, "atomic", []byte("updated")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := s.Get(ctx, "atomic")
	if string(got) != "updated" {
		t.Errorf("content = %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".quotecard-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFSCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFS(dir); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestNewFSFileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "quotecard-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
