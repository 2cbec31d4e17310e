package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xqrs/vscroll/store"
)

func openBackends(t *testing.T) map[string]store.Backend {
	t.Helper()
	dir := t.TempDir()

	file, err := store.OpenFile(filepath.Join(dir, "positions.toml"))
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	db, err := store.OpenSQLite(filepath.Join(dir, "positions.db"))
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}

	backends := map[string]store.Backend{
		store.BackendMemory: store.NewMemory(),
		store.BackendFile:   file,
		store.BackendSQLite: db,
	}
	t.Cleanup(func() {
		for _, b := range backends {
			_ = b.Close()
		}
	})
	return backends
}

func TestBackendsRoundTrip(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := b.Get("scroll_missing"); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}
			if err := b.Set("scroll_inbox", "500"); err != nil {
				t.Fatalf("Set returned error: %v", err)
			}
			if err := b.Set("scroll_inbox", "750"); err != nil {
				t.Fatalf("Set overwrite returned error: %v", err)
			}
			value, ok, err := b.Get("scroll_inbox")
			if err != nil || !ok {
				t.Fatalf("Get returned ok=%v err=%v", ok, err)
			}
			if value != "750" {
				t.Fatalf("unexpected value: got %q want %q", value, "750")
			}
		})
	}
}

func TestBackendsListAndDelete(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for key, value := range map[string]string{
				"scroll_b": "20",
				"scroll_a": "10",
				"theme":    "dark",
			} {
				if err := b.Set(key, value); err != nil {
					t.Fatalf("Set(%q) returned error: %v", key, err)
				}
			}

			entries, err := b.List("scroll_")
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(entries))
			}
			if entries[0].Key != "scroll_a" || entries[1].Key != "scroll_b" {
				t.Fatalf("entries not sorted by key: %+v", entries)
			}
			if entries[0].UpdatedAt.IsZero() {
				t.Fatal("expected updated timestamp")
			}

			if err := b.Delete("scroll_a"); err != nil {
				t.Fatalf("Delete returned error: %v", err)
			}
			if err := b.Delete("scroll_never_written"); err != nil {
				t.Fatalf("Delete of missing key returned error: %v", err)
			}
			if _, ok, _ := b.Get("scroll_a"); ok {
				t.Fatal("expected deleted key to be absent")
			}
		})
	}
}

func TestBackendsRejectEmptyKey(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Set("  ", "1"); err == nil {
				t.Fatal("expected error for empty key")
			}
		})
	}
}

func TestClosedStoreReturnsErrClosed(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Close(); err != nil {
				t.Fatalf("Close returned error: %v", err)
			}
			if err := b.Set("scroll_x", "1"); !errors.Is(err, store.ErrClosed) {
				t.Fatalf("expected ErrClosed, got %v", err)
			}
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "positions.toml")
	first, err := store.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if err := first.Set("scroll_logs", "300"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	second, err := store.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	value, ok, err := second.Get("scroll_logs")
	if err != nil || !ok || value != "300" {
		t.Fatalf("unexpected reopen result: value=%q ok=%v err=%v", value, ok, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	if !strings.Contains(string(data), "[entries") {
		t.Fatalf("expected TOML entries table, got %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}
}

func TestFileStoreReportsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.toml")
	if err := os.WriteFile(path, []byte("entries = [not toml"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	s, err := store.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if _, _, err := s.Get("scroll_x"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.db")
	first, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	if err := first.Set("scroll_logs", "1200"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	second, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer second.Close()
	value, ok, err := second.Get("scroll_logs")
	if err != nil || !ok || value != "1200" {
		t.Fatalf("unexpected reopen result: value=%q ok=%v err=%v", value, ok, err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		backend string
		path    string
		wantErr error
	}{
		{backend: "memory"},
		{backend: "", path: ""},
		{backend: "FILE", path: filepath.Join(dir, "a.toml")},
		{backend: "sqlite", path: filepath.Join(dir, "a.db")},
		{backend: "redis", wantErr: store.ErrUnknownBackend},
	}
	for _, tc := range cases {
		b, err := store.Open(tc.backend, tc.path)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Open(%q): expected %v, got %v", tc.backend, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Open(%q) returned error: %v", tc.backend, err)
		}
		_ = b.Close()
	}
}
