package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

type fileEntry struct {
	Value     string    `toml:"value"`
	UpdatedAt time.Time `toml:"updated_at"`
}

type fileDocument struct {
	Entries map[string]fileEntry `toml:"entries"`
}

// File stores entries in a TOML document. Every operation re-reads the file
// under an advisory lock so separate processes sharing the path see each
// other's writes.
type File struct {
	path string
	lock *flock.Flock

	mu     sync.Mutex
	closed bool
	now    func() time.Time
}

// OpenFile returns a file store at path. The file is created lazily on the
// first write.
func OpenFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}, nil
}

// Path returns the location of the TOML document.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := f.read(func(doc *fileDocument) {
		var entry fileEntry
		entry, found = doc.Entries[key]
		value = entry.Value
	})
	return value, found, err
}

func (f *File) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return f.update(func(doc *fileDocument) {
		doc.Entries[key] = fileEntry{Value: value, UpdatedAt: f.now().UTC().Truncate(time.Second)}
	})
}

func (f *File) List(prefix string) ([]Entry, error) {
	var out []Entry
	err := f.read(func(doc *fileDocument) {
		out = make([]Entry, 0, len(doc.Entries))
		for key, entry := range doc.Entries {
			if strings.HasPrefix(key, prefix) {
				out = append(out, Entry{Key: key, Value: entry.Value, UpdatedAt: entry.UpdatedAt})
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}

func (f *File) Delete(key string) error {
	return f.update(func(doc *fileDocument) {
		delete(doc.Entries, key)
	})
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) read(fn func(doc *fileDocument)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	if err := f.lock.RLock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer f.lock.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	fn(doc)
	return nil
}

func (f *File) update(fn func(doc *fileDocument)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer f.lock.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	fn(doc)
	return f.save(doc)
}

func (f *File) load() (*fileDocument, error) {
	doc := &fileDocument{Entries: make(map[string]fileEntry)}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := toml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]fileEntry)
	}
	return doc, nil
}

// save writes the document atomically via a temp file.
func (f *File) save(doc *fileDocument) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
