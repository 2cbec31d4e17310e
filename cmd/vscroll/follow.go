package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// tailer reads lines appended to a file. It watches the parent directory so
// that a file replaced by rotation keeps being followed.
type tailer struct {
	path    string
	offset  int64
	partial string
	watcher *fsnotify.Watcher
}

func newTailer(path string) (*tailer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &tailer{path: abs, watcher: watcher}, nil
}

// Watch calls changed whenever the followed file is written or recreated.
// It returns nil once ctx is done.
func (t *tailer) Watch(ctx context.Context, changed func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != t.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				changed()
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", t.path, err)
		}
	}
}

// ReadAppended returns the complete lines written since the previous call.
// A trailing line without a newline is held back until it is finished. A
// file that shrank is read again from the start.
func (t *tailer) ReadAppended() ([]string, error) {
	file, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		t.offset = 0
		t.partial = ""
	}
	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	t.offset += int64(len(data))

	parts := strings.Split(t.partial+string(data), "\n")
	t.partial = parts[len(parts)-1]
	parts = parts[:len(parts)-1]
	for i, line := range parts {
		parts[i] = normalizeLine(line)
	}
	return parts, nil
}

func (t *tailer) Close() error {
	return t.watcher.Close()
}
