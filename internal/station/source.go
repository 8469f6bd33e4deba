package station

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jask/chargemap/internal/format"
)

// Source is a file-backed table that is read once and re-read only when the
// file's size or modification time changes.
type Source struct {
	Path   string
	Layout format.Layout

	mu      sync.Mutex
	table   *Table
	size    int64
	modTime time.Time
}

// NewSource returns a Source for the CSV at path.
func NewSource(path string, l format.Layout) *Source {
	return &Source{Path: path, Layout: l}
}

// Load returns the cached table, reading the file first if it is new or has
// changed. reloaded is true when the file was actually read.
func (s *Source) Load(ctx context.Context) (t *Table, reloaded bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if s.table != nil && info.Size() == s.size && info.ModTime().Equal(s.modTime) {
		return s.table, false, nil
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	loaded, err := Load(f, s.Layout)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", filepath.Base(s.Path), err)
	}
	s.table = loaded
	s.size = info.Size()
	s.modTime = info.ModTime()
	slog.Info("stations loaded", "path", s.Path, "rows", len(loaded.Stations), "skipped", loaded.Skipped)
	for _, e := range loaded.Errors {
		slog.Debug("skipped line", "path", s.Path, "err", e)
	}
	return loaded, true, nil
}

// Watch signals on the returned channel whenever the file is written,
// created or replaced. The directory is watched so editors that save via
// rename are still seen. The channel is closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.Path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer close(changed)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("watch error", "path", abs, "err", err)
			}
		}
	}()
	return changed, nil
}
