package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
)

// FileStore keeps one record per file in a directory. Records are written
// in the store's format; Get also reads files written in the other format so
// switching formats does not orphan existing records.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	format  graph.Format
}

// DefaultDir returns ~/.config/narrative/records.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "narrative", "records"), nil
}

// NewFileStore creates a file-based record store.
// If baseDir is empty, defaults to ~/.config/narrative/records/.
// An empty format defaults to JSON.
func NewFileStore(baseDir string, format graph.Format) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if format == "" {
		format = graph.FormatJSON
	}
	if format != graph.FormatJSON && format != graph.FormatYAML {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported record format %q", format)
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, format: format}, nil
}

func (s *FileStore) recordPath(name string, format graph.Format) string {
	return filepath.Join(s.baseDir, name+format.Ext())
}

// lookup returns the path of an existing file for name, preferring the
// store's own format, or "" when none exists.
func (s *FileStore) lookup(name string) string {
	for _, f := range []graph.Format{s.format, otherFormat(s.format)} {
		path := s.recordPath(name, f)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func otherFormat(f graph.Format) graph.Format {
	if f == graph.FormatYAML {
		return graph.FormatJSON
	}
	return graph.FormatYAML
}

func (s *FileStore) Get(ctx context.Context, name string) (*graph.Record, error) {
	if err := errs.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.lookup(name)
	if path == "" {
		return nil, nil
	}
	rec, err := graph.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read record %q", name)
	}
	return rec, nil
}

func (s *FileStore) Put(ctx context.Context, rec *graph.Record) error {
	if err := errs.ValidateName(rec.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := graph.Marshal(rec, s.format)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "encode record %q", rec.Name)
	}

	// Write to a temp file and rename so readers never see a partial record.
	path := s.recordPath(rec.Name, s.format)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write record %q", rec.Name)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errs.Wrap(errs.ErrCodeStorage, err, "write record %q", rec.Name)
	}

	// Drop a stale copy in the other format.
	stale := s.recordPath(rec.Name, otherFormat(s.format))
	if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeStorage, err, "remove stale record %q", rec.Name)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range graph.Formats() {
		if err := os.Remove(s.recordPath(name, f)); err != nil && !os.IsNotExist(err) {
			return errs.Wrap(errs.ErrCodeStorage, err, "remove record %q", name)
		}
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read record dir")
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".yaml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// Format returns the format new records are written in.
func (s *FileStore) Format() graph.Format {
	return s.format
}

var _ Store = (*FileStore)(nil)
