package dataset

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source enumerates the GNT files of one dataset and opens them as byte
// streams. The decoder is fed plain readers, so tests can substitute
// in-memory buffers for a real cache directory.
type Source interface {
	// Names lists the stream names in a stable order.
	Names() ([]string, error)

	// Open returns a fresh stream positioned at offset 0. Each call
	// produces an independent stream; a consumed stream cannot be reused.
	Open(name string) (io.ReadCloser, error)
}

// Store manages the local cache directory holding downloaded datasets.
// Layout: <root>/<dataset>.zip for archives, <root>/<dataset>/ for the
// extracted files.
type Store struct {
	root string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the cache directory.
func (s *Store) Root() string { return s.root }

// Dir returns the extraction directory for a dataset.
func (s *Store) Dir(name string) string {
	return filepath.Join(s.root, name)
}

// ArchivePath returns where the dataset's downloaded archive lives.
func (s *Store) ArchivePath(name string) string {
	return filepath.Join(s.root, name+".zip")
}

// IsPresent reports whether the dataset has been extracted.
func (s *Store) IsPresent(name string) bool {
	info, err := os.Stat(s.Dir(name))
	return err == nil && info.IsDir()
}

// GNTPaths returns all .gnt files under the dataset directory, sorted.
// Archives sometimes nest the files in a subdirectory, so the whole tree is
// walked rather than globbing one level.
func (s *Store) GNTPaths(name string) ([]string, error) {
	dir := s.Dir(name)
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".gnt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan dataset %s: %w", name, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Source returns a stream source over the dataset's extracted GNT files.
func (s *Store) Source(name string) (Source, error) {
	if !s.IsPresent(name) {
		return nil, fmt.Errorf("dataset %s is not present under %s; run fetch first", name, s.root)
	}
	paths, err := s.GNTPaths(name)
	if err != nil {
		return nil, err
	}
	return &dirSource{paths: paths}, nil
}

// dirSource serves streams straight from files on disk.
type dirSource struct {
	paths []string
}

func (d *dirSource) Names() ([]string, error) {
	names := make([]string, len(d.paths))
	for i, p := range d.paths {
		names[i] = filepath.Base(p)
	}
	return names, nil
}

func (d *dirSource) Open(name string) (io.ReadCloser, error) {
	for _, p := range d.paths {
		if filepath.Base(p) == name {
			return os.Open(p)
		}
	}
	return nil, fmt.Errorf("no such stream: %s", name)
}
