package store

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bifrost2409/nextfetch/internal/digest"
	"github.com/spf13/afero"
)

// LocalStore resolves registry names to files below a root directory.
type LocalStore struct {
	root string
	fs   afero.Fs
}

func NewLocalStore(fsys afero.Fs, root string) *LocalStore {
	return &LocalStore{root: root, fs: fsys}
}

// Root returns the storage directory.
func (s *LocalStore) Root() string {
	return s.root
}

// Path returns the local path for a registry name.
func (s *LocalStore) Path(name string) (string, error) {
	clean := path.Clean(name)
	if name == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Check compares the local copy of name with the expected hash.
func (s *LocalStore) Check(name, expected string) (Status, error) {
	p, err := s.Path(name)
	if err != nil {
		return StatusMissing, err
	}

	info, err := s.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusMissing, nil
		}
		return StatusMissing, err
	}
	if !info.Mode().IsRegular() {
		return StatusMissing, fmt.Errorf("%s: not a regular file", p)
	}

	actual, err := digest.File(s.fs, p)
	if err != nil {
		return StatusMissing, fmt.Errorf("hash %s: %w", p, err)
	}
	if actual != expected {
		return StatusStale, nil
	}
	return StatusOK, nil
}
