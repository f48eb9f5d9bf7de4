package nextfetch

import (
	"github.com/bifrost2409/nextfetch/internal/digest"
	"github.com/spf13/afero"
)

// FileHash returns the lowercase hex sha256 of a file on disk.
func FileHash(name string) (string, error) {
	return HashFile(afero.NewOsFs(), name)
}

// HashFile is FileHash on an arbitrary filesystem.
func HashFile(fsys afero.Fs, name string) (string, error) {
	return digest.File(fsys, name)
}
