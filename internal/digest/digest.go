// Package digest computes and validates sha256 content hashes.
//
// Hashes are lowercase hex strings without an algorithm prefix, the form used
// in registry files. Files are read in fixed-size chunks so that large
// datasets never need to fit in memory.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/spf13/afero"
)

const (
	Algorithm = "sha256"
	ChunkSize = 64 * 1024
	HexLen    = 64
)

// File returns the hex sha256 of the named file.
func File(fsys afero.Fs, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return Reader(f)
}

// New returns a streaming hasher whose result is read with Sum.
func New() hash.Hash {
	return sha256.New()
}

// Sum returns the lowercase hex digest accumulated in h.
func Sum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Reader returns the hex sha256 of everything read from r.
func Reader(r io.Reader) (string, error) {
	h := New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return Sum(h), nil
}

// Parse normalizes a registry hash. Both "sha256:<hex>" and bare hex are
// accepted; the result is always bare lowercase hex.
func Parse(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if Valid(s) {
		return s, nil
	}
	if !strings.Contains(s, ":") {
		s = Algorithm + ":" + s
	}
	h, err := v1.NewHash(s)
	if err != nil {
		return "", fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h.Hex, nil
}

// Valid reports whether s is a bare lowercase hex sha256.
func Valid(s string) bool {
	if len(s) != HexLen {
		return false
	}
	_, err := v1.NewHash(Algorithm + ":" + s)
	return err == nil
}
