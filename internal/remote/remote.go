// Package remote implements the transport to a Nextcloud shared folder.
//
// Files are addressed by the deep links a public share exposes:
//
//	<base>/index.php/s/<folder>/download?path=<dir>&files=<name>
//
// Downloads are streamed into a temporary file next to the destination and
// only renamed into place once their sha256 matches the expected value.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// ErrIntegrity is matched by every IntegrityError.
var ErrIntegrity = errors.New("integrity check failed")

// Downloader retrieves a URL into dst, verifying its content hash.
type Downloader interface {
	// Download stores the content at url in dst. dst is only written when
	// the downloaded bytes hash to expectedHash.
	Download(ctx context.Context, url, expectedHash, dst string) error
}

// Prober reports whether a URL can be downloaded without fetching it.
type Prober interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// IntegrityError is returned when downloaded content does not match the
// hash recorded in the registry.
type IntegrityError struct {
	URL      string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("hash mismatch for %s: expected %s, got %s", e.URL, e.Expected, e.Actual)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: HTTP %d", e.URL, e.StatusCode)
}
