package nextfetch

import (
	"errors"

	"github.com/bifrost2409/nextfetch/internal/remote"
)

var (
	ErrNotInRegistry   = errors.New("nextfetch: file not in registry")
	ErrInvalidRegistry = errors.New("nextfetch: invalid registry")
	ErrNoURL           = errors.New("nextfetch: no download url")

	// ErrIntegrity matches every IntegrityError.
	ErrIntegrity = remote.ErrIntegrity
)

// IntegrityError reports downloaded content whose hash differs from the
// registry. The content is discarded, never installed.
type IntegrityError = remote.IntegrityError

// StatusError reports a non-2xx response from the share host.
type StatusError = remote.StatusError
