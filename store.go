package nextfetch

import (
	"github.com/bifrost2409/nextfetch/internal/remote"
	"github.com/bifrost2409/nextfetch/internal/store"
)

// Downloader retrieves a URL into a local path, verifying its hash.
// Re-exported from internal/remote for convenience.
type Downloader = remote.Downloader

// Authenticator provides credentials for the share host.
type Authenticator = remote.Authenticator

// ShareAuthenticator authenticates against a password protected share.
type ShareAuthenticator = remote.ShareAuthenticator

// Status describes a local file relative to its registry hash.
type Status = store.Status

const (
	StatusMissing = store.StatusMissing
	StatusStale   = store.StatusStale
	StatusOK      = store.StatusOK
)
