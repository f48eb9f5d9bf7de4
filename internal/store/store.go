// Package store implements the local dataset storage layer.
//
// Files live below a root directory under their registry name:
//
//	root/
//	  20240829/BIFROST_20240829T192305.h5
//	  20240902/BIFROST_20240902T163047.h5
//
// A file counts as present only when its content hashes to the value the
// registry records for it.
package store

import "errors"

// ErrInvalidName is returned for names that would resolve outside the root.
var ErrInvalidName = errors.New("invalid file name")

// Status describes a local copy relative to its registry hash.
type Status int

const (
	StatusMissing Status = iota
	StatusStale
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusStale:
		return "stale"
	case StatusOK:
		return "ok"
	default:
		return "unknown"
	}
}
