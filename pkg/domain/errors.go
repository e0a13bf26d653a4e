package domain

import "errors"

// ErrRunNotFound is returned when a run ID cannot be found in the journal.
var ErrRunNotFound = errors.New("run not found")

// ErrLockHeld is returned when another provisioning run holds the host lock.
var ErrLockHeld = errors.New("provisioning lock already held")

// ErrElevationRequired is returned when a host-mutating step needs
// administrator privileges the current process does not have.
var ErrElevationRequired = errors.New("elevated privileges required")

// ErrManifestMissing is returned when the dependency manifest
// (requirements file) cannot be found.
var ErrManifestMissing = errors.New("dependency manifest not found")

// ErrChecksumMismatch is returned when a downloaded artifact does not
// match its pinned digest.
var ErrChecksumMismatch = errors.New("artifact checksum mismatch")

// ErrUnknownBackend is returned when the configured install backend is
// not one of the supported strategies.
var ErrUnknownBackend = errors.New("unknown install backend")
