package ports

import "github.com/gamearena/wakegate/core"

// CredentialStore owns the persisted router credential. The file on disk is
// the source of truth: Load goes back to it on every call so that an
// out-of-band re-authorization is picked up without a restart.
type CredentialStore interface {
	Load() (core.Credential, error)
	Save(core.Credential) error
	Exists() bool
	Path() string
}
