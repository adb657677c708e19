package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gamearena/wakegate/core"
	"github.com/gamearena/wakegate/ports"
)

// FileCredentialStore persists the router credential as a small JSON file.
// Every Load reads the file again so an operator can re-run the
// authorization flow without restarting the gateway.
type FileCredentialStore struct {
	path     string
	log      zerolog.Logger
	permOnce sync.Once
}

// NewFileCredentialStore creates a store backed by the file at path.
func NewFileCredentialStore(path string, log zerolog.Logger) ports.CredentialStore {
	return &FileCredentialStore{
		path: path,
		log:  log.With().Str("component", "store").Logger(),
	}
}

// Load reads and validates the credential file. A missing, unreadable or
// incomplete file means the gateway is not authorized yet.
func (s *FileCredentialStore) Load() (core.Credential, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Credential{}, fmt.Errorf("%w: %s does not exist", core.ErrNotAuthorized, s.path)
		}
		return core.Credential{}, fmt.Errorf("%w: reading %s: %v", core.ErrNotAuthorized, s.path, err)
	}

	s.warnOnLoosePermissions()

	var cred core.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return core.Credential{}, fmt.Errorf("%w: parsing %s: %v", core.ErrNotAuthorized, s.path, err)
	}
	if !cred.Valid() {
		return core.Credential{}, fmt.Errorf("%w: %s is missing required fields", core.ErrNotAuthorized, s.path)
	}
	return cred, nil
}

// Save rewrites the credential file in full with owner-only permissions.
func (s *FileCredentialStore) Save(cred core.Credential) error {
	if !cred.Valid() {
		return fmt.Errorf("refusing to save incomplete credential")
	}

	encoded, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}

	if err := os.WriteFile(s.path, encoded, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	s.log.Info().Str("path", s.path).Msg("credential saved")
	return nil
}

// Exists reports whether a credential file is present, without validating it.
func (s *FileCredentialStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the backing file location for diagnostics.
func (s *FileCredentialStore) Path() string {
	return s.path
}

func (s *FileCredentialStore) warnOnLoosePermissions() {
	s.permOnce.Do(func() {
		info, err := os.Stat(s.path)
		if err != nil {
			return
		}
		if info.Mode().Perm()&0o077 != 0 {
			s.log.Warn().Str("path", s.path).Stringer("mode", info.Mode().Perm()).
				Msg("credential file is readable by other users")
		}
	})
}
