package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/zalando/go-keyring"
)

// Store persists a single profile.
type Store interface {
	// Load returns ErrNotFound when nothing was saved yet.
	Load() (Profile, error)
	Save(p Profile) error
	Clear() error
}

func now(c engine.Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c.Now()
}

// -----------------------------------------------------------------------------
// File
// -----------------------------------------------------------------------------

// FileStore keeps the profile as a vCard file readable by the owner only.
type FileStore struct {
	Path  string
	Clock engine.Clock
}

// NewFileStore returns a FileStore at the default profile location.
func NewFileStore() *FileStore {
	return &FileStore{Path: config.DefaultProfilePath()}
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Load() (Profile, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileLoad, err)
	}
	return Decode(bytes.NewReader(data), now(s.Clock))
}

// Save replaces the file atomically.
func (s *FileStore) Save(p Profile) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileSave, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrProfileSave, err)
	}
	if err := tmp.Chmod(config.FilePermUserRW); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrProfileSave, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileSave, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileSave, err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", config.ErrProfileClear, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Keyring
// -----------------------------------------------------------------------------

// KeyringStore keeps the profile vCard as a secret in the OS keyring.
type KeyringStore struct {
	Service string
	User    string
	Clock   engine.Clock
}

// NewKeyringStore returns a KeyringStore using the application's service name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: config.KeyringService, User: config.KeyringUser}
}

func (s *KeyringStore) Name() string { return "keyring" }

func (s *KeyringStore) Load() (Profile, error) {
	secret, err := keyring.Get(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileLoad, err)
	}
	return Decode(strings.NewReader(secret), now(s.Clock))
}

func (s *KeyringStore) Save(p Profile) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	if err := keyring.Set(s.Service, s.User, buf.String()); err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileSave, err)
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(s.Service, s.User); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%s: %w", config.ErrProfileClear, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Chain
// -----------------------------------------------------------------------------

// Chain reads from the first store that has a profile and writes to all of them,
// so a profile survives the loss of any single backend.
type Chain []Store

func storeName(s Store) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// Load returns the first profile found. Backends that fail are skipped; the
// last failure is returned only when no backend had a profile.
func (c Chain) Load() (Profile, error) {
	var lastErr error
	for _, s := range c {
		p, err := s.Load()
		if err == nil {
			slog.Info(config.MsgProfileLoaded,
				config.LogKeyComponent, config.CompProfile,
				config.LogKeyStore, storeName(s),
			)
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			slog.Warn(config.MsgFallbackFailed,
				config.LogKeyComponent, config.CompProfile,
				config.LogKeyStore, storeName(s),
				config.LogKeyError, err,
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return Profile{}, lastErr
	}
	return Profile{}, ErrNotFound
}

// Save writes to every backend and succeeds when at least one accepted it.
func (c Chain) Save(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var errs []error
	for _, s := range c {
		if err := s.Save(p); err != nil {
			slog.Warn(config.MsgFallbackFailed,
				config.LogKeyComponent, config.CompProfile,
				config.LogKeyStore, storeName(s),
				config.LogKeyError, err,
			)
			errs = append(errs, err)
		}
	}
	if len(c) > 0 && len(errs) == len(c) {
		return errors.Join(errs...)
	}
	slog.Info(config.MsgProfileSaved, config.LogKeyComponent, config.CompProfile)
	return nil
}

// Clear removes the profile from every backend.
func (c Chain) Clear() error {
	var errs []error
	for _, s := range c {
		if err := s.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	slog.Info(config.MsgProfileCleared, config.LogKeyComponent, config.CompProfile)
	return nil
}

// DefaultStore is the file store backed up by the keyring.
func DefaultStore() Chain {
	return Chain{NewFileStore(), NewKeyringStore()}
}
