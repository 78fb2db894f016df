// Package settings persists small, frequently rewritten client state in a
// Badger key-value store, separate from the SQLite tag database.
package settings

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/id"
)

const (
	keyPanelPreferences = "prefs:panel"
	keyPairingSecret    = "pairing:secret"
	keyInstanceID       = "instance:id"
)

// Store wraps a Badger database holding preferences and pairing state.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the settings database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings db: %w", err)
	}

	if logger != nil {
		logger.Info("settings database opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetPanelPreferences retrieves the saved tag panel state.
// Returns defaults if nothing has been saved yet.
func (s *Store) GetPanelPreferences(ctx context.Context) (*domain.PanelPreferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prefs domain.PanelPreferences

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPanelPreferences))
		if errors.Is(err, badger.ErrKeyNotFound) {
			prefs = *domain.NewPanelPreferences()
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &prefs)
		})
	})
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePanelPreferences writes the tag panel state.
func (s *Store) SavePanelPreferences(ctx context.Context, prefs *domain.PanelPreferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal panel preferences: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPanelPreferences), data)
	})
}

// GetPairingSecret returns the stored pairing secret, or nil when no
// device has paired yet.
func (s *Store) GetPairingSecret(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var secret []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPairingSecret))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		secret, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// InstanceID returns the server's stable identity, generating and
// persisting one on first call.
func (s *Store) InstanceID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var instanceID string
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyInstanceID))
		if err == nil {
			return item.Value(func(val []byte) error {
				instanceID = string(val)
				return nil
			})
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		instanceID, err = id.Generate("srv")
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyInstanceID), []byte(instanceID))
	})
	if err != nil {
		return "", err
	}
	return instanceID, nil
}

// SetPairingSecret stores the pairing secret.
func (s *Store) SetPairingSecret(ctx context.Context, secret []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPairingSecret), secret)
	})
}
