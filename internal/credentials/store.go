// Package credentials persists the bearer token across invocations.
//
// The token lives as a single entry in a local bolt key/value file under the
// config directory. Absence of the entry means unauthenticated.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"golang.org/x/oauth2"
)

const (
	bucketName = "session"
	tokenKey   = "token"
)

// Store is a bolt-backed credential store.
type Store struct {
	db   *bolt.DB
	path string
}

// Open opens (creating if needed) the credential store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	// A held file lock (another invocation mid-write) fails fast instead
	// of blocking forever.
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init credential store: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Save persists the token, replacing any previous one.
func (s *Store) Save(tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(tokenKey), raw)
	})
}

// Load returns the stored token, or nil when none is stored.
func (s *Store) Load() (*oauth2.Token, error) {
	var tok *oauth2.Token
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(tokenKey))
		if raw == nil {
			return nil
		}
		var parsed oauth2.Token
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return fmt.Errorf("cant parse stored token: %w", err)
		}
		tok = &parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(tokenKey))
	})
}
