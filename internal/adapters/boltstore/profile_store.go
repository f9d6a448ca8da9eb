// Package boltstore persists CLI sessions in a local bolt database, one bucket per profile.
package boltstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
)

var (
	tokenKey = []byte("token")
	userKey  = []byte("user")
)

// DefaultProfile is the profile used when none is selected.
const DefaultProfile = "default"

// DB is an open profile database.
type DB struct {
	db *bolt.DB
}

var _ ports.SessionStores = (*DB)(nil)

// Open opens (creating if needed) the profile database at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("profile database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}
	return &DB{db: db}, nil
}

// DefaultPath returns the per-user profile database location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "ireasearch", "profiles.db"), nil
}

// Close releases the database file lock.
func (d *DB) Close() error { return d.db.Close() }

// Scope returns the session store of one profile.
func (d *DB) Scope(profile string) ports.SessionStore {
	if profile == "" {
		profile = DefaultProfile
	}
	return &ProfileStore{db: d.db, bucket: []byte(profile)}
}

// Profiles lists the profiles holding a session.
func (d *DB) Profiles() ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return names, nil
}

// ProfileStore is the session pair of one profile. Both keys are written and removed
// inside a single bolt transaction.
type ProfileStore struct {
	db     *bolt.DB
	bucket []byte
}

func (p *ProfileStore) Get(_ context.Context) (domainauth.StoredSession, error) {
	var sess domainauth.StoredSession
	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(p.bucket)
		if b == nil {
			return nil
		}
		// Values are only valid inside the transaction; string() copies them out.
		sess.Token = string(b.Get(tokenKey))
		sess.User = string(b.Get(userKey))
		return nil
	})
	if err != nil {
		return domainauth.StoredSession{}, fmt.Errorf("read profile %s: %w", p.bucket, err)
	}
	return sess, nil
}

func (p *ProfileStore) Set(_ context.Context, sess domainauth.StoredSession) error {
	err := p.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(p.bucket)
		if err != nil {
			return err
		}
		if err := putOrDelete(b, tokenKey, sess.Token); err != nil {
			return err
		}
		return putOrDelete(b, userKey, sess.User)
	})
	if err != nil {
		return fmt.Errorf("write profile %s: %w", p.bucket, err)
	}
	return nil
}

// Clear drops the profile bucket, removing both keys at once.
func (p *ProfileStore) Clear(_ context.Context) error {
	err := p.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(p.bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear profile %s: %w", p.bucket, err)
	}
	return nil
}

func putOrDelete(b *bolt.Bucket, key []byte, value string) error {
	if value == "" {
		return b.Delete(key)
	}
	return b.Put(key, []byte(value))
}
