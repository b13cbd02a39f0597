package storage

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketRunState     = []byte("run_state")
	bucketFingerprints = []byte("fingerprints")

	keyLastCleanDate = []byte("last_clean_date")
)

// State is the durable run state: the last-clean-date marker driving the
// daily reset decision, and the article fingerprints seen across runs.
type State struct {
	db *bolt.DB
}

// OpenState opens (or creates) the state database at path.
func OpenState(path string) (*State, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRunState, bucketFingerprints} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &State{db: db}, nil
}

// Close releases the database.
func (s *State) Close() error {
	return s.db.Close()
}

// LastCleanDate returns the UTC date (YYYY-MM-DD) of the last full reset,
// or "" when no reset has happened yet.
func (s *State) LastCleanDate() (string, error) {
	var date string
	err := s.db.View(func(tx *bolt.Tx) error {
		date = string(tx.Bucket(bucketRunState).Get(keyLastCleanDate))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read last clean date: %w", err)
	}
	return date, nil
}

// SetLastCleanDate records the date of a completed full reset.
func (s *State) SetLastCleanDate(date string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRunState).Put(keyLastCleanDate, []byte(date))
	})
	if err != nil {
		return fmt.Errorf("store last clean date: %w", err)
	}
	return nil
}

// Fingerprints returns every stored fingerprint key.
func (s *State) Fingerprints() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFingerprints).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read fingerprints: %w", err)
	}
	return keys, nil
}

// AddFingerprints stores fingerprint keys in one transaction.
func (s *State) AddFingerprints(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketFingerprints)
		for _, k := range keys {
			if k == "" {
				continue
			}
			if err := bucket.Put([]byte(k), []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store fingerprints: %w", err)
	}
	return nil
}

// ClearFingerprints drops the fingerprint set, done alongside a daily reset
// so the store cannot grow without bound.
func (s *State) ClearFingerprints() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketFingerprints); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketFingerprints)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear fingerprints: %w", err)
	}
	return nil
}
