// File: internal/repository/audio/bolt_store.go
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ErrAudioNotFound = errors.New("audio object not found")

var bucketAudio = []byte("audio_objects")

type boltObjectStore struct {
	db *bolt.DB
}

// NewBoltObjectStore opens (or creates) the audio object database at path.
// The single bucket is created eagerly so reads never race bucket creation.
func NewBoltObjectStore(path string) (ObjectStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return nil, fmt.Errorf("creating audio store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening audio store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketAudio)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating audio bucket: %w", err)
	}

	return &boltObjectStore{db: db}, nil
}

func (s *boltObjectStore) Put(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return errors.New("audio key is required")
	}
	if len(payload) == 0 {
		return errors.New("audio payload is empty")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAudio).Put([]byte(key), payload)
	})
}

func (s *boltObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("audio key is required")
	}

	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAudio).Get([]byte(key))
		if v == nil {
			return ErrAudioNotFound
		}
		// Copy: bolt-owned memory is only valid inside the transaction.
		payload = make([]byte, len(v))
		copy(payload, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *boltObjectStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("audio key is required")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAudio).Delete([]byte(key))
	})
}

// DeleteAll removes every given key in one transaction. Missing keys are not
// an error; cascade deletes must be idempotent.
func (s *boltObjectStore) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAudio)
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *boltObjectStore) Close() error {
	return s.db.Close()
}
