package session

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var (
	bucketName = []byte("session")
	tokenKey   = []byte("token")
)

// BoltStore keeps the token in a bolt file so a restarted console resumes the session.
type BoltStore struct {
	DB *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &BoltStore{DB: db}, nil
}

// Close the database and release the file lock.
func (s *BoltStore) Close() error {
	return s.DB.Close()
}

func (s *BoltStore) Load(context.Context) (string, error) {
	var token string
	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrNoToken
		}
		value := bucket.Get(tokenKey)
		if len(value) == 0 {
			return ErrNoToken
		}
		token = string(value)
		return nil
	})
	return token, err
}

func (s *BoltStore) Save(_ context.Context, token string) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return bucket.Put(tokenKey, []byte(token))
	})
}

func (s *BoltStore) Clear(context.Context) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(tokenKey)
	})
}
