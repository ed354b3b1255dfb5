package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

type boltEntry struct {
	Seq uint64   `json:"seq"`
	Doc Document `json:"doc"`
}

// BoltStore keeps one bucket per collection with JSON values keyed by id.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, c := range Collections {
			if _, err := tx.CreateBucketIfNotExists([]byte(c)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

func (s *BoltStore) Create(ctx context.Context, c Collection, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("create", c, err)
	}
	record, err := prepareCreate(doc, s.now())
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(c))
		if err != nil {
			return err
		}
		existing, err := getEntry(b, record.ID())
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyExists
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return putEntry(b, boltEntry{Seq: seq, Doc: record})
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, err
		}
		return nil, storageError("create", c, err)
	}
	return record, nil
}

func (s *BoltStore) Read(ctx context.Context, c Collection, id, tenantID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("read", c, err)
	}
	var entry *boltEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		entry, err = getEntry(tx.Bucket([]byte(c)), id)
		return err
	})
	if err != nil {
		return nil, storageError("read", c, err)
	}
	if entry == nil || !visible(entry.Doc, tenantID) {
		return nil, ErrNotFound
	}
	return entry.Doc, nil
}

func (s *BoltStore) Update(ctx context.Context, c Collection, id string, patch Document, tenantID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("update", c, err)
	}
	var updated Document
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(c))
		entry, err := getEntry(b, id)
		if err != nil {
			return err
		}
		if entry == nil || !visible(entry.Doc, tenantID) {
			return ErrNotFound
		}
		updated, err = merge(entry.Doc, patch, s.now())
		if err != nil {
			return err
		}
		return putEntry(b, boltEntry{Seq: entry.Seq, Doc: updated})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRecord) {
			return nil, err
		}
		return nil, storageError("update", c, err)
	}
	return updated, nil
}

func (s *BoltStore) Delete(ctx context.Context, c Collection, id, tenantID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storageError("delete", c, err)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(c))
		entry, err := getEntry(b, id)
		if err != nil {
			return err
		}
		if entry == nil || !visible(entry.Doc, tenantID) {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", storageError("delete", c, err)
	}
	return id, nil
}

func (s *BoltStore) Query(ctx context.Context, c Collection, filter Filter, tenantID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("query", c, err)
	}
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	var entries []boltEntry
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(c))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var entry boltEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			if visible(entry.Doc, tenantID) && matches(entry.Doc, normalized) {
				entries = append(entries, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, storageError("query", c, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := createdAt(entries[i].Doc), createdAt(entries[j].Doc)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return entries[i].Seq < entries[j].Seq
	})
	result := make([]Document, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.Doc)
	}
	return result, nil
}

func (s *BoltStore) Health(ctx context.Context) (Health, error) {
	counts := make(map[Collection]int, len(Collections))
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, c := range Collections {
			if b := tx.Bucket([]byte(c)); b != nil {
				counts[c] = b.Stats().KeyN
			}
		}
		return nil
	})
	if err != nil {
		return Health{Driver: DriverBolt, Status: "unhealthy"}, storageError("health", "", err)
	}
	return Health{Driver: DriverBolt, Status: "healthy", Collections: counts}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func getEntry(b *bolt.Bucket, id string) (*boltEntry, error) {
	if b == nil {
		return nil, nil
	}
	v := b.Get([]byte(id))
	if v == nil {
		return nil, nil
	}
	var entry boltEntry
	if err := json.Unmarshal(v, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func putEntry(b *bolt.Bucket, entry boltEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return b.Put([]byte(entry.Doc.ID()), raw)
}
