package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	seq uint64
	doc Document
}

type MemoryStore struct {
	mu          sync.RWMutex
	collections map[Collection]map[string]memoryEntry
	seq         uint64
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[Collection]map[string]memoryEntry),
		now:         time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, c Collection, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("create", c, err)
	}
	record, err := prepareCreate(doc, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.collections[c]
	if !ok {
		records = make(map[string]memoryEntry)
		s.collections[c] = records
	}
	if _, exists := records[record.ID()]; exists {
		return nil, ErrAlreadyExists
	}
	s.seq++
	records[record.ID()] = memoryEntry{seq: s.seq, doc: record}
	return copyDocument(record), nil
}

func (s *MemoryStore) Read(ctx context.Context, c Collection, id, tenantID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("read", c, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.collections[c][id]
	if !ok || !visible(entry.doc, tenantID) {
		return nil, ErrNotFound
	}
	return copyDocument(entry.doc), nil
}

func (s *MemoryStore) Update(ctx context.Context, c Collection, id string, patch Document, tenantID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("update", c, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.collections[c][id]
	if !ok || !visible(entry.doc, tenantID) {
		return nil, ErrNotFound
	}
	updated, err := merge(entry.doc, patch, s.now())
	if err != nil {
		return nil, err
	}
	s.collections[c][id] = memoryEntry{seq: entry.seq, doc: updated}
	return copyDocument(updated), nil
}

func (s *MemoryStore) Delete(ctx context.Context, c Collection, id, tenantID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storageError("delete", c, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.collections[c][id]
	if !ok || !visible(entry.doc, tenantID) {
		return "", ErrNotFound
	}
	delete(s.collections[c], id)
	return id, nil
}

func (s *MemoryStore) Query(ctx context.Context, c Collection, filter Filter, tenantID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("query", c, err)
	}
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var entries []memoryEntry
	for _, entry := range s.collections[c] {
		if visible(entry.doc, tenantID) && matches(entry.doc, normalized) {
			entries = append(entries, entry)
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := createdAt(entries[i].doc), createdAt(entries[j].doc)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return entries[i].seq < entries[j].seq
	})
	result := make([]Document, 0, len(entries))
	for _, entry := range entries {
		result = append(result, copyDocument(entry.doc))
	}
	return result, nil
}

func (s *MemoryStore) Health(ctx context.Context) (Health, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Collection]int, len(Collections))
	for _, c := range Collections {
		counts[c] = len(s.collections[c])
	}
	return Health{Driver: DriverMemory, Status: "healthy", Collections: counts}, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// copyDocument copies the top level. Stored documents are never mutated in
// place, so nested values can be shared.
func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
