package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gymflow/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func TestMemoryStore(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestBoltStore(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		s, err := NewBoltStore(filepath.Join(t.TempDir(), "gymflow.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("GYMFLOW_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GYMFLOW_TEST_DATABASE_URL not set")
	}
	runContract(t, func(t *testing.T) Store {
		db, err := database.Initialize(url, "error")
		require.NoError(t, err)
		require.NoError(t, db.Exec("DELETE FROM documents").Error)
		s := NewPostgresStore(db)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func runContract(t *testing.T, newStore storeFactory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"CreateAssignsIDAndTimestamps", testCreateAssignsIDAndTimestamps},
		{"CreateKeepsSuppliedID", testCreateKeepsSuppliedID},
		{"CreateRejectsExistingID", testCreateRejectsExistingID},
		{"CrossTenantAccessIsNotFound", testCrossTenantAccessIsNotFound},
		{"RecordWithoutTenantIsShared", testRecordWithoutTenantIsShared},
		{"UpdatePreservesIdentity", testUpdatePreservesIdentity},
		{"UpdateMergesShallowly", testUpdateMergesShallowly},
		{"DeleteRemovesRecord", testDeleteRemovesRecord},
		{"QueryFiltersByTenantAndFields", testQueryFiltersByTenantAndFields},
		{"QueryOrdersByCreation", testQueryOrdersByCreation},
		{"UniquenessPreCheckIsNotAtomic", testUniquenessPreCheckIsNotAtomic},
		{"Health", testHealth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func testCreateAssignsIDAndTimestamps(t *testing.T, s Store) {
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		doc, err := s.Create(ctx, Members, Document{"name": "Jane", FieldTenantID: "t1"})
		require.NoError(t, err)
		require.NotEmpty(t, doc.ID())
		assert.False(t, seen[doc.ID()], "duplicate id %s", doc.ID())
		seen[doc.ID()] = true
		assert.NotEmpty(t, doc[FieldCreatedAt])
		assert.Equal(t, doc[FieldCreatedAt], doc[FieldUpdatedAt])
	}
}

func testCreateKeepsSuppliedID(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Tenants, Document{FieldID: "acme_1", "name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme_1", doc.ID())

	got, err := s.Read(ctx, Tenants, "acme_1", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got["name"])
}

func testCreateRejectsExistingID(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Members, Document{"name": "Jane", FieldTenantID: "t1"})
	require.NoError(t, err)

	got, err := s.Create(ctx, Members, Document{FieldID: doc.ID(), "name": "Mallory", FieldTenantID: "t2"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Nil(t, got)

	kept, err := s.Read(ctx, Members, doc.ID(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", kept["name"])
	assert.Equal(t, "t1", kept.TenantID())

	// Ids are only unique within a collection.
	_, err = s.Create(ctx, Plans, Document{FieldID: doc.ID(), "name": "Basic", FieldTenantID: "t1"})
	require.NoError(t, err)
}

func testCrossTenantAccessIsNotFound(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Members, Document{"name": "Jane", FieldTenantID: "t1"})
	require.NoError(t, err)

	got, err := s.Read(ctx, Members, doc.ID(), "t2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)

	got, err = s.Update(ctx, Members, doc.ID(), Document{"name": "Mallory"}, "t2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)

	_, err = s.Delete(ctx, Members, doc.ID(), "t2")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = s.Read(ctx, Members, doc.ID(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got["name"])

	_, err = s.Read(ctx, Members, "missing", "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testRecordWithoutTenantIsShared(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Users, Document{"email": "admin@gymflow.com"})
	require.NoError(t, err)
	_, hasTenant := doc[FieldTenantID]
	assert.False(t, hasTenant)

	got, err := s.Read(ctx, Users, doc.ID(), "any-tenant")
	require.NoError(t, err)
	assert.Equal(t, "admin@gymflow.com", got["email"])
}

func testUpdatePreservesIdentity(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Plans, Document{"name": "Basic", "price": 30, FieldTenantID: "t1"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	updated, err := s.Update(ctx, Plans, doc.ID(), Document{
		FieldID:        "hijacked",
		FieldTenantID:  "t2",
		FieldCreatedAt: "1999-01-01T00:00:00Z",
		"price":        45,
	}, "t1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID(), updated.ID())
	assert.Equal(t, "t1", updated.TenantID())
	assert.Equal(t, doc[FieldCreatedAt], updated[FieldCreatedAt])
	assert.NotEqual(t, doc[FieldUpdatedAt], updated[FieldUpdatedAt])
	assert.Equal(t, float64(45), updated["price"])

	got, err := s.Read(ctx, Plans, doc.ID(), "t1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = s.Read(ctx, Plans, "hijacked", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testUpdateMergesShallowly(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Trainers, Document{
		"name":     "Sam",
		"metadata": map[string]interface{}{"a": 1, "b": 2},
		"isActive": true,
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, Trainers, doc.ID(), Document{
		"metadata": map[string]interface{}{"c": 3},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated["name"])
	assert.Equal(t, true, updated["isActive"])
	assert.Equal(t, map[string]interface{}{"c": float64(3)}, updated["metadata"])
}

func testDeleteRemovesRecord(t *testing.T, s Store) {
	ctx := context.Background()
	doc, err := s.Create(ctx, Members, Document{"name": "Jane", FieldTenantID: "t1"})
	require.NoError(t, err)

	id, err := s.Delete(ctx, Members, doc.ID(), "t1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID(), id)

	_, err = s.Read(ctx, Members, doc.ID(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Delete(ctx, Members, doc.ID(), "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testQueryFiltersByTenantAndFields(t *testing.T, s Store) {
	ctx := context.Background()
	seed := []Document{
		{"name": "a", "status": "active", FieldTenantID: "x"},
		{"name": "b", "status": "inactive", FieldTenantID: "x"},
		{"name": "c", "status": "active", FieldTenantID: "y"},
		{"name": "d", "status": "active", "isActive": true, FieldTenantID: "x"},
	}
	for _, doc := range seed {
		_, err := s.Create(ctx, Members, doc)
		require.NoError(t, err)
	}

	active, err := s.Query(ctx, Members, Filter{"status": "active"}, "x")
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, doc := range active {
		assert.Equal(t, "x", doc.TenantID())
		assert.Equal(t, "active", doc["status"])
	}

	both, err := s.Query(ctx, Members, Filter{"status": "active", "isActive": true}, "x")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "d", both[0]["name"])

	all, err := s.Query(ctx, Members, nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := s.Query(ctx, Plans, nil, "x")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testQueryOrdersByCreation(t *testing.T, s Store) {
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Create(ctx, Plans, Document{"name": name, FieldTenantID: "x"})
		require.NoError(t, err)
	}
	docs, err := s.Query(ctx, Plans, nil, "x")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "first", docs[0]["name"])
	assert.Equal(t, "third", docs[2]["name"])
}

// The store offers no uniqueness guarantee. Two writers that both check
// before either creates end up with duplicate emails.
func testUniquenessPreCheckIsNotAtomic(t *testing.T, s Store) {
	ctx := context.Background()
	filter := Filter{"email": "dup@example.com"}

	first, err := s.Query(ctx, Members, filter, "x")
	require.NoError(t, err)
	second, err := s.Query(ctx, Members, filter, "x")
	require.NoError(t, err)
	require.Empty(t, first)
	require.Empty(t, second)

	for i := 0; i < 2; i++ {
		_, err := s.Create(ctx, Members, Document{"email": "dup@example.com", FieldTenantID: "x"})
		require.NoError(t, err)
	}

	docs, err := s.Query(ctx, Members, filter, "x")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func testHealth(t *testing.T, s Store) {
	ctx := context.Background()
	_, err := s.Create(ctx, Tenants, Document{"name": "Acme"})
	require.NoError(t, err)

	health, err := s.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 1, health.Collections[Tenants])
}

func TestStorageErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := storageError("read", Members, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().Create(ctx, Members, Document{"name": "x"})
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, context.Canceled)
}
