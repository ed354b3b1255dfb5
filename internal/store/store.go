package store

import (
	"context"
	"errors"
	"fmt"
)

type Collection string

const (
	Tenants  Collection = "tenants"
	Users    Collection = "users"
	Members  Collection = "members"
	Plans    Collection = "plans"
	Trainers Collection = "trainers"
)

// Collections lists every collection the application persists.
var Collections = []Collection{Tenants, Users, Members, Plans, Trainers}

// Reserved document fields managed by the store.
const (
	FieldID        = "id"
	FieldTenantID  = "tenantId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrStorage       = errors.New("storage error")
	ErrInvalidRecord = errors.New("invalid record")
	ErrAlreadyExists = errors.New("record already exists")
)

// Error reports a backend failure. It matches ErrStorage and the cause with errors.Is.
type Error struct {
	Op         string
	Collection Collection
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

func storageError(op string, c Collection, err error) error {
	return &Error{Op: op, Collection: c, Err: err}
}

// Document is the persisted representation of a record.
type Document map[string]interface{}

// Filter holds exact-equality conditions combined with AND.
type Filter map[string]interface{}

func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

func (d Document) TenantID() string {
	tenantID, _ := d[FieldTenantID].(string)
	return tenantID
}

type Health struct {
	Driver      string             `json:"driver"`
	Status      string             `json:"status"`
	Collections map[Collection]int `json:"collections,omitempty"`
}

// Store is tenant-scoped persistence over named collections.
//
// Read, Update and Delete only see a record when tenantID is empty, the
// record carries no tenant id, or the two are equal. Anything else is
// reported as ErrNotFound.
type Store interface {
	Create(ctx context.Context, c Collection, doc Document) (Document, error)
	Read(ctx context.Context, c Collection, id, tenantID string) (Document, error)
	Update(ctx context.Context, c Collection, id string, patch Document, tenantID string) (Document, error)
	Delete(ctx context.Context, c Collection, id, tenantID string) (string, error)
	// Query returns matching records ordered by creation time.
	Query(ctx context.Context, c Collection, filter Filter, tenantID string) ([]Document, error)
	Health(ctx context.Context) (Health, error)
	Close() error
}
