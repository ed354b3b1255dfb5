package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gymflow/internal/store"
)

// ErrTenantRequired is returned when a tenant-scoped record has no tenant id.
var ErrTenantRequired = errors.New("tenant id is required")

// collection maps typed entities onto store documents.
type collection[T any] struct {
	store  store.Store
	name   store.Collection
	scoped bool
}

func newCollection[T any](s store.Store, name store.Collection, scoped bool) *collection[T] {
	return &collection[T]{store: s, name: name, scoped: scoped}
}

func (c *collection[T]) create(ctx context.Context, entity *T) (*T, error) {
	doc, err := encode(entity)
	if err != nil {
		return nil, err
	}
	if c.scoped && doc.TenantID() == "" {
		return nil, ErrTenantRequired
	}
	saved, err := c.store.Create(ctx, c.name, doc)
	if err != nil {
		return nil, err
	}
	return decode[T](saved)
}

func (c *collection[T]) get(ctx context.Context, id, tenantID string) (*T, error) {
	doc, err := c.store.Read(ctx, c.name, id, tenantID)
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

func (c *collection[T]) update(ctx context.Context, id string, patch store.Document, tenantID string) (*T, error) {
	doc, err := c.store.Update(ctx, c.name, id, patch, tenantID)
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

func (c *collection[T]) delete(ctx context.Context, id, tenantID string) error {
	_, err := c.store.Delete(ctx, c.name, id, tenantID)
	return err
}

func (c *collection[T]) find(ctx context.Context, filter store.Filter, tenantID string) ([]T, error) {
	docs, err := c.store.Query(ctx, c.name, filter, tenantID)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		result = append(result, *entity)
	}
	return result, nil
}

func (c *collection[T]) first(ctx context.Context, filter store.Filter, tenantID string) (*T, error) {
	found, err := c.find(ctx, filter, tenantID)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

func encode(entity interface{}) (store.Document, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidRecord, err)
	}
	doc := store.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidRecord, err)
	}
	return doc, nil
}

func decode[T any](doc store.Document) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidRecord, err)
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidRecord, err)
	}
	return &entity, nil
}
