package store

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type instrumentedStore struct {
	next Store
	ops  *prometheus.CounterVec
}

// Instrument counts every operation on ops, labelled op, collection and result.
func Instrument(next Store, ops *prometheus.CounterVec) Store {
	return &instrumentedStore{next: next, ops: ops}
}

func (s *instrumentedStore) observe(op string, c Collection, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrAlreadyExists):
		result = "conflict"
	default:
		result = "error"
	}
	s.ops.WithLabelValues(op, string(c), result).Inc()
}

func (s *instrumentedStore) Create(ctx context.Context, c Collection, doc Document) (Document, error) {
	out, err := s.next.Create(ctx, c, doc)
	s.observe("create", c, err)
	return out, err
}

func (s *instrumentedStore) Read(ctx context.Context, c Collection, id, tenantID string) (Document, error) {
	out, err := s.next.Read(ctx, c, id, tenantID)
	s.observe("read", c, err)
	return out, err
}

func (s *instrumentedStore) Update(ctx context.Context, c Collection, id string, patch Document, tenantID string) (Document, error) {
	out, err := s.next.Update(ctx, c, id, patch, tenantID)
	s.observe("update", c, err)
	return out, err
}

func (s *instrumentedStore) Delete(ctx context.Context, c Collection, id, tenantID string) (string, error) {
	out, err := s.next.Delete(ctx, c, id, tenantID)
	s.observe("delete", c, err)
	return out, err
}

func (s *instrumentedStore) Query(ctx context.Context, c Collection, filter Filter, tenantID string) ([]Document, error) {
	out, err := s.next.Query(ctx, c, filter, tenantID)
	s.observe("query", c, err)
	return out, err
}

func (s *instrumentedStore) Health(ctx context.Context) (Health, error) {
	return s.next.Health(ctx)
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
