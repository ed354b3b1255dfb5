package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// normalize round-trips v through JSON so every backend compares the same
// representation (numbers as float64, times as RFC 3339 strings).
func normalize(doc Document) (Document, error) {
	if doc == nil {
		return Document{}, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	out := Document{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return out, nil
}

func normalizeFilter(filter Filter) (Filter, error) {
	doc, err := normalize(Document(filter))
	if err != nil {
		return nil, err
	}
	return Filter(doc), nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// prepareCreate returns a normalized copy of doc with id and timestamps set.
func prepareCreate(doc Document, now time.Time) (Document, error) {
	out, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if out.ID() == "" {
		out[FieldID] = uuid.NewString()
	}
	if tenantID, ok := out[FieldTenantID]; ok && (tenantID == nil || tenantID == "") {
		delete(out, FieldTenantID)
	}
	ts := timestamp(now)
	out[FieldCreatedAt] = ts
	out[FieldUpdatedAt] = ts
	return out, nil
}

// merge applies patch shallowly over existing. Identity fields never change.
func merge(existing, patch Document, now time.Time) (Document, error) {
	cleaned, err := normalize(patch)
	if err != nil {
		return nil, err
	}
	out := make(Document, len(existing)+len(cleaned))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range cleaned {
		switch k {
		case FieldID, FieldTenantID, FieldCreatedAt:
			continue
		}
		out[k] = v
	}
	out[FieldUpdatedAt] = timestamp(now)
	return out, nil
}

func visible(doc Document, tenantID string) bool {
	if tenantID == "" {
		return true
	}
	owner := doc.TenantID()
	return owner == "" || owner == tenantID
}

func matches(doc Document, filter Filter) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func createdAt(doc Document) time.Time {
	s, _ := doc[FieldCreatedAt].(string)
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
