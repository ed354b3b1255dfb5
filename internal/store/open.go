package store

import (
	"fmt"

	"gymflow/internal/database"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

type Options struct {
	Driver      string
	DatabaseURL string
	BoltPath    string
	LogLevel    string
}

// Open builds the backend named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverBolt:
		return NewBoltStore(opts.BoltPath)
	case DriverPostgres:
		db, err := database.Initialize(opts.DatabaseURL, opts.LogLevel)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
