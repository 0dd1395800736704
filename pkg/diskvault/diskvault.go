// Package diskvault is the top-level entry point for embedding a
// diskvault instance in another Go program. It wires together the
// simulated disk, the primary-key index, and the ingest/lookup
// coordinator behind a small facade.
package diskvault

import (
	"context"
	"io"

	"diskvault/internal/disk"
	"diskvault/internal/engine"
	"diskvault/pkg/ddl"
	"diskvault/pkg/logger"
	"diskvault/pkg/options"
	"diskvault/pkg/rowsrc"
	"diskvault/pkg/schema"
)

// Instance represents a single diskvault database: one simulated disk,
// holding at most one loaded table at a time.
type Instance struct {
	engine  *engine.Coordinator
	options *options.Options
}

// NewInstance creates and initializes a new diskvault Instance, creating
// the backing disk file if it does not already exist.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// LoadSchemaSQL parses a CREATE TABLE statement and loads the resulting
// schema into the instance.
func (i *Instance) LoadSchemaSQL(sql string) (*schema.Schema, error) {
	sch, err := ddl.Parse(sql)
	if err != nil {
		return nil, err
	}
	if err := i.engine.LoadSchema(sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// IngestFile loads every row from a delimited row source and ingests them
// against the currently loaded schema.
func (i *Instance) IngestFile(ctx context.Context, r io.Reader) (*engine.IngestReport, error) {
	rows, err := rowsrc.Load(r)
	if err != nil {
		return nil, err
	}
	return i.engine.IngestRows(ctx, rows)
}

// IngestRows ingests an already-parsed set of raw string rows against the
// currently loaded schema.
func (i *Instance) IngestRows(ctx context.Context, rows []map[string]string) (*engine.IngestReport, error) {
	return i.engine.IngestRows(ctx, rows)
}

// Lookup retrieves the row identified by key.
func (i *Instance) Lookup(key any) (map[string]any, error) {
	return i.engine.Lookup(key)
}

// Free reclaims the row identified by key.
func (i *Instance) Free(key any) error {
	return i.engine.Free(key)
}

// Status reports the underlying disk's current occupancy.
func (i *Instance) Status() disk.Status {
	return i.engine.Status()
}

// Close gracefully shuts down the instance, releasing all associated
// resources.
func (i *Instance) Close() error {
	return i.engine.Close()
}
