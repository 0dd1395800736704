// Package engine provides the Coordinator: the component that ties disk
// geometry, sector allocation, the fixed-width codec, and the primary-key
// index together into a single ingest/lookup/free surface.
//
// The Coordinator owns exactly one loaded table schema at a time. A
// coarse mutex serializes every ingest, lookup, and free against it,
// following the "no concurrent writers" constraint a teaching-grade
// simulator can afford to assume: the interesting engineering here is in
// how a record gets laid out across sectors, not in how many goroutines
// can hammer the disk at once.
package engine

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sync"
	"sync/atomic"

	"diskvault/internal/codec"
	"diskvault/internal/disk"
	"diskvault/internal/index"
	"diskvault/internal/sectormgr"
	"diskvault/pkg/errors"
	"diskvault/pkg/options"
	"diskvault/pkg/schema"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a closed Coordinator.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// ErrSchemaAlreadyLoaded is returned by LoadSchema when a table schema has
// already been loaded; this engine holds exactly one table at a time.
var ErrSchemaAlreadyLoaded = stdErrors.New("operation failed: a schema is already loaded")

// ErrNoSchemaLoaded is returned by operations that require a loaded schema
// before LoadSchema has been called.
var ErrNoSchemaLoaded = stdErrors.New("operation failed: no schema loaded yet")

// Coordinator is the central entry point for all table operations: it
// validates and serializes rows, places them on the simulated disk, and
// keeps the primary-key index in sync with what actually landed there.
type Coordinator struct {
	mu      sync.Mutex
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool

	disk    *disk.Disk
	sectors *sectormgr.Manager
	idx     *index.Index

	schema       *schema.Schema
	pkIsString   bool
	schemaLoaded bool
}

// Config holds all the parameters needed to initialize a new Coordinator.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Coordinator, bringing up the index,
// the disk, and the sector manager in that order.
func New(ctx context.Context, config *Config) (*Coordinator, error) {
	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	d, err := disk.New(ctx, &disk.Config{Options: config.Options, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	sectors, err := sectormgr.New(&sectormgr.Config{Disk: d, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		options: config.Options,
		log:     config.Logger,
		disk:    d,
		sectors: sectors,
		idx:     idx,
	}, nil
}

// LoadSchema installs the table schema that IngestRows, Lookup, and Free
// will operate against. It may only be called once per Coordinator.
func (c *Coordinator) LoadSchema(sch *schema.Schema) error {
	if c.closed.Load() {
		return ErrEngineClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.schemaLoaded {
		return ErrSchemaAlreadyLoaded
	}

	pkIsString, err := sch.PrimaryKeyIsString()
	if err != nil {
		return err
	}

	c.schema = sch
	c.pkIsString = pkIsString
	c.schemaLoaded = true

	c.log.Infow("Schema loaded", "table", sch.TableName, "primaryKey", sch.PrimaryKey, "fields", len(sch.Fields))
	return nil
}

// IngestReport tallies the outcome of an IngestRows call.
type IngestReport struct {
	Accepted int
	Rejected int
	Errors   error
}

// IngestRows validates, serializes, and writes each row in turn, indexing
// every row that makes it to disk. A row that fails validation or codec
// conversion is skipped and its error recorded in the report rather than
// aborting the whole batch; context cancellation is checked between rows,
// never in the middle of writing one.
func (c *Coordinator) IngestRows(ctx context.Context, rows []map[string]string) (*IngestReport, error) {
	if c.closed.Load() {
		return nil, ErrEngineClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.schemaLoaded {
		return nil, ErrNoSchemaLoaded
	}

	report := &IngestReport{}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := c.ingestRow(row); err != nil {
			report.Rejected++
			report.Errors = multierr.Append(report.Errors, rowError(i, err))
			continue
		}
		report.Accepted++
	}

	return report, nil
}

func (c *Coordinator) ingestRow(row map[string]string) error {
	values, err := validateRow(row, c.schema)
	if err != nil {
		return err
	}

	data, err := codec.Serialize(values, c.schema)
	if err != nil {
		return err
	}

	sector, offset, err := c.sectors.WriteRecord(data)
	if err != nil {
		return err
	}

	key, err := c.primaryKeyOf(values)
	if err != nil {
		return err
	}

	return c.idx.Insert(key, sector, offset)
}

func (c *Coordinator) primaryKeyOf(values map[string]any) (index.Key, error) {
	raw, ok := values[c.schema.PrimaryKey]
	if !ok || raw == nil {
		return index.Key{}, errors.NewNullViolationError(c.schema.PrimaryKey, "primary key")
	}

	if c.pkIsString {
		s, ok := raw.(string)
		if !ok {
			return index.Key{}, errors.NewTypeMismatchError(c.schema.PrimaryKey, "primary key", "")
		}
		return index.StringKey(s), nil
	}

	n, ok := raw.(int64)
	if !ok {
		return index.Key{}, errors.NewTypeMismatchError(c.schema.PrimaryKey, "primary key", "")
	}
	return index.IntKey(n), nil
}

// Lookup finds the row identified by key and returns its deserialized
// field values.
func (c *Coordinator) Lookup(key any) (map[string]any, error) {
	if c.closed.Load() {
		return nil, ErrEngineClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.schemaLoaded {
		return nil, ErrNoSchemaLoaded
	}

	idxKey, err := c.toIndexKey(key)
	if err != nil {
		return nil, err
	}

	sector, offset, found := c.idx.Search(idxKey)
	if !found {
		return nil, errors.NewKeyNotFoundError(idxKey.String(), "Lookup")
	}

	data, err := c.sectors.ReadRecord(sector, offset)
	if err != nil {
		return nil, err
	}

	return codec.Deserialize(data, c.schema)
}

// Free removes the row identified by key, reclaiming its sectors and
// evicting it from the index.
func (c *Coordinator) Free(key any) error {
	if c.closed.Load() {
		return ErrEngineClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.schemaLoaded {
		return ErrNoSchemaLoaded
	}

	idxKey, err := c.toIndexKey(key)
	if err != nil {
		return err
	}

	sector, offset, found := c.idx.Search(idxKey)
	if !found {
		return errors.NewKeyNotFoundError(idxKey.String(), "Free")
	}

	if err := c.sectors.Free(sector, offset); err != nil {
		return err
	}

	c.idx.Delete(idxKey)
	return nil
}

func (c *Coordinator) toIndexKey(key any) (index.Key, error) {
	if c.pkIsString {
		s, ok := key.(string)
		if !ok {
			return index.Key{}, errors.NewTypeMismatchError(c.schema.PrimaryKey, "primary key", "")
		}
		return index.StringKey(s), nil
	}

	switch v := key.(type) {
	case int64:
		return index.IntKey(v), nil
	case int:
		return index.IntKey(int64(v)), nil
	default:
		return index.Key{}, errors.NewTypeMismatchError(c.schema.PrimaryKey, "primary key", "")
	}
}

// Status returns a snapshot of the underlying disk's current occupancy.
func (c *Coordinator) Status() disk.Status {
	return c.disk.Status()
}

// Close gracefully shuts down the Coordinator, closing the index and disk.
func (c *Coordinator) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	if err := c.idx.Close(); err != nil {
		c.log.Warnw("Failed to close index cleanly", "error", err)
	}
	return c.disk.Close()
}

func rowError(rowIndex int, err error) error {
	return fmt.Errorf("row %d: %w", rowIndex, err)
}
