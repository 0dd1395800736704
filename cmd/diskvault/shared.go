package main

import (
	"os"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"diskvault/pkg/diskvault"
)

// loadSchemaFile reads a CREATE TABLE statement from path and loads it
// into inst. Every subcommand that needs a schema loads it fresh this
// way, since a CLI invocation never outlives the process that made it.
func loadSchemaFile(inst *diskvault.Instance, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.Wrap(err, "read schema file")
	}
	if _, err := inst.LoadSchemaSQL(string(raw)); err != nil {
		return pkgerrors.Wrap(err, "load schema")
	}
	return nil
}

// parseKey tries to interpret raw as an integer primary key, falling back
// to treating it as a string primary key. The Coordinator rejects it with
// a type mismatch if the table's actual key kind disagrees.
func parseKey(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
