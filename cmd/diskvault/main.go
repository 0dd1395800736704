// Command diskvault drives a diskvault instance from the shell: create a
// simulated disk, load a table schema, ingest rows from a delimited file,
// look up or free a row by primary key, and report occupancy status.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
