package main

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"diskvault/pkg/diskvault"
	"diskvault/pkg/options"
)

var (
	dataDir      string
	diskFileName string
	platters     int
	tracks       int
	sectors      int
	sectorSize   int
)

var rootCmd = &cobra.Command{
	Use:                   "diskvault",
	Short:                 "Simulated cylinder-head-sector disk with a fixed-width record store",
	Long:                  "diskvault lays fixed-width rows across a simulated CHS disk, chaining them across sectors when a row doesn't fit, and keeps an in-memory AVL index of primary keys pointing at where each row landed.",
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataDir, "data-dir", options.DefaultDataDir, "directory holding the backing file and sector map")
	flags.StringVar(&diskFileName, "disk-file", options.DefaultDiskFileName, "base filename for the backing file")
	flags.IntVar(&platters, "platters", options.DefaultPlatters, "number of platters")
	flags.IntVar(&tracks, "tracks", options.DefaultTracks, "tracks per surface")
	flags.IntVar(&sectors, "sectors", options.DefaultSectors, "sectors per track")
	flags.IntVar(&sectorSize, "sector-size", options.DefaultSectorSize, "bytes per sector, header included")
}

// openInstance opens (or creates) the disk described by the persistent
// geometry flags. Every subcommand that touches the disk goes through
// this so a mismatched --sector-size etc. against an existing disk
// surfaces the same way everywhere.
func openInstance(ctx context.Context) (*diskvault.Instance, error) {
	inst, err := diskvault.NewInstance(ctx, "diskvault-cli",
		options.WithDataDir(dataDir),
		options.WithDiskFileName(diskFileName),
		options.WithPlatters(platters),
		options.WithTracks(tracks),
		options.WithSectors(sectors),
		options.WithSectorSize(sectorSize),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open disk")
	}
	return inst, nil
}
