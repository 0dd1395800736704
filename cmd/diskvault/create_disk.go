package main

import (
	"github.com/spf13/cobra"
)

var createDiskCmd = &cobra.Command{
	Use:                   "create-disk",
	Short:                 "Create the backing file and sector map for a new disk",
	Long:                  "create-disk brings up the backing file and occupancy sidecar for the geometry described by the persistent flags, creating them if this data directory has never been used before.",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		status := inst.Status()
		log.Info().
			Int("totalSectors", status.TotalSectors).
			Int("totalCapacity", status.TotalCapacity).
			Int("sectorSize", status.SectorSize).
			Msg("disk ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createDiskCmd)
}
