package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:                   "status",
	Short:                 "Report the disk's current occupancy",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		s := inst.Status()
		fmt.Printf("platters:        %d\n", s.Platters)
		fmt.Printf("surfaces/platter: %d\n", s.SurfacesPerPlatter)
		fmt.Printf("tracks/surface:  %d\n", s.TracksPerSurface)
		fmt.Printf("sectors/track:   %d\n", s.SectorsPerTrack)
		fmt.Printf("sector size:     %d bytes\n", s.SectorSize)
		fmt.Printf("total sectors:   %d\n", s.TotalSectors)
		fmt.Printf("used sectors:    %d\n", s.UsedSectors)
		fmt.Printf("free sectors:    %d\n", s.FreeSectors)
		fmt.Printf("total capacity:  %d bytes\n", s.TotalCapacity)
		fmt.Printf("used space:      %d bytes\n", s.UsedSpace)
		fmt.Printf("free space:      %d bytes\n", s.FreeSpace)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
