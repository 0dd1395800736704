package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	lookupFlagSchema string
	lookupFlagKey    string
)

var lookupCmd = &cobra.Command{
	Use:                   "lookup",
	Short:                 "Look up a row by primary key",
	Long:                  "lookup parses --schema, searches the primary-key index for --key, and prints the deserialized row if found.",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		if err := loadSchemaFile(inst, lookupFlagSchema); err != nil {
			return err
		}

		row, err := inst.Lookup(parseKey(lookupFlagKey))
		if err != nil {
			return err
		}

		names := make([]string, 0, len(row))
		for name := range row {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s: %v\n", name, row[name])
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFlagSchema, "schema", "", "path to a CREATE TABLE statement")
	lookupCmd.Flags().StringVar(&lookupFlagKey, "key", "", "primary key value")
	lookupCmd.MarkFlagRequired("schema")
	lookupCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(lookupCmd)
}
