package main

import (
	"github.com/spf13/cobra"
)

var (
	freeFlagSchema string
	freeFlagKey    string
)

var freeCmd = &cobra.Command{
	Use:                   "free",
	Short:                 "Reclaim a row's sectors and remove it from the index",
	Long:                  "free parses --schema, searches for --key, zeroes the fragment chain it points at, and evicts the key from the index.",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		if err := loadSchemaFile(inst, freeFlagSchema); err != nil {
			return err
		}

		if err := inst.Free(parseKey(freeFlagKey)); err != nil {
			return err
		}

		log.Info().Str("key", freeFlagKey).Msg("row freed")
		return nil
	},
}

func init() {
	freeCmd.Flags().StringVar(&freeFlagSchema, "schema", "", "path to a CREATE TABLE statement")
	freeCmd.Flags().StringVar(&freeFlagKey, "key", "", "primary key value")
	freeCmd.MarkFlagRequired("schema")
	freeCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(freeCmd)
}
