package main

import (
	"github.com/spf13/cobra"
)

var loadSchemaFlagFile string

var loadSchemaCmd = &cobra.Command{
	Use:                   "load-schema",
	Short:                 "Parse and validate a CREATE TABLE statement against this disk",
	Long:                  "load-schema parses the CREATE TABLE statement at --schema, loads it, and logs whether it was accepted, without writing any rows; it does not print the field layout or record size. Every other subcommand that touches rows loads the same file itself.",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		if err := loadSchemaFile(inst, loadSchemaFlagFile); err != nil {
			return err
		}

		log.Info().Str("schemaFile", loadSchemaFlagFile).Msg("schema accepted")
		return nil
	},
}

func init() {
	loadSchemaCmd.Flags().StringVar(&loadSchemaFlagFile, "schema", "", "path to a CREATE TABLE statement")
	loadSchemaCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(loadSchemaCmd)
}
