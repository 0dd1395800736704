package main

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"diskvault/pkg/rowsrc"
)

var (
	ingestFlagSchema string
	ingestFlagInput  string
)

var ingestCmd = &cobra.Command{
	Use:                   "ingest",
	Short:                 "Load a delimited file and ingest every row into the disk",
	Long:                  "ingest parses --schema, reads every row out of --input, and writes each one to the disk in turn, reporting accepted and rejected counts as it goes. A row that fails validation is logged and skipped rather than aborting the batch.",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		if err := loadSchemaFile(inst, ingestFlagSchema); err != nil {
			return err
		}

		f, err := os.Open(ingestFlagInput)
		if err != nil {
			return pkgerrors.Wrap(err, "open input file")
		}
		defer f.Close()

		rows, err := rowsrc.Load(f)
		if err != nil {
			return pkgerrors.Wrap(err, "parse input file")
		}

		var accepted, rejected int
		for i, row := range rows {
			report, err := inst.IngestRows(ctx, []map[string]string{row})
			if err != nil {
				return pkgerrors.Wrap(err, "ingest")
			}
			accepted += report.Accepted
			rejected += report.Rejected
			if report.Errors != nil {
				log.Warn().Int("row", i).Err(report.Errors).Msg("row rejected")
			} else {
				log.Debug().Int("row", i).Msg("row accepted")
			}
		}

		log.Info().Int("accepted", accepted).Int("rejected", rejected).Int("total", len(rows)).Msg("ingest complete")
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFlagSchema, "schema", "", "path to a CREATE TABLE statement")
	ingestCmd.Flags().StringVar(&ingestFlagInput, "input", "", "path to a delimited row file")
	ingestCmd.MarkFlagRequired("schema")
	ingestCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(ingestCmd)
}
