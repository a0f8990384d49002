package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/enrich-cli/internal/export"
	"github.com/sells-group/enrich-cli/internal/ingest"
	"github.com/sells-group/enrich-cli/internal/model"
)

var (
	exportFile string
	exportAll  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export successfully enriched leads to Salesforce",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, err := ingest.LoadFile(exportFile)
		if err != nil {
			return err
		}

		// The CLI has no review screen, so --all stands in for the user
		// ticking every successful row.
		if exportAll {
			for _, rec := range records {
				if rec.EnrichmentStatus == model.StatusSuccess {
					rec.Selected = true
				}
			}
		}

		sf, err := initSalesforce()
		if err != nil {
			return err
		}

		res, err := export.NewExporter(sf).Export(ctx, records)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Exported %d leads, %d failed\n", res.Exported, res.Failed)
		for _, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "  error: %s\n", msg)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "enriched spreadsheet to export")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "select every Success record for export")
	exportCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(exportCmd)
}
