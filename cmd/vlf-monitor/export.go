package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/export"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/monitor"
)

var flagExportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the aligned signal and flux timeline to Parquet",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOutput, "output", "vlf_timeline.parquet", "output Parquet file")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, w, err := setup("VLF Export")
	if err != nil {
		return err
	}

	ds, err := monitor.Collect(cmd.Context(), cfg, w, newSources(cfg), time.Now())
	if err != nil {
		return err
	}

	rows, err := ds.Rows(cfg.MatchTolerance)
	if err != nil {
		return fmt.Errorf("align: %w", err)
	}

	records := export.Records(ds.Pair.Receiver, ds.Pair.Transmitter, rows)
	log.Printf("Writing %d rows to %s...", len(records), flagExportOutput)
	if err := export.WriteFile(flagExportOutput, records); err != nil {
		return err
	}

	// Read back to confirm the file is complete.
	check, err := export.ReadFile(flagExportOutput)
	if err != nil {
		return fmt.Errorf("verify %s: %w", flagExportOutput, err)
	}
	if err := export.Compare(records, check); err != nil {
		return fmt.Errorf("verify %s: %w", flagExportOutput, err)
	}

	ds.Stats.LogSummary("Export Complete")
	log.Printf("Output: %s (%d rows)", flagExportOutput, len(check))
	return nil
}
