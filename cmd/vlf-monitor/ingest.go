package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/monitor"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/store"
)

var (
	flagCHHost string
	flagCHDB   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load VLF readings, GOES flux and flares into ClickHouse",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&flagCHHost, "ch-host", "", "ClickHouse address (default 127.0.0.1:9000)")
	ingestCmd.Flags().StringVar(&flagCHDB, "ch-db", "", "ClickHouse database (default vlf)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, w, err := setup("VLF Ingest")
	if err != nil {
		return err
	}
	if flagCHHost != "" {
		cfg.ClickHouseHost = flagCHHost
	}
	if flagCHDB != "" {
		cfg.ClickHouseDatabase = flagCHDB
	}
	opts := store.Options{
		Host:     cfg.ClickHouseHost,
		Database: cfg.ClickHouseDatabase,
		User:     cfg.ClickHouseUser,
		Password: cfg.ClickHousePassword,
	}

	ctx := cmd.Context()

	log.Printf("Connecting to ClickHouse at %s...", opts.Host)
	ddl, err := store.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer ddl.Close()

	if err := store.EnsureSchema(ctx, ddl, opts.Database); err != nil {
		return err
	}

	ds, err := monitor.Collect(ctx, cfg, w, newSources(cfg), time.Now())
	if err != nil {
		return err
	}

	writer, conn, err := store.Dial(ctx, opts)
	if err != nil {
		return err
	}
	defer conn.Close()

	signalRows, err := writer.InsertSignal(ctx, ds.Pair, ds.Readings, ds.Signal)
	if err != nil {
		return fmt.Errorf("signal insert: %w", err)
	}
	fluxRows, err := writer.InsertFlux(ctx, ds.Flux)
	if err != nil {
		return fmt.Errorf("flux insert: %w", err)
	}
	flareRows, err := store.InsertFlares(ctx, ddl, opts.Database, ds.Flares)
	if err != nil {
		return fmt.Errorf("flare insert: %w", err)
	}

	ds.Stats.LogSummary("Ingest Complete")
	log.Printf("Signal rows: %d", signalRows)
	log.Printf("Flux rows:   %d", fluxRows)
	log.Printf("Flare rows:  %d", flareRows)
	return nil
}
