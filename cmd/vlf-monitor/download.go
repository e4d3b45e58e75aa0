package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/monitor"
)

var (
	flagDest  string
	flagForce bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Mirror the raw VLF day files and GOES data into a gzip archive",
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&flagDest, "dest", "", "archive directory (default $XDG_DATA_HOME/vlf-monitor/raw)")
	downloadCmd.Flags().BoolVar(&flagForce, "force", false, "re-download files already in the archive")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, w, err := setup("VLF Download")
	if err != nil {
		return err
	}
	dest := cfg.ArchiveDir()
	if flagDest != "" {
		dest = flagDest
	}
	log.Printf("Archive:     %s", dest)

	urls, err := monitor.ArchiveURLs(cfg, w, time.Now())
	if err != nil {
		return err
	}

	client := fetch.NewClient(cfg.HTTPTimeout).SetDebug(cfg.Debug())
	stats, err := fetch.Mirror(cmd.Context(), client, fetch.NewArchive(dest), urls, flagForce)
	if err != nil {
		return err
	}

	stats.LogSummary("Download Complete")
	return nil
}
