package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/common"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/monitor"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/timeline"
)

const dateLayout = "2006-01-02"

// defaultLag is how many days behind today the default date sits.
const defaultLag = 2

var (
	flagConfig      string
	flagReceiver    string
	flagTransmitter string
	flagDate        string
	flagDays        int
	flagSourceDir   string
)

var rootCmd = &cobra.Command{
	Use:          "vlf-monitor",
	Short:        "SuperSID VLF signal and GOES X-ray monitor",
	Long:         "vlf-monitor plots SuperSID VLF signal strength against GOES X-ray flux, flare onsets and sunrise/sunset markers.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config file (default $XDG_CONFIG_HOME/vlf-monitor/config.yaml)")
	pf.StringVar(&flagReceiver, "receiver", "", "receiver station (default dunsink)")
	pf.StringVar(&flagTransmitter, "transmitter", "", "transmitter station (default dho38)")
	pf.StringVar(&flagDate, "date", "", "first UTC day, YYYY-MM-DD (default today minus 2 days)")
	pf.IntVar(&flagDays, "days", 1, "number of days to fetch")
	pf.StringVar(&flagSourceDir, "source-dir", "", "replay a local archive written by download instead of HTTP")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(stationsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vlf-monitor %s\n", Version)
	},
}

// parseDate reads a YYYY-MM-DD day, or returns now minus defaultLag days
// when value is empty.
func parseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		d := now.UTC().AddDate(0, 0, -defaultLag)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

// loadConfig applies the station flags over the loaded configuration.
func loadConfig() (*common.Config, error) {
	cfg, err := common.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagReceiver != "" {
		cfg.Receiver = flagReceiver
	}
	if flagTransmitter != "" {
		cfg.Transmitter = flagTransmitter
	}
	return cfg, nil
}

func requestedWindow(now time.Time) (timeline.Window, error) {
	start, err := parseDate(flagDate, now)
	if err != nil {
		return timeline.Window{}, err
	}
	return timeline.NewWindow(start, flagDays)
}

// newSources returns the HTTP client, or the archive at --source-dir.
func newSources(cfg *common.Config) monitor.Sources {
	if flagSourceDir != "" {
		log.Printf("Replaying archive: %s", flagSourceDir)
		return monitor.Sources{Data: fetch.NewArchiveSource(flagSourceDir), Replay: true}
	}
	return monitor.Sources{Data: fetch.NewClient(cfg.HTTPTimeout).SetDebug(cfg.Debug())}
}

// setup is shared by every command that runs the fetch pipeline.
func setup(title string) (*common.Config, timeline.Window, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, timeline.Window{}, err
	}
	w, err := requestedWindow(time.Now())
	if err != nil {
		return nil, timeline.Window{}, err
	}

	log.Println("=========================================================")
	log.Printf("%s v%s", title, Version)
	log.Println("=========================================================")
	log.Printf("Receiver:    %s", cfg.Receiver)
	log.Printf("Transmitter: %s", cfg.Transmitter)
	log.Printf("Window:      %s", w)
	return cfg, w, nil
}
