package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/monitor"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/render"
)

var flagOutput string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the VLF and GOES panels to a PNG",
	RunE:  runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&flagOutput, "output", "", "output PNG (default vlf_live.png)")
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, w, err := setup("VLF Plot")
	if err != nil {
		return err
	}
	output := cfg.Output
	if flagOutput != "" {
		output = flagOutput
	}

	ctx := cmd.Context()
	ds, err := monitor.Collect(ctx, cfg, w, newSources(cfg), time.Now())
	if err != nil {
		return err
	}

	log.Printf("Rendering %s...", output)
	if err := render.RenderFile(output, ds.Plot(cfg)); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	ds.Stats.LogSummary("Plot Complete")
	log.Printf("Output: %s", output)
	return nil
}
