package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/vlf"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List known transmitters and receivers",
	Run: func(cmd *cobra.Command, args []string) {
		printStations(cmd.OutOrStdout())
	},
}

func printStations(out io.Writer) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSMITTER\tCALLSIGN\tFREQ kHz\tBAND\tLOCATION")
	for _, t := range vlf.Transmitters() {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s, %s\n", t.ID, t.Callsign, t.FrequencyKHz, t.Band(), t.Location, t.Country)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RECEIVER\tNAME\tLAT\tLON\tCOUNTRY")
	for _, r := range vlf.Receivers() {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%s\n", r.ID, r.Name, r.Latitude, r.Longitude, r.Country)
	}
	tw.Flush()
}
