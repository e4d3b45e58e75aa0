// vlf-monitor - SuperSID VLF signal strength and GOES X-ray flux monitor
//
// Fetches a receiver/transmitter day range from the DIAS VLF archive,
// smooths the signal, overlays GOES X-ray flux, flare onsets and solar
// geometry, and writes a two-panel PNG. The same pipeline can mirror the
// raw files, load them into ClickHouse or export the aligned timeline to
// Parquet.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/vlf-monitor ./cmd/vlf-monitor

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

// Version can be overridden at build time via -ldflags
var Version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (ok)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown requested...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
