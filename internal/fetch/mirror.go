package fetch

import (
	"context"
	"errors"
	"log"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/common"
)

// Mirror copies every url from src into the archive. Files already archived
// are left alone unless force is set. Failures are logged and counted; only
// context cancellation stops the run.
func Mirror(ctx context.Context, src Source, archive *Archive, urls []string, force bool) (*common.FetchStats, error) {
	stats := common.NewFetchStats()

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !force && archive.Has(u) {
			log.Printf("Already archived: %s", u)
			stats.AddSkipped()
			continue
		}

		data, err := src.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			if errors.Is(err, ErrNotFound) {
				log.Printf("Not available: %s", u)
			} else {
				log.Printf("Download failed: %s: %v", u, err)
			}
			stats.AddSkipped()
			continue
		}

		size, err := archive.Store(u, data)
		if err != nil {
			log.Printf("Archive failed: %s: %v", u, err)
			stats.AddSkipped()
			continue
		}

		log.Printf("Archived %s (%d -> %d bytes)", u, len(data), size)
		stats.AddFetched(0, len(data))
	}

	return stats, nil
}
