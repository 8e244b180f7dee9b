package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sync copies every event from src into the local mirror and returns the row count.
func Sync(ctx context.Context, src Source, dst *SQLStore) (int, error) {
	list, err := src.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if err := dst.Replace(ctx, list); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	log.Info().Int("events", len(list)).Msg("events mirror replaced")
	return len(list), nil
}
