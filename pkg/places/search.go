package places

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/resilience"
)

// defaultAttemptDelay spaces out search attempts to respect provider rate
// limits on top of the client's own limiter.
const defaultAttemptDelay = 300 * time.Millisecond

// SearchQueries returns the ordered query compositions tried when resolving
// a business to a place. Empty compositions (e.g. no address) are dropped.
func SearchQueries(name, address string) []string {
	raw := []string{
		strings.TrimSpace(name + " " + address),
		strings.TrimSpace(name),
		strings.TrimSpace("restaurant " + name + " " + address),
	}
	var queries []string
	for _, q := range raw {
		if q == "" || q == "restaurant" {
			continue
		}
		if len(queries) > 0 && queries[len(queries)-1] == q {
			continue
		}
		queries = append(queries, q)
	}
	return queries
}

// FindPlace resolves a business name and address to the best place match,
// trying each query composition in order until one yields results. Failed
// attempts are logged and the next composition tried after a short delay.
// Quota and auth errors abort immediately; exhausting all compositions
// returns a typed not-found.
func FindPlace(ctx context.Context, client Client, name, address string) (*Candidate, error) {
	queries := SearchQueries(name, address)
	if len(queries) == 0 {
		return nil, resilience.NotFound("places: find place (empty query)")
	}

	for i, query := range queries {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(defaultAttemptDelay):
			}
		}

		candidates, err := client.TextSearch(ctx, query)
		if err != nil {
			if resilience.ShortCircuits(err) {
				return nil, err
			}
			zap.L().Info("places: search attempt failed, trying next composition",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		if len(candidates) == 0 {
			continue
		}
		return &candidates[0], nil
	}

	return nil, resilience.NotFound("places: find place " + queries[0])
}
