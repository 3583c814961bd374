package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/sentiment"
	"github.com/tablescout/profiler-cli/pkg/places"
)

const (
	defaultMaxReviewPages = 3
	defaultPageDelay      = 2 * time.Second
)

// ReviewsConfig tunes review aggregation. The provider requires a delay
// before a freshly issued page token becomes valid, so PageDelay applies
// between consecutive page fetches.
type ReviewsConfig struct {
	MaxPages  int
	PageDelay time.Duration
}

// BuildReviewSummary fetches up to MaxPages of reviews for the place and
// aggregates them. Pages after the first are best-effort: a mid-pagination
// failure keeps the pages already fetched. Returns the number of page calls
// made alongside the summary.
func BuildReviewSummary(ctx context.Context, client places.Client, placeID string, cfg ReviewsConfig) (model.ReviewSummary, int, error) {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxReviewPages
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = defaultPageDelay
	}

	var (
		reviews []model.Review
		rating  float64
		total   int
		hours   []string
		photos  []string
		token   string
		calls   int
	)

	for page := 0; page < cfg.MaxPages; page++ {
		if page > 0 {
			select {
			case <-ctx.Done():
				return assembleSummary(reviews, rating, total, hours, photos), calls, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}

		result, err := client.Reviews(ctx, placeID, token)
		calls++
		if err != nil {
			if page == 0 {
				return model.ReviewSummary{}, calls, err
			}
			zap.L().Warn("pipeline: review pagination stopped early",
				zap.String("place_id", placeID),
				zap.Int("pages_fetched", page),
				zap.Error(err),
			)
			break
		}

		if page == 0 {
			rating = result.Rating
			total = result.ReviewCount
			hours = result.OpeningHours
			photos = result.PhotoRefs
		}
		for _, r := range result.Reviews {
			reviews = append(reviews, model.Review{
				Author: r.Author,
				Rating: model.ClampRating(r.Rating),
				Text:   r.Text,
				Time:   r.Time,
			})
		}

		token = result.NextPageToken
		if token == "" {
			break
		}
	}

	return assembleSummary(reviews, rating, total, hours, photos), calls, nil
}

func assembleSummary(reviews []model.Review, rating float64, total int, hours, photos []string) model.ReviewSummary {
	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		texts = append(texts, r.Text)
	}

	summary := model.NewReviewSummary(rating, total, sentiment.Average(texts))
	summary.Reviews = reviews
	summary.OpeningHours = hours
	summary.PhotoRefs = photos
	return summary
}
