package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescout/profiler-cli/internal/resilience"
	"github.com/tablescout/profiler-cli/pkg/places"
)

// pagedReviews serves scripted review pages keyed by page token.
type pagedReviews struct {
	places.Client
	pages     map[string]*places.ReviewPage
	errByPage map[string]error
	calls     []string
	callTimes []time.Time
}

func (p *pagedReviews) Reviews(_ context.Context, _ string, token string) (*places.ReviewPage, error) {
	p.calls = append(p.calls, token)
	p.callTimes = append(p.callTimes, time.Now())
	if err, ok := p.errByPage[token]; ok {
		return nil, err
	}
	return p.pages[token], nil
}

func reviewPage(texts []string, next string) *places.ReviewPage {
	page := &places.ReviewPage{
		Rating:        4.4,
		ReviewCount:   98,
		NextPageToken: next,
	}
	for _, text := range texts {
		page.Reviews = append(page.Reviews, places.Review{Author: "A", Rating: 5, Text: text})
	}
	return page
}

func TestBuildReviewSummary_PaginatesToCap(t *testing.T) {
	client := &pagedReviews{
		pages: map[string]*places.ReviewPage{
			"":   reviewPage([]string{"Great food!"}, "t1"),
			"t1": reviewPage([]string{"Lovely service."}, "t2"),
			"t2": reviewPage([]string{"Would come again."}, "t3"), // t3 never fetched
		},
	}

	summary, calls, err := BuildReviewSummary(context.Background(), client, "abc", ReviewsConfig{
		MaxPages:  3,
		PageDelay: time.Millisecond,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"", "t1", "t2"}, client.calls, "stops at the page cap even with a token left")
	assert.Len(t, summary.Reviews, 3)
	assert.InDelta(t, 4.4, summary.Rating, 0.001)
	assert.Equal(t, 98, summary.TotalReviews)
	assert.Greater(t, summary.AvgSentiment, 0.0)
}

func TestBuildReviewSummary_StopsWhenTokenExhausted(t *testing.T) {
	client := &pagedReviews{
		pages: map[string]*places.ReviewPage{
			"": reviewPage([]string{"Fine."}, ""),
		},
	}

	_, calls, err := BuildReviewSummary(context.Background(), client, "abc", ReviewsConfig{
		MaxPages:  3,
		PageDelay: time.Millisecond,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBuildReviewSummary_DelaysBetweenPages(t *testing.T) {
	client := &pagedReviews{
		pages: map[string]*places.ReviewPage{
			"":   reviewPage(nil, "t1"),
			"t1": reviewPage(nil, ""),
		},
	}

	delay := 30 * time.Millisecond
	_, _, err := BuildReviewSummary(context.Background(), client, "abc", ReviewsConfig{
		MaxPages:  2,
		PageDelay: delay,
	})

	require.NoError(t, err)
	require.Len(t, client.callTimes, 2)
	assert.GreaterOrEqual(t, client.callTimes[1].Sub(client.callTimes[0]), delay,
		"freshly issued tokens need the provider-mandated delay")
}

func TestBuildReviewSummary_FirstPageFailureIsFatal(t *testing.T) {
	client := &pagedReviews{
		errByPage: map[string]error{"": resilience.NotFound("places: reviews abc")},
	}

	_, calls, err := BuildReviewSummary(context.Background(), client, "abc", ReviewsConfig{
		MaxPages:  3,
		PageDelay: time.Millisecond,
	})

	require.Error(t, err)
	assert.True(t, resilience.IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestBuildReviewSummary_MidPaginationFailureKeepsEarlierPages(t *testing.T) {
	client := &pagedReviews{
		pages: map[string]*places.ReviewPage{
			"": reviewPage([]string{"Great food!"}, "t1"),
		},
		errByPage: map[string]error{"t1": resilience.Timeout("places: reviews abc", context.DeadlineExceeded)},
	}

	summary, calls, err := BuildReviewSummary(context.Background(), client, "abc", ReviewsConfig{
		MaxPages:  3,
		PageDelay: time.Millisecond,
	})

	require.NoError(t, err, "pages after the first are best-effort")
	assert.Equal(t, 2, calls)
	assert.Len(t, summary.Reviews, 1)
}
