package places

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescout/profiler-cli/internal/resilience"
)

// scriptedClient returns canned responses per text-search query.
type scriptedClient struct {
	Client
	responses map[string][]Candidate
	errs      map[string]error
	queries   []string
}

func (s *scriptedClient) TextSearch(_ context.Context, query string) ([]Candidate, error) {
	s.queries = append(s.queries, query)
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.responses[query], nil
}

func TestSearchQueries(t *testing.T) {
	queries := SearchQueries("Luigi's", "12 Oak St")
	assert.Equal(t, []string{
		"Luigi's 12 Oak St",
		"Luigi's",
		"restaurant Luigi's 12 Oak St",
	}, queries)

	// No address: the first two compositions collapse into one.
	queries = SearchQueries("Luigi's", "")
	assert.Equal(t, []string{"Luigi's", "restaurant Luigi's"}, queries)

	assert.Empty(t, SearchQueries("", ""))
}

func TestFindPlace_TriesCompositionsInOrder(t *testing.T) {
	client := &scriptedClient{
		responses: map[string][]Candidate{
			"Luigi's": {{PlaceID: "abc", Name: "Luigi's"}},
		},
	}

	got, err := FindPlace(context.Background(), client, "Luigi's", "12 Oak St")

	require.NoError(t, err)
	assert.Equal(t, "abc", got.PlaceID)
	assert.Equal(t, []string{"Luigi's 12 Oak St", "Luigi's"}, client.queries,
		"stops at the first composition with results")
}

func TestFindPlace_ContinuesPastTransientErrors(t *testing.T) {
	client := &scriptedClient{
		errs: map[string]error{
			"Luigi's 12 Oak St": resilience.Timeout("places: text search", context.DeadlineExceeded),
		},
		responses: map[string][]Candidate{
			"Luigi's": {{PlaceID: "abc"}},
		},
	}

	got, err := FindPlace(context.Background(), client, "Luigi's", "12 Oak St")

	require.NoError(t, err)
	assert.Equal(t, "abc", got.PlaceID)
}

func TestFindPlace_AbortsOnQuota(t *testing.T) {
	client := &scriptedClient{
		errs: map[string]error{
			"Luigi's 12 Oak St": resilience.QuotaExceeded("places: text search"),
		},
	}

	_, err := FindPlace(context.Background(), client, "Luigi's", "12 Oak St")

	require.Error(t, err)
	assert.True(t, resilience.ShortCircuits(err))
	assert.Len(t, client.queries, 1, "no further compositions after quota error")
}

func TestFindPlace_ExhaustedReturnsNotFound(t *testing.T) {
	client := &scriptedClient{}

	_, err := FindPlace(context.Background(), client, "Luigi's", "")

	require.Error(t, err)
	assert.True(t, resilience.IsNotFound(err))
}

func TestFindPlace_EmptyIdentity(t *testing.T) {
	_, err := FindPlace(context.Background(), &scriptedClient{}, "", "")

	require.Error(t, err)
	assert.True(t, resilience.IsNotFound(err))
}
