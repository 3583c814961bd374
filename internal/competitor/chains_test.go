package competitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainFilter_Defaults(t *testing.T) {
	f := NewChainFilter(nil)

	assert.True(t, f.IsChain("McDonald's"))
	assert.True(t, f.IsChain("STARBUCKS Reserve"))
	assert.True(t, f.IsChain("Chick-Fil-A Lincoln Park"))
	assert.False(t, f.IsChain("Luigi's Trattoria"))
	assert.False(t, f.IsChain(""))
}

func TestChainFilter_CustomKeywords(t *testing.T) {
	f := NewChainFilter([]string{"generic diner"})

	assert.True(t, f.IsChain("Generic Diner #42"))
	assert.False(t, f.IsChain("McDonald's"), "custom list replaces the default")
}

func TestHasRelevantType(t *testing.T) {
	assert.True(t, hasRelevantType([]string{"restaurant", "point_of_interest"}))
	assert.True(t, hasRelevantType([]string{"meal_takeaway"}))
	assert.True(t, hasRelevantType([]string{"food"}))
	assert.False(t, hasRelevantType([]string{"lodging", "point_of_interest"}))
	assert.False(t, hasRelevantType(nil))
}
