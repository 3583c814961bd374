package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	positive := Score("The food was absolutely wonderful and the service was great!")
	assert.Greater(t, positive, 0.0)

	negative := Score("Terrible food, awful service, worst experience ever.")
	assert.Less(t, negative, 0.0)

	assert.Zero(t, Score(""))
	assert.Zero(t, Score("   "))
}

func TestScore_Bounded(t *testing.T) {
	s := Score("amazing amazing amazing wonderful fantastic perfect best great love love love")
	assert.LessOrEqual(t, s, 1.0)
	assert.GreaterOrEqual(t, s, -1.0)
}

func TestAverage_SkipsEmptyTexts(t *testing.T) {
	withEmpties := Average([]string{"The food was wonderful!", "", "   "})
	onlyText := Average([]string{"The food was wonderful!"})

	assert.InDelta(t, onlyText, withEmpties, 0.0001,
		"empty reviews are skipped, not counted as zero")
}

func TestAverage_AllEmpty(t *testing.T) {
	assert.Zero(t, Average(nil))
	assert.Zero(t, Average([]string{"", "  "}))
}
