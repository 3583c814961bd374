package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculator_Accumulates(t *testing.T) {
	c := NewCalculator(DefaultRates())

	c.Add(c.Rates().PlacesTextSearch, 2)
	c.Add(c.Rates().PlacesDetails, 3)
	c.AddOther(0.01)

	want := 2*0.032 + 3*0.017 + 0.01
	assert.InDelta(t, want, c.Total(), 0.00001)
}

func TestCalculator_ZeroRateCalls(t *testing.T) {
	c := NewCalculator(DefaultRates())
	c.Add(c.Rates().FallbackFetch, 5)
	assert.Zero(t, c.Total())
}

func TestCalculator_ConcurrentAdds(t *testing.T) {
	c := NewCalculator(Rates{PlacesDetails: 0.01})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(c.Rates().PlacesDetails, 1)
		}()
	}
	wg.Wait()

	assert.InDelta(t, 1.0, c.Total(), 0.00001)
}
