package resilience

import (
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrProviderClosed is returned when a provider has been gated off for the
// remainder of the run after a quota or credential failure.
var ErrProviderClosed = eris.New("provider closed for remainder of run")

// ProviderGate short-circuits calls to providers that have returned a quota
// or auth error. Unlike a circuit breaker there is no recovery probe: once a
// provider is closed it stays closed until the run ends.
type ProviderGate struct {
	mu     sync.Mutex
	closed map[string]Kind
}

// NewProviderGate creates an empty gate.
func NewProviderGate() *ProviderGate {
	return &ProviderGate{closed: make(map[string]Kind)}
}

// Allow returns an error carrying the closing kind when the provider has
// been gated off, so callers short-circuit the same way they would on the
// original failure. The error unwraps to ErrProviderClosed.
func (g *ProviderGate) Allow(provider string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if kind, ok := g.closed[provider]; ok {
		return &Error{Kind: kind, Op: provider + ": provider gated", Err: ErrProviderClosed}
	}
	return nil
}

// Record inspects an error from the provider and closes the gate when the
// error indicates quota exhaustion or bad credentials.
func (g *ProviderGate) Record(provider string, err error) {
	if err == nil || !ShortCircuits(err) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.closed[provider]; ok {
		return
	}
	kind := KindOf(err)
	g.closed[provider] = kind
	zap.L().Warn("resilience: closing provider for remainder of run",
		zap.String("provider", provider),
		zap.String("reason", kind.String()),
	)
}

// Closed reports whether the provider is gated off.
func (g *ProviderGate) Closed(provider string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.closed[provider]
	return ok
}
