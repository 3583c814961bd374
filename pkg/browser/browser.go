// Package browser wraps a headless-Chrome rendering session behind a small
// client interface. The session is a process-wide resource: it is created
// lazily on first use, guarded by a mutex, reused across calls, and torn
// down explicitly at shutdown.
package browser

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PageResult is a rendered page.
type PageResult struct {
	URL   string
	Title string
	HTML  string
}

// Client renders pages with a real browser. Available reports whether a
// browser binary can be launched at all; callers fall back to plain HTTP
// fetching when it cannot.
type Client interface {
	Available() bool
	Render(ctx context.Context, url string) (*PageResult, error)
	Shutdown()
}

// Config controls session behavior.
type Config struct {
	// ExecPath points at the Chrome/Chromium binary. Empty means chromedp's
	// default lookup.
	ExecPath string
	// RenderTimeout bounds a single page render.
	RenderTimeout time.Duration
	// SettleDelay waits for client-side rendering after navigation.
	SettleDelay time.Duration
	// Disabled turns the client off regardless of binary availability.
	Disabled bool
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		RenderTimeout: 45 * time.Second,
		SettleDelay:   2 * time.Second,
	}
}

// Session implements Client over chromedp.
type Session struct {
	cfg Config

	mu          sync.Mutex
	started     bool
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
}

// NewSession creates an unstarted session. The underlying browser launches
// on the first Render call.
func NewSession(cfg Config) *Session {
	if cfg.RenderTimeout == 0 {
		cfg.RenderTimeout = 45 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	return &Session{cfg: cfg}
}

// browserBinaries are the executables probed when no ExecPath is configured.
var browserBinaries = []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"}

// Available reports whether a browser binary can be found.
func (s *Session) Available() bool {
	if s.cfg.Disabled {
		return false
	}
	if s.cfg.ExecPath != "" {
		_, err := exec.LookPath(s.cfg.ExecPath)
		return err == nil
	}
	for _, bin := range browserBinaries {
		if _, err := exec.LookPath(bin); err == nil {
			return true
		}
	}
	return false
}

// ensure lazily launches the shared browser. Callers hold no lock.
func (s *Session) ensure() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// Launch the browser process now so a broken install fails fast.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return nil, eris.Wrap(err, "browser: launch")
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserStop = browserStop
	s.started = true
	zap.L().Info("browser: session started")

	return s.browserCtx, nil
}

// Render navigates to the URL in a fresh tab of the shared browser and
// returns the rendered HTML.
func (s *Session) Render(ctx context.Context, url string) (*PageResult, error) {
	if s.cfg.Disabled {
		return nil, eris.New("browser: disabled")
	}

	browserCtx, err := s.ensure()
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	runCtx, cancel := context.WithTimeout(tabCtx, s.cfg.RenderTimeout)
	defer cancel()

	// Tie the tab to the caller's cancellation as well.
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-runCtx.Done():
		}
	}()

	var title, html string
	err = chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.cfg.SettleDelay),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "browser: render %s", url)
	}

	return &PageResult{URL: url, Title: title, HTML: html}, nil
}

// Shutdown tears down the shared browser. Safe to call multiple times.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.browserStop()
	s.allocCancel()
	s.started = false
	zap.L().Info("browser: session stopped")
}
