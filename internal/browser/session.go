package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/cv-helper/cv-helper-api/config"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
)

// Session owns one isolated browser process and one tab for the duration of a
// single orchestrated call. Sessions are never shared between calls; the
// orchestrator acquires one, defers Release and hands the session to exactly
// one portal flow.
type Session struct {
	cfg         config.BrowserConfig
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	releaseOnce sync.Once
	settle      time.Duration
}

// Factory acquires sessions from a fixed browser configuration.
type Factory struct {
	cfg config.BrowserConfig
}

func NewFactory(cfg config.BrowserConfig) *Factory {
	if cfg.PageLoadWaitMS == 0 {
		cfg.PageLoadWaitMS = 2000 // default
	}
	return &Factory{cfg: cfg}
}

// Acquire launches a headless browser and opens a single tab. The caller must
// Release the session on every exit path.
func (f *Factory) Acquire(ctx context.Context) (*Session, error) {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(f.cfg.WindowWidth, f.cfg.WindowHeight),
	)
	if !f.cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if f.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if f.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser and opens the tab, so
	// acquisition failures surface here rather than on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		metrics.BrowserSessionsTotal.WithLabelValues("error").Inc()
		return nil, errs.PortalError("launch browser", err)
	}

	metrics.BrowserSessionsTotal.WithLabelValues("opened").Inc()
	metrics.BrowserSessionsActive.Inc()
	logger.Info("Browser opened")

	return &Session{
		cfg:         f.cfg,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		settle:      time.Duration(f.cfg.PageLoadWaitMS) * time.Millisecond,
	}, nil
}

// Release closes the tab, then the browser, in that order. Both steps are
// best-effort cancellations; calling Release more than once is a no-op.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		s.cancelTab()
		s.cancelAlloc()
		metrics.BrowserSessionsActive.Dec()
		metrics.BrowserSessionsTotal.WithLabelValues("closed").Inc()
		logger.Info("Browser closed")
	})
}

// run executes chromedp actions on the session's tab. Remote waits are bounded
// only by the browser's own load signals, not by a deadline: a hung portal
// keeps the call suspended until the session is torn down.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.tabCtx, actions...)
}

// Navigate loads a URL and sleeps briefly so client-side rendering settles.
func (s *Session) Navigate(ctx context.Context, urlStr string) error {
	return s.run(ctx,
		chromedp.Navigate(urlStr),
		chromedp.Sleep(s.settle),
	)
}

// WaitVisible blocks until the selector is visible on the page.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Click clicks the first node matching the selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// SendKeys types a value into the first node matching the selector.
func (s *Session) SendKeys(ctx context.Context, selector, value string) error {
	return s.run(ctx, chromedp.SendKeys(selector, value, chromedp.ByQuery))
}

// Clear empties the first node matching the selector.
func (s *Session) Clear(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Clear(selector, chromedp.ByQuery))
}

// Text returns the text content of the first node matching the selector.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var out string
	err := s.run(ctx, chromedp.Text(selector, &out, chromedp.ByQuery))
	return out, err
}

// Location returns the tab's current URL after any pending navigation
// completed. This is the authenticator's only success signal.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	err := s.run(ctx,
		chromedp.Sleep(s.settle),
		chromedp.Location(&loc),
	)
	return loc, err
}

// OuterHTML returns the rendered document for offline parsing.
func (s *Session) OuterHTML(ctx context.Context) (string, error) {
	var body string
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		body, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	return body, err
}

// EvaluateString runs a JavaScript expression in the page and returns its
// string result.
func (s *Session) EvaluateString(ctx context.Context, expr string) (string, error) {
	var out string
	err := s.run(ctx, chromedp.Evaluate(expr, &out))
	return out, err
}

// Screenshot captures the visible viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}
