// Package browser drives the single Chrome tab shared by every lookup.
package browser

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-enricher/internal/config"
)

// Session is a browser tab holding exactly one current page. Calls must be
// sequential: each Navigate replaces the page the previous caller read.
type Session interface {
	// Navigate loads url as the current page.
	Navigate(ctx context.Context, url string) error
	// HTML returns the rendered document of the current page.
	HTML(ctx context.Context) (string, error)
	// Close releases the browser. Safe to call more than once.
	Close() error
}

// Opener starts a Session. The pipeline calls it only after its inputs have
// been validated.
type Opener func(ctx context.Context) (Session, error)

// ChromeSession is a Session backed by a chromedp-controlled Chrome.
type ChromeSession struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	closeOnce   sync.Once
}

// NewOpener returns an Opener that launches Chrome with cfg.
func NewOpener(cfg config.BrowserConfig) Opener {
	return func(ctx context.Context) (Session, error) {
		return Open(ctx, cfg)
	}
}

// Open launches Chrome and opens one tab. The caller must Close it.
func Open(ctx context.Context, cfg config.BrowserConfig) (*ChromeSession, error) {
	ua := pickUserAgent(cfg.UserAgents)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("incognito", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	// The browser lives until Close, independent of the caller's ctx; each
	// call links its own ctx to the tab instead.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, eris.Wrap(err, "browser: start chrome")
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	zap.L().Debug("browser: session opened",
		zap.Bool("headless", cfg.Headless),
		zap.String("user_agent", ua),
		zap.Duration("timeout", timeout),
	)

	return &ChromeSession{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		timeout:     timeout,
	}, nil
}

// Navigate loads url, bounded by the session timeout.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return eris.Wrapf(err, "browser: navigate %s", url)
	}
	return nil
}

// HTML returns the outer HTML of the current document.
func (s *ChromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", eris.Wrap(err, "browser: read document")
	}
	return html, nil
}

// Close shuts down the tab and the browser process.
func (s *ChromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancelTab()
		s.cancelAlloc()
		zap.L().Debug("browser: session closed")
	})
	return nil
}

// run executes actions on the tab with the session timeout, aborting early
// if ctx is cancelled.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.tabCtx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func pickUserAgent(agents []string) string {
	if len(agents) == 0 {
		return ""
	}
	return agents[rand.Intn(len(agents))]
}
