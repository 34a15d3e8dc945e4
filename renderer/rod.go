package renderer

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"slidecast/config"
)

// requestIdleWindow is how long the network must stay quiet before the
// page counts as idle.
const requestIdleWindow = 500 * time.Millisecond

// RodRenderer renders pages with a shared headless Chrome instance. The
// browser is connected once at startup; each Render call gets its own
// page, released on every exit path.
type RodRenderer struct {
	browser *rod.Browser
	cfg     config.RendererConfig
	logger  zerolog.Logger
}

func NewRodRenderer(cfg config.RendererConfig, logger zerolog.Logger) (*RodRenderer, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	if cfg.ChromeBin != "" {
		l = l.Bin(cfg.ChromeBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "failed to launch browser")
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to browser")
	}

	return &RodRenderer{
		browser: browser,
		cfg:     cfg,
		logger:  logger.With().Str("component", "renderer").Logger(),
	}, nil
}

// Close shuts the shared browser down.
func (r *RodRenderer) Close() error {
	return r.browser.Close()
}

// Render navigates to url, waits for load plus network idleness bounded
// by NavigationTimeout, sleeps the mode's settle delay, and returns the
// parsed final DOM.
func (r *RodRenderer) Render(ctx context.Context, url string, mode Mode) (*Page, error) {
	const op = "RodRenderer.Render"
	start := time.Now()

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		// Nothing was opened, so there is nothing to close.
		return nil, errors.Wrap(err, "failed to open page")
	}

	handle := &pageHandle{page: page, logger: r.logger}
	defer handle.close()

	navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavigationTimeout)
	defer cancel()
	page = page.Context(navCtx)

	if err := page.Navigate(url); err != nil {
		return nil, errors.Wrapf(err, "navigation failed for %s", url)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, errors.Wrap(err, "page load did not finish")
	}

	wait := page.WaitRequestIdle(requestIdleWindow, nil, nil, nil)
	wait()
	if err := navCtx.Err(); err != nil {
		return nil, errors.Wrapf(err, "navigation timed out after %s", r.cfg.NavigationTimeout)
	}

	if err := r.settle(ctx, mode); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page HTML")
	}

	rendered, err := ParsePage(html)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page HTML")
	}

	r.logger.Debug().
		Str("operation", op).
		Str("url", url).
		Int("text_length", len(rendered.Text())).
		Dur("duration", time.Since(start)).
		Msg("Page rendered")

	return rendered, nil
}

// settle sleeps the mode's fixed delay so client-side rendering can
// finish after the network goes idle.
func (r *RodRenderer) settle(ctx context.Context, mode Mode) error {
	delay := r.cfg.SettleDelaySingle
	if mode == ModeBatch {
		delay = r.cfg.SettleDelayBatch
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "render cancelled during settle delay")
	}
}

// pageHandle tracks whether the page was already released so the close
// path runs exactly once.
type pageHandle struct {
	page   *rod.Page
	logger zerolog.Logger
	closed bool
}

func (h *pageHandle) close() {
	if h.closed {
		return
	}
	h.closed = true
	if err := h.page.Close(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to close browser page")
	}
}
