// internal/browser/chromedp.go
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ChromeRenderer implements Renderer on a single shared Chrome tab. The
// chromedp context owns the CDP event loop, which drains protocol messages
// on its own goroutines; the pipeline only ever touches the tab through
// this type, sequentially.
type ChromeRenderer struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options

	mu        sync.Mutex
	navigated bool
}

// NewChromeRenderer launches a browser and returns a renderer bound to it
func NewChromeRenderer(opts Options) (*ChromeRenderer, error) {
	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // required in container environments
		chromedp.WindowSize(1920, 1080),
	}
	if opts.Headless {
		execOpts = append(execOpts, chromedp.Headless)
	}
	if opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		log.Debug().Msgf("chromedp: "+format, args...)
	}))

	// Force the browser process to start so launch failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &ChromeRenderer{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
	}, nil
}

// Navigate loads the URL, waits for the body to be ready and then for the
// configured settle delay so script-driven content has a chance to render.
func (r *ChromeRenderer) Navigate(ctx context.Context, url string) error {
	runCtx := r.ctx
	if r.opts.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(r.ctx, r.opts.NavigationTimeout)
		defer cancel()
	}

	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if r.opts.SettleDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(r.opts.SettleDelay))
	}

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		r.mu.Lock()
		r.navigated = false
		r.mu.Unlock()
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	r.mu.Lock()
	r.navigated = true
	r.mu.Unlock()
	return nil
}

// HTML returns the outer HTML of the current document
func (r *ChromeRenderer) HTML(ctx context.Context) (string, error) {
	r.mu.Lock()
	ok := r.navigated
	r.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("cannot snapshot HTML before a successful navigation")
	}

	var html string
	if err := chromedp.Run(r.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// Evaluate runs script in the page and decodes the result into out
func (r *ChromeRenderer) Evaluate(ctx context.Context, script string, out interface{}) error {
	if err := chromedp.Run(r.ctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	return nil
}

// Close shuts the browser down
func (r *ChromeRenderer) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
