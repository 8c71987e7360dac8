// internal/browser/types.go
package browser

import (
	"context"
	"time"
)

// Renderer is the rendering capability the pipeline consumes. Navigate loads
// a URL and waits for the page to settle, HTML returns a snapshot of the
// rendered DOM, and Evaluate runs a script against the live page and decodes
// its value into out.
type Renderer interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, script string, out interface{}) error
	Close() error
}

// Options configures the Chrome renderer
type Options struct {
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
}

// DefaultOptions returns renderer options suitable for unattended runs
func DefaultOptions() Options {
	return Options{
		Headless:          true,
		NavigationTimeout: 45 * time.Second,
		SettleDelay:       3 * time.Second,
	}
}
