// internal/scraper/crawler_test.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testListingURL = "https://www.vestbee.com/lp-list"

// fakeListingPage is one pagination state of the simulated listing
type fakeListingPage struct {
	html    string
	hasNext bool
}

/// fakeRenderer simulates the rendering boundary: a paginated listing whose
// next-control script advances an internal page index, plus a set of static
// detail pages keyed by URL. Navigation failures can be injected per URL.
type fakeRenderer struct {
	listingURL string
	listing    []fakeListingPage
	pages      map[string]string
	failures   map[string]int
	navCounts  map[string]int
	snapshots  int
	current    int
	location   string
}

func newFakeRenderer(listing []fakeListingPage, pages map[string]string) *fakeRenderer {
	return &fakeRenderer{
		listingURL: testListingURL,
		listing:    listing,
		pages:      pages,
		failures:   make(map[string]int),
		navCounts:  make(map[string]int),
	}
}

func (f *fakeRenderer) Navigate(_ context.Context, url string) error {
	f.navCounts[url]++
	if f.failures[url] > 0 {
		f.failures[url]--
		return errors.New("navigation timeout")
	}
	f.location = url
	return nil
}

func (f *fakeRenderer) HTML(context.Context) (string, error) {
	if f.location == f.listingURL {
		f.snapshots++
		return f.listing[f.current].html, nil
	}
	if html, ok := f.pages[f.location]; ok {
		return html, nil
	}
	return "", fmt.Errorf("no page rendered for %s", f.location)
}

func (f *fakeRenderer) Evaluate(_ context.Context, _ string, out interface{}) error {
	clicked, ok := out.(*bool)
	if !ok {
		return fmt.Errorf("unexpected evaluate result type %T", out)
	}
	next := f.listing[f.current].hasNext
	if next && f.current < len(f.listing)-1 {
		f.current++
	}
	*clicked = next
	return nil
}

func (f *fakeRenderer) Close() error { return nil }

func newTestCrawler(renderer *fakeRenderer, maxPages int) *Crawler {
	c := NewCrawler(renderer, testListingURL, maxPages, time.Duration(0))
	c.sleep = func(time.Duration) {}
	return c
}

func TestDiscoverURLsDeduplicatesAcrossPages(t *testing.T) {
	listing := []fakeListingPage{
		{
			html: `<div>
				<a href="/lp/alpha">Details</a>
				<a href="https://partners.example.com/beta">Details</a>
			</div>`,
			hasNext: true,
		},
		{
			// Beta repeats on the overlapping second page.
			html: `<div>
				<a href="https://partners.example.com/beta">Details</a>
				<button onclick="open()" data-href="/lp/gamma">See Details</button>
			</div>`,
			hasNext: true,
		},
		{
			html: `<div>
				<a href="/lp/delta"><span>Details</span></a>
				<a href="lp/epsilon">Details</a>
				<a href="/lp/undefined">Details</a>
			</div>`,
			hasNext: false,
		},
	}

	renderer := newFakeRenderer(listing, nil)
	crawler := newTestCrawler(renderer, 100)

	urls, err := crawler.DiscoverURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.vestbee.com/lp/alpha",
		"https://partners.example.com/beta",
		"https://www.vestbee.com/lp/gamma",
		"https://www.vestbee.com/lp/delta",
		"https://www.vestbee.com/lp/epsilon",
	}, urls)
	assert.Equal(t, 3, renderer.snapshots, "all three pages visited, cap untouched")
}

func TestDiscoverURLsStopsAtPageCap(t *testing.T) {
	// A single listing state whose next control never reports disabled.
	listing := []fakeListingPage{
		{html: `<a href="/lp/alpha">Details</a>`, hasNext: true},
	}

	renderer := newFakeRenderer(listing, nil)
	crawler := newTestCrawler(renderer, 5)

	urls, err := crawler.DiscoverURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.vestbee.com/lp/alpha"}, urls)
	assert.Equal(t, 5, renderer.snapshots, "discovery halts exactly at the cap")
}

func TestDiscoverURLsFallsBackToCardSelectors(t *testing.T) {
	listing := []fakeListingPage{
		{
			html: `<div>
				<div class="fund-card" data-href="/lp/zeta"></div>
				<div class="list-item"><a href="/lp/eta">Eta Fund</a></div>
			</div>`,
			hasNext: false,
		},
	}

	renderer := newFakeRenderer(listing, nil)
	crawler := newTestCrawler(renderer, 100)

	urls, err := crawler.DiscoverURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.vestbee.com/lp/zeta",
		"https://www.vestbee.com/lp/eta",
	}, urls)
}

func TestDiscoverURLsEmptyWhenNothingMatches(t *testing.T) {
	listing := []fakeListingPage{
		{html: `<p>Maintenance in progress</p>`, hasNext: false},
	}

	renderer := newFakeRenderer(listing, nil)
	crawler := newTestCrawler(renderer, 100)

	urls, err := crawler.DiscoverURLs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestDiscoverURLsPropagatesListingFailure(t *testing.T) {
	renderer := newFakeRenderer([]fakeListingPage{{html: "", hasNext: false}}, nil)
	renderer.failures[testListingURL] = 1
	crawler := newTestCrawler(renderer, 100)

	_, err := crawler.DiscoverURLs(context.Background())
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	origin := "https://www.vestbee.com"

	assert.Equal(t, "https://other.com/x", resolveURL(origin, "https://other.com/x"))
	assert.Equal(t, "https://www.vestbee.com/lp/a", resolveURL(origin, "/lp/a"))
	assert.Equal(t, "https://www.vestbee.com/lp/a", resolveURL(origin, "lp/a"))
}

func TestOriginOf(t *testing.T) {
	assert.Equal(t, "https://www.vestbee.com", originOf("https://www.vestbee.com/lp-list"))
	assert.Equal(t, "http://localhost:8080", originOf("http://localhost:8080/funds?page=2"))
}
