// internal/scraper/crawler.go
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/fundscope/lpcrawler/internal/browser"
	"github.com/fundscope/lpcrawler/internal/monitoring"
)

// nextPageScript locates and activates the next-page control using a ranked
// strategy: an enabled next/arrow button, then the link labeled one past the
// current-page indicator, then the numeric page link after the active one.
// It reports whether a control was clicked. This is the one place the
// pipeline mutates live page state, so it runs through Renderer.Evaluate
// rather than against an HTML snapshot.
const nextPageScript = `
(() => {
	const nextButtons = Array.from(document.querySelectorAll('a, button'))
		.filter(el => {
			const text = (el.textContent || '').trim().toLowerCase();
			const label = (el.getAttribute('aria-label') || '').toLowerCase();
			return text === 'next' || text.includes('next') || label.includes('next') ||
			       text === '→' || text === '>';
		});
	for (const btn of nextButtons) {
		if (!btn.disabled && !btn.classList.contains('disabled')) {
			btn.click();
			return true;
		}
	}

	const current = document.querySelector('.pagination .active, [aria-current="page"]');
	if (current) {
		const n = parseInt(current.textContent);
		const link = Array.from(document.querySelectorAll('a'))
			.find(a => (a.textContent || '').trim() === String(n + 1));
		if (link) {
			link.click();
			return true;
		}
	}

	const pageLinks = Array.from(document.querySelectorAll('a'))
		.filter(a => /^\d+$/.test((a.textContent || '').trim()))
		.sort((a, b) => parseInt(a.textContent) - parseInt(b.textContent));
	for (let i = 0; i < pageLinks.length - 1; i++) {
		if (pageLinks[i].classList.contains('active') ||
		    pageLinks[i].getAttribute('aria-current') === 'page') {
			pageLinks[i + 1].click();
			return true;
		}
	}
	return false;
})()
`

// Crawler walks the paginated listing and accumulates the deduplicated set
// of fund detail URLs in crawl-encounter order.
type Crawler struct {
	renderer    browser.Renderer
	listingURL  string
	maxPages    int
	settleDelay time.Duration

	sleep func(time.Duration) // swapped out in tests
}

// NewCrawler creates a crawler for the given listing page. maxPages is the
// hard cap guarding against misdetected next controls looping forever.
func NewCrawler(renderer browser.Renderer, listingURL string, maxPages int, settleDelay time.Duration) *Crawler {
	return &Crawler{
		renderer:    renderer,
		listingURL:  listingURL,
		maxPages:    maxPages,
		settleDelay: settleDelay,
		sleep:       time.Sleep,
	}
}

// DiscoverURLs renders the listing once and pages through it, harvesting
// detail links from each rendered state until no next control is found or
// the page cap is hit. When the primary heuristic finds nothing at all, a
// looser card-style query against the final page state is used instead.
func (c *Crawler) DiscoverURLs(ctx context.Context) ([]string, error) {
	log.Info().Str("url", c.listingURL).Msg("navigating to listing page")
	if err := c.renderer.Navigate(ctx, c.listingURL); err != nil {
		return nil, fmt.Errorf("failed to render listing page: %w", err)
	}

	origin := originOf(c.listingURL)
	set := newURLSet()
	page := 1

	var doc *goquery.Document
	for {
		html, err := c.renderer.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot listing page %d: %w", page, err)
		}
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("failed to parse listing page %d: %w", page, err)
		}

		found := c.collectDetailLinks(doc, origin, set)
		log.Info().Int("page", page).Int("found", found).Int("total", set.Len()).
			Msg("harvested detail links")
		monitoring.PagesCrawled.Inc()

		var hasMore bool
		if err := c.renderer.Evaluate(ctx, nextPageScript, &hasMore); err != nil {
			return nil, fmt.Errorf("failed to query next-page control: %w", err)
		}
		if !hasMore {
			log.Info().Msg("no more pages found, finished pagination")
			break
		}
		if page >= c.maxPages {
			log.Warn().Int("max_pages", c.maxPages).Msg("reached page cap, stopping pagination")
			break
		}

		c.sleep(c.settleDelay)
		page++
	}

	if set.Len() == 0 {
		log.Warn().Msg("no detail links found, trying card selectors")
		alternative := collectCardLinks(doc, origin)
		if len(alternative) > 0 {
			log.Info().Int("found", len(alternative)).Msg("card selectors matched")
			monitoring.URLsDiscovered.Add(float64(len(alternative)))
			return alternative, nil
		}
	}

	monitoring.URLsDiscovered.Add(float64(set.Len()))
	return set.Values(), nil
}

// collectDetailLinks adds every resolvable detail URL on the page to set and
// returns how many new ones appeared.
func (c *Crawler) collectDetailLinks(doc *goquery.Document, origin string, set *urlSet) int {
	added := 0
	doc.Find("a, button").Each(func(_ int, s *goquery.Selection) {
		if !strings.Contains(s.Text(), "Details") {
			return
		}
		target := detailLinkTarget(s)
		if target == "" {
			return
		}
		resolved := resolveURL(origin, target)
		// A literal "undefined" token means a broken attribute read upstream.
		if strings.Contains(resolved, "undefined") {
			return
		}
		if set.Add(resolved) {
			added++
		}
	})
	return added
}

// detailLinkTarget resolves the URL a detail control points at: its own
// href, an onclick data attribute, or the nearest enclosing link or card.
func detailLinkTarget(s *goquery.Selection) string {
	if goquery.NodeName(s) == "a" {
		if href, ok := s.Attr("href"); ok && href != "" {
			return href
		}
	}
	if _, ok := s.Attr("onclick"); ok {
		if v, ok := s.Attr("data-href"); ok && v != "" {
			return v
		}
		if v, ok := s.Attr("href"); ok && v != "" {
			return v
		}
	}
	if parent := s.Closest("a"); parent.Length() > 0 {
		if href, ok := parent.Attr("href"); ok && href != "" {
			return href
		}
	}
	if card := s.Closest("[data-href], [href]"); card.Length() > 0 {
		if v, ok := card.Attr("data-href"); ok && v != "" {
			return v
		}
		if v, ok := card.Attr("href"); ok && v != "" {
			return v
		}
	}
	return ""
}

// collectCardLinks is the looser fallback query: elements whose class hints
// at a card, item or fund, resolved through a nested link or data attribute.
func collectCardLinks(doc *goquery.Document, origin string) []string {
	var urls []string
	if doc == nil {
		return urls
	}
	doc.Find(`[class*="card"], [class*="item"], [class*="fund"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Find("a[href]").First().Attr("href"); ok && href != "" {
			urls = append(urls, resolveURL(origin, href))
			return
		}
		if v, ok := s.Attr("data-href"); ok && v != "" {
			urls = append(urls, resolveURL(origin, v))
		}
	})
	return urls
}

// resolveURL makes raw absolute: already-absolute URLs pass through,
// site-root-relative paths attach to the origin, anything else is treated
// as a relative path from the site root.
func resolveURL(origin, raw string) string {
	switch {
	case strings.HasPrefix(raw, "http"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return origin + raw
	default:
		return origin + "/" + raw
	}
}

// originOf reduces a URL to scheme://host
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}
	return u.Scheme + "://" + u.Host
}
