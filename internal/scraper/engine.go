// internal/scraper/engine.go
package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/fundscope/lpcrawler/internal/browser"
	"github.com/fundscope/lpcrawler/internal/config"
	"github.com/fundscope/lpcrawler/internal/monitoring"
)

// Engine drives the pipeline end to end with a single sequential worker:
// discover every detail URL, then fully extract one URL (with its own retry
// loop) before touching the next. The pacing limiter keeps the request rate
// against the target site down; no cross-record synchronization exists
// because none is needed.
type Engine struct {
	renderer   browser.Renderer
	crawler    *Crawler
	retrier    *Retrier
	extractors *FieldExtractors
	limiter    *rate.Limiter

	sinks    []RecordSink // primary exports, write errors end the run
	archives []RecordSink // best-effort archives, write errors are logged
}

// NewEngine wires a pipeline from configuration. Sinks receive every usable
// record in arrival order; archives get the same stream but never fail the
// run.
func NewEngine(renderer browser.Renderer, cfg *config.Config, sinks, archives []RecordSink) *Engine {
	return &Engine{
		renderer:   renderer,
		crawler:    NewCrawler(renderer, cfg.ListingURL, cfg.Crawl.MaxPages, cfg.Browser.SettleDelay.Std()),
		retrier:    NewRetrier(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay.Std()),
		extractors: NewFieldExtractors(cfg.Extraction),
		limiter:    rate.NewLimiter(rate.Every(cfg.Crawl.VisitDelay.Std()), 1),
		sinks:      sinks,
		archives:   archives,
	}
}

// Run executes one full crawl. An empty discovery result returns ErrNoURLs;
// any other per-URL trouble is converted into summary counters and the run
// carries on with the next URL.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	urls, err := e.crawler.DiscoverURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("URL discovery failed: %w", err)
	}

	summary := &RunSummary{Discovered: len(urls)}
	if len(urls) == 0 {
		return summary, ErrNoURLs
	}
	log.Info().Int("count", len(urls)).Msg("found funds to scrape")

	for i, detailURL := range urls {
		if err := e.limiter.Wait(ctx); err != nil {
			return summary, fmt.Errorf("pacing interrupted: %w", err)
		}

		log.Info().Int("index", i+1).Int("total", len(urls)).Str("url", detailURL).
			Msg("scraping fund")

		rec, err := e.retrier.Do(ctx, detailURL, func(ctx context.Context) (*FundRecord, error) {
			return e.extractOne(ctx, detailURL)
		})
		if err != nil {
			summary.Failed++
			monitoring.RecordsFailed.Inc()
			log.Error().Str("url", detailURL).Err(err).Msg("failed to scrape fund")
			continue
		}

		// An empty name means the heuristics missed this layout, not that
		// the fetch flaked; retrying the same deterministic queries against
		// the same page cannot help, so it is counted and skipped.
		if rec.FundName == "" {
			summary.SoftFailed++
			monitoring.RecordsSoftFailed.Inc()
			log.Error().Str("url", detailURL).Msg("scraped fund but name was empty")
			continue
		}

		if err := e.export(rec); err != nil {
			return summary, err
		}
		summary.Succeeded++
		monitoring.RecordsSucceeded.Inc()
		log.Info().Str("fund", rec.FundName).Msg("successfully scraped")
	}

	return summary, nil
}

// extractOne renders a detail page and reduces it to a record. It is the
// operation the retrier wraps: every error here is treated as transient.
func (e *Engine) extractOne(ctx context.Context, detailURL string) (*FundRecord, error) {
	if err := e.renderer.Navigate(ctx, detailURL); err != nil {
		return nil, err
	}
	html, err := e.renderer.HTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}
	return e.extractors.Extract(doc, detailURL), nil
}

func (e *Engine) export(rec *FundRecord) error {
	for _, sink := range e.sinks {
		if err := sink.Write(rec); err != nil {
			return fmt.Errorf("failed to export record for %s: %w", rec.FundURL, err)
		}
	}
	for _, sink := range e.archives {
		if err := sink.Write(rec); err != nil {
			log.Warn().Str("url", rec.FundURL).Err(err).Msg("archive sink write failed")
		}
	}
	return nil
}
