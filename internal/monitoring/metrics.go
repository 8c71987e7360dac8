// internal/monitoring/metrics.go
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run counters for the crawl/extract/export pipeline. They exist for the
// optional metrics server; the run itself only ever increments them.
var (
	PagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpcrawler",
		Name:      "listing_pages_crawled_total",
		Help:      "Listing pages visited during URL discovery.",
	})

	URLsDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpcrawler",
		Name:      "detail_urls_discovered_total",
		Help:      "Unique fund detail URLs discovered.",
	})

	RecordsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpcrawler",
		Name:      "records_succeeded_total",
		Help:      "Detail pages extracted into usable records.",
	})

	RecordsSoftFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpcrawler",
		Name:      "records_soft_failed_total",
		Help:      "Extractions that completed but yielded an empty fund name.",
	})

	RecordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpcrawler",
		Name:      "records_failed_total",
		Help:      "Detail pages abandoned after the retry budget ran out.",
	})

	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpcrawler",
		Name:      "extraction_retries_total",
		Help:      "Extraction attempts beyond the first, across all URLs.",
	})
)
