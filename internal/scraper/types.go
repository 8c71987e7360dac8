// internal/scraper/types.go
package scraper

import "errors"

// ErrNoURLs is returned when discovery finishes without a single detail URL;
// it halts the run before any per-page extraction is attempted.
var ErrNoURLs = errors.New("no fund URLs discovered")

// FundRecord holds the fields extracted from one fund detail page. Fields
// that could not be extracted are the empty string, never a null marker, so
// the export sinks need no absent-value handling. FundURL is set from the
// crawl input and never changes afterwards.
type FundRecord struct {
	FundName    string
	FundURL     string
	AUM         string
	LinkedInURL string
	Geographies string
	Description string
	Portfolio   string
}

// RecordSink consumes successful records in arrival order
type RecordSink interface {
	Write(rec *FundRecord) error
	Close() error
}

// RunSummary reports the outcome of one pipeline run
type RunSummary struct {
	Discovered int
	Succeeded  int
	SoftFailed int // extraction completed but the name came back empty
	Failed     int // retry budget exhausted
}
