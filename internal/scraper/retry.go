// internal/scraper/retry.go
package scraper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fundscope/lpcrawler/internal/monitoring"
)

// Retrier wraps a flaky operation with bounded exponential backoff. Every
// failure kind is eligible; the budget is the only thing that ends the loop.
// Soft failures (a record whose name came back empty) are not failures here:
// that classification belongs to the caller, and re-running a deterministic
// heuristic against the same page cannot change its answer.
type Retrier struct {
	MaxAttempts int
	BaseDelay   time.Duration

	sleep func(time.Duration) // swapped out in tests
}

// NewRetrier returns a Retrier with the given budget
func NewRetrier(maxAttempts int, baseDelay time.Duration) *Retrier {
	return &Retrier{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		sleep:       time.Sleep,
	}
}

// Do runs op up to MaxAttempts times, doubling the delay after each failed
// attempt. The final attempt's error propagates unchanged.
func (r *Retrier) Do(ctx context.Context, url string, op func(context.Context) (*FundRecord, error)) (*FundRecord, error) {
	delay := r.BaseDelay

	for attempt := 1; ; attempt++ {
		rec, err := op(ctx)
		if err == nil {
			return rec, nil
		}
		if attempt >= r.MaxAttempts {
			log.Error().Str("url", url).Int("attempts", attempt).Err(err).
				Msg("retry budget exhausted")
			return nil, err
		}

		log.Warn().Str("url", url).Int("attempt", attempt).Dur("retry_in", delay).Err(err).
			Msg("attempt failed, retrying")
		r.sleep(delay)
		delay *= 2
		monitoring.RetriesTotal.Inc()
	}
}
