package metadata

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// BreakerProvider wraps a Provider with a circuit breaker so a failing
// metadata API stops being hammered and requests degrade quickly instead of
// queueing on timeouts. ErrNotFound is a valid answer and never trips the
// breaker.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[*models.MovieDetails]
}

// NewBreakerProvider wraps inner with a circuit breaker. The breaker opens
// after 60% failures over at least 10 calls, and probes again after 30s.
func NewBreakerProvider(inner Provider, logger *zap.Logger) *BreakerProvider {
	cb := gobreaker.NewCircuitBreaker[*models.MovieDetails](gobreaker.Settings{
		Name:        "metadata-provider",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// A provider miss is a normal outcome, not a provider failure.
			return err == nil || isNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("metadata circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerProvider{inner: inner, cb: cb}
}

// Fetch delegates to the wrapped provider through the breaker. When the
// breaker is open the call fails immediately without touching the network.
func (b *BreakerProvider) Fetch(ctx context.Context, ref Ref) (*models.MovieDetails, error) {
	return b.cb.Execute(func() (*models.MovieDetails, error) {
		return b.inner.Fetch(ctx, ref)
	})
}
