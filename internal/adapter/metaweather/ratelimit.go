package metaweather

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/observability"
	"golang.org/x/time/rate"
)

// RateLimitedService wraps a WeatherService so that concurrent callers share
// one upstream request budget. Waiting is not retrying: a call that fails
// upstream still fails.
type RateLimitedService struct {
	inner   domain.WeatherService
	limiter *rate.Limiter
	metrics *observability.Metrics
}

// NewRateLimitedService allows rps requests per second with the given burst.
func NewRateLimitedService(inner domain.WeatherService, rps float64, burst int, metrics *observability.Metrics) *RateLimitedService {
	return &RateLimitedService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
	}
}

func (r *RateLimitedService) ResolveLocations(ctx context.Context, query string, maxMatches int) ([]domain.Location, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.ResolveLocations(ctx, query, maxMatches)
}

func (r *RateLimitedService) TodaysForecast(ctx context.Context, woeid int64) (domain.LocationInfo, domain.DayForecast, error) {
	if err := r.wait(ctx); err != nil {
		return domain.LocationInfo{}, domain.DayForecast{}, err
	}
	return r.inner.TodaysForecast(ctx, woeid)
}

func (r *RateLimitedService) wait(ctx context.Context) error {
	start := time.Now()
	err := r.limiter.Wait(ctx)
	r.metrics.RateLimitWait.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
