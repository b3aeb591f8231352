package metaweather

import (
	"context"
	"testing"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	resolveCalls  int
	forecastCalls int
}

func (s *countingService) ResolveLocations(_ context.Context, _ string, _ int) ([]domain.Location, error) {
	s.resolveCalls++
	return []domain.Location{{Title: "Paris", WOEID: 615702}}, nil
}

func (s *countingService) TodaysForecast(_ context.Context, woeid int64) (domain.LocationInfo, domain.DayForecast, error) {
	s.forecastCalls++
	return domain.LocationInfo{WOEID: woeid}, domain.DayForecast{}, nil
}

func TestRateLimitedService_Delegates(t *testing.T) {
	inner := &countingService{}
	svc := NewRateLimitedService(inner, 1000, 10, observability.NewMetricsForTesting())

	locs, err := svc.ResolveLocations(context.Background(), "paris", 5)
	require.NoError(t, err)
	require.Len(t, locs, 1)

	info, _, err := svc.TodaysForecast(context.Background(), 615702)
	require.NoError(t, err)
	assert.Equal(t, int64(615702), info.WOEID)

	assert.Equal(t, 1, inner.resolveCalls)
	assert.Equal(t, 1, inner.forecastCalls)
}

func TestRateLimitedService_CancelledWhileWaiting(t *testing.T) {
	inner := &countingService{}
	svc := NewRateLimitedService(inner, 0.001, 1, observability.NewMetricsForTesting())

	// Burst of one: the first call takes the only token.
	_, err := svc.ResolveLocations(context.Background(), "paris", 5)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = svc.TodaysForecast(ctx, 615702)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, inner.forecastCalls, "inner service must not be called")
}
