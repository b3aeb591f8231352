package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/observability"
	"github.com/google/uuid"
)

// ReportSink publishes finished rain reports.
type ReportSink interface {
	LoadBatch(ctx context.Context, reports []domain.RainReport) error
}

// Skipped records a resolved location that produced no report.
type Skipped struct {
	Location domain.Location `json:"location"`
	Reason   string          `json:"reason"`
}

// Result is the outcome of one rain check.
type Result struct {
	CheckID string              `json:"check_id"`
	Query   string              `json:"query"`
	Reports []domain.RainReport `json:"reports"`
	Skipped []Skipped           `json:"skipped,omitempty"`
}

// Checker resolves a city and reports today's rain verdict for every match.
type Checker struct {
	service     domain.WeatherService
	sink        ReportSink
	logger      *slog.Logger
	metrics     *observability.Metrics
	concurrency int
	degraded    atomic.Bool
}

// New creates a Checker. A nil sink disables report publishing. Forecasts are
// fetched one location at a time unless concurrency is greater than one.
func New(service domain.WeatherService, sink ReportSink, logger *slog.Logger, metrics *observability.Metrics, concurrency int) *Checker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Checker{
		service:     service,
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// CheckReadiness returns an error while the most recent check ended in a
// MetaWeather failure.
func (c *Checker) CheckReadiness(_ context.Context) error {
	if c.degraded.Load() {
		return errors.New("last metaweather call failed")
	}
	return nil
}

// Check resolves city and extracts today's forecast for every match.
// Resolver errors and remote failures abort the check; a location with no
// forecast for today is recorded in Result.Skipped.
func (c *Checker) Check(ctx context.Context, city string, maxMatches int) (Result, error) {
	res := Result{CheckID: uuid.NewString(), Query: city}
	logger := c.logger.With("check_id", res.CheckID, "query", city)

	locations, err := c.service.ResolveLocations(ctx, city, maxMatches)
	c.observeUpstream(err)
	if err != nil {
		c.metrics.Checks.WithLabelValues(outcome(err)).Inc()
		logger.Info("location resolution failed", "error", err)
		return res, err
	}
	logger.Debug("locations resolved", "count", len(locations))

	outcomes, failed := c.extractAll(ctx, locations)
	if failed >= 0 {
		loc, err := locations[failed], outcomes[failed].err
		c.observeUpstream(err)
		c.metrics.Checks.WithLabelValues(outcome(err)).Inc()
		logger.Error("forecast extraction failed", "woeid", loc.WOEID, "title", loc.Title, "error", err)
		return res, err
	}
	c.observeUpstream(nil)

	for i, o := range outcomes {
		loc := locations[i]
		if o.err != nil {
			logger.Warn("no forecast for today, skipping location", "woeid", loc.WOEID, "title", loc.Title, "error", o.err)
			c.metrics.LocationsSkipped.Inc()
			res.Skipped = append(res.Skipped, Skipped{Location: loc, Reason: o.err.Error()})
			continue
		}
		res.Reports = append(res.Reports, domain.NewRainReport(res.CheckID, o.info, o.day))
	}

	c.metrics.Checks.WithLabelValues("ok").Inc()
	c.publish(ctx, logger, res.Reports)
	return res, nil
}

type extraction struct {
	info domain.LocationInfo
	day  domain.DayForecast
	err  error
}

func fatal(err error) bool {
	return err != nil && !domain.IsNoForecastForToday(err)
}

// extractAll fetches today's forecast for each location, keeping the
// resolver's order regardless of concurrency. failed is the index of the
// location whose error aborts the check, or -1. The first fatal error
// cancels the extractions still in flight and none are started after it.
func (c *Checker) extractAll(ctx context.Context, locations []domain.Location) (out []extraction, failed int) {
	out = make([]extraction, len(locations))

	if c.concurrency == 1 || len(locations) < 2 {
		for i, loc := range locations {
			out[i] = c.extract(ctx, loc)
			if fatal(out[i].err) {
				return out[:i+1], i
			}
		}
		return out, -1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	failed = -1
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	for i, loc := range locations {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, loc domain.Location) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				out[i] = extraction{err: err}
			} else {
				out[i] = c.extract(ctx, loc)
			}
			if !fatal(out[i].err) {
				return
			}
			mu.Lock()
			if failed < 0 {
				failed = i
				cancel()
			}
			mu.Unlock()
		}(i, loc)
	}
	wg.Wait()
	return out, failed
}

func (c *Checker) extract(ctx context.Context, loc domain.Location) extraction {
	info, day, err := c.service.TodaysForecast(ctx, loc.WOEID)
	return extraction{info: info, day: day, err: err}
}

func (c *Checker) observeUpstream(err error) {
	c.degraded.Store(domain.IsRemoteServiceError(err))
}

// publish hands reports to the sink. Sink failures are logged, never returned.
func (c *Checker) publish(ctx context.Context, logger *slog.Logger, reports []domain.RainReport) {
	if c.sink == nil || len(reports) == 0 {
		return
	}
	if err := c.sink.LoadBatch(ctx, reports); err != nil {
		c.metrics.SinkErrors.Inc()
		logger.Error("publish reports failed", "error", err, "reports", len(reports))
		return
	}
	c.metrics.ReportsPublished.Add(float64(len(reports)))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTooManyLocations):
		return "too_many"
	case domain.IsRemoteServiceError(err):
		return "remote_error"
	default:
		return "error"
	}
}
