// Command willitrain tells whether it will rain today in a city, using the
// MetaWeather API. Multi-word city names need no quoting.
//
// Usage:
//
//	willitrain [-max N] [-json] <city words...>
//
// Examples:
//
//	willitrain Toulouse
//	willitrain new york
//	willitrain -max 10 to
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kafkaadapter "github.com/couchcryptid/will-it-rain/internal/adapter/kafka"
	"github.com/couchcryptid/will-it-rain/internal/adapter/metaweather"
	"github.com/couchcryptid/will-it-rain/internal/config"
	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/observability"
	"github.com/couchcryptid/will-it-rain/internal/pipeline"
	"github.com/joho/godotenv"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitError)
	}

	opts, err := parseArgs(os.Args[1:], cfg.MaxLocations, os.Stderr)
	if err != nil {
		os.Exit(exitUsage)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	client := metaweather.NewClient(cfg.BaseURL, cfg.UpstreamTimeout, metrics, logger)

	var sink pipeline.ReportSink
	var writer *kafkaadapter.Writer
	if cfg.ReportsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		metrics.ReportsEnabled.Set(1)
	}
	checker := pipeline.New(client, sink, logger, metrics, cfg.ForecastConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, checker, opts.city, opts.maxMatches, opts.asJSON, os.Stdout, os.Stderr)
	stop()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	os.Exit(code)
}

type options struct {
	city       string
	maxMatches int
	asJSON     bool
}

// parseArgs reads flags followed by the city words. Flags must come first:
// a word starting with "-" after the city is rejected rather than taken as
// part of the name.
func parseArgs(args []string, defaultMax int, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("willitrain", flag.ContinueOnError)
	fs.SetOutput(output)
	maxMatches := fs.Int("max", defaultMax, "maximum number of matching locations to accept")
	asJSON := fs.Bool("json", false, "print reports as JSON")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: willitrain [-max N] [-json] <city words...>")
		fmt.Fprintln(fs.Output(), "Tells whether it will rain today in a city, e.g. 'willitrain -json new york'.")
		fmt.Fprintln(fs.Output(), "Flags must come before the city.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	for _, word := range fs.Args() {
		if strings.HasPrefix(word, "-") {
			fmt.Fprintf(fs.Output(), "flag %q after the city; flags must come first\n", word)
			fs.Usage()
			return options{}, fmt.Errorf("flag %q after city", word)
		}
	}

	city := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(city) == "" {
		fs.Usage()
		return options{}, errors.New("city is required")
	}
	if *maxMatches <= 0 {
		fs.Usage()
		return options{}, errors.New("-max must be positive")
	}
	return options{city: city, maxMatches: *maxMatches, asJSON: *asJSON}, nil
}

// rainChecker is the part of pipeline.Checker the CLI needs.
type rainChecker interface {
	Check(ctx context.Context, city string, maxMatches int) (pipeline.Result, error)
}

// run performs one check and prints the outcome. It returns the process exit code.
func run(ctx context.Context, c rainChecker, city string, maxMatches int, asJSON bool, stdout, stderr io.Writer) int {
	res, err := c.Check(ctx, city, maxMatches)
	if err != nil {
		printError(stderr, city, maxMatches, err)
		return exitError
	}

	if asJSON {
		if err := printJSON(stdout, res); err != nil {
			fmt.Fprintf(stderr, "write output: %v\n", err)
			return exitError
		}
	} else {
		printText(stdout, res)
	}

	if len(res.Reports) == 0 {
		return exitError
	}
	return exitOK
}

func printError(w io.Writer, city string, maxMatches int, err error) {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		fmt.Fprintf(w, "Unknown city %q. Check the spelling and try again.\n", city)
	case errors.Is(err, domain.ErrTooManyLocations):
		fmt.Fprintf(w, "Too many locations match %q (limit %d). Refine your query or raise -max.\n", city, maxMatches)
	case domain.IsRemoteServiceError(err):
		fmt.Fprintf(w, "MetaWeather is unavailable: %v\n", err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
