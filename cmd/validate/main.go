// Command validate checks recorded MetaWeather fixtures before they are used
// by tests or a fake upstream. Search fixtures (search_*.json) must hold
// well-formed locations; forecast fixtures (location_*.json) must decode,
// carry documented weather states, and yield a day record for their local
// date.
//
// Usage:
//
//	go run ./cmd/validate -dir internal/adapter/metaweather/testdata
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixtureClock matches the capture time of the recorded forecasts.
var fixtureClock = time.Date(2019, time.August, 26, 12, 40, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "directory containing search_*.json and location_*.json fixtures")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*dir, os.Stdout, os.Stderr))
}

func run(dir string, stdout, stderr io.Writer) int {
	domain.SetClock(clockwork.NewFakeClockAt(fixtureClock))
	defer domain.SetClock(nil)

	fmt.Fprintln(stdout, "=== MetaWeather Fixture Validation ===")

	searches, err := loadFixtures[[]domain.Location](dir, "search_*.json")
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load search fixtures: %v\n", err)
		return 1
	}
	forecasts, err := loadFixtures[domain.ForecastBundle](dir, "location_*.json")
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load forecast fixtures: %v\n", err)
		return 1
	}
	if len(searches) == 0 && len(forecasts) == 0 {
		fmt.Fprintf(stderr, "FATAL: no fixtures found in %s\n", dir)
		return 1
	}

	phases := []*phase{
		validateSearches(searches),
		validateForecasts(forecasts),
	}

	fmt.Fprintln(stdout)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(stdout, "  %-36s %s\n", p.name, status)
	}
	fmt.Fprintf(stdout, "\nFixtures: %d search, %d forecast\n", len(searches), len(forecasts))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(stdout, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(stdout, "\nValidation FAILED.")
	return 1
}

// fixture is one decoded file, keyed by base name.
type fixture[T any] struct {
	name  string
	value T
}

func loadFixtures[T any](dir, pattern string) ([]fixture[T], error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make([]fixture[T], 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, fixture[T]{name: filepath.Base(path), value: v})
	}
	return out, nil
}

// ── Phase 1: search fixtures ──

func validateSearches(searches []fixture[[]domain.Location]) *phase {
	p := &phase{name: "Phase 1: Search Fixtures"}
	for _, f := range searches {
		if len(f.value) == 0 {
			p.errorf("%s: no locations", f.name)
			continue
		}
		seen := map[int64]bool{}
		for i, loc := range f.value {
			checkLocation(p, fmt.Sprintf("%s[%d]", f.name, i), loc)
			if seen[loc.WOEID] {
				p.errorf("%s[%d]: duplicate woeid %d", f.name, i, loc.WOEID)
			}
			seen[loc.WOEID] = true
		}
	}
	return p
}

func checkLocation(p *phase, where string, loc domain.Location) {
	if strings.TrimSpace(loc.Title) == "" {
		p.errorf("%s: title is empty", where)
	}
	if loc.LocationType == "" {
		p.errorf("%s: location_type is empty", where)
	}
	if loc.WOEID <= 0 {
		p.errorf("%s: woeid %d is not positive", where, loc.WOEID)
	}
	if _, err := loc.Coordinates(); err != nil {
		p.errorf("%s: %v", where, err)
	}
}

// ── Phase 2: forecast fixtures ──

func validateForecasts(forecasts []fixture[domain.ForecastBundle]) *phase {
	p := &phase{name: "Phase 2: Forecast Fixtures"}
	for _, f := range forecasts {
		checkForecast(p, f.name, f.value)
	}
	return p
}

func checkForecast(p *phase, name string, bundle domain.ForecastBundle) {
	checkLocation(p, name, domain.Location{
		Title:        bundle.Title,
		LocationType: bundle.LocationType,
		WOEID:        bundle.WOEID,
		LattLong:     bundle.LattLong,
	})

	if want := "location_" + strconv.FormatInt(bundle.WOEID, 10) + ".json"; name != want {
		p.errorf("%s: file name does not match woeid %d", name, bundle.WOEID)
	}
	if len(bundle.ConsolidatedWeather) == 0 {
		p.errorf("%s: consolidated_weather is empty", name)
	}
	for i, day := range bundle.ConsolidatedWeather {
		if !domain.IsKnownWeatherState(day.WeatherStateAbbr) {
			p.errorf("%s day %d: unknown weather_state_abbr %q", name, i, day.WeatherStateAbbr)
		}
		if _, err := time.Parse(time.DateOnly, day.ApplicableDate); err != nil {
			p.errorf("%s day %d: applicable_date %q is not YYYY-MM-DD", name, i, day.ApplicableDate)
		}
		if day.Predictability < 0 || day.Predictability > 100 {
			p.errorf("%s day %d: predictability %d out of range", name, i, day.Predictability)
		}
	}

	days := bundle.ConsolidatedWeather
	info, day, err := domain.ExtractToday(&bundle)
	if err != nil {
		p.errorf("%s: %v", name, err)
		return
	}
	// MetaWeather lists today first.
	if days[0].ApplicableDate != day.ApplicableDate {
		p.errorf("%s: today's record (%s) is not the first day record", name, day.ApplicableDate)
	}
	report := domain.NewRainReport("validate", info, day)
	if report.State == "" {
		p.errorf("%s: today's weather_state_name is empty", name)
	}
}
