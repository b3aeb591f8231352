package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	result pipeline.Result
	err    error
}

func (s stubChecker) Check(_ context.Context, _ string, _ int) (pipeline.Result, error) {
	return s.result, s.err
}

func newYorkResult() pipeline.Result {
	return pipeline.Result{
		CheckID: "check-1",
		Query:   "new york",
		Reports: []domain.RainReport{{
			Title:          "New York",
			Parent:         "New York",
			Date:           "2019-08-26",
			State:          "Light Cloud",
			StateAbbr:      "lc",
			Predictability: 70,
			MinTemp:        15.975,
			MaxTemp:        20.73,
		}},
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{"single word", []string{"Toulouse"}, options{city: "Toulouse", maxMatches: 5}},
		{"multi word", []string{"new", "york"}, options{city: "new york", maxMatches: 5}},
		{"flags first", []string{"-json", "-max", "10", "to"}, options{city: "to", maxMatches: 10, asJSON: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args, 5, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"new", "york", "-json"},
		{"paris", "-max", "3"},
		{},
		{"-max", "0", "paris"},
		{"-bogus", "paris"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var out bytes.Buffer
			_, err := parseArgs(args, 5, &out)
			require.Error(t, err)
			assert.Contains(t, out.String(), "Usage: willitrain")
		})
	}
}

func TestRun_TextOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), stubChecker{result: newYorkResult()}, "new york", 5, false, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "New York, New York (2019-08-26): no, it will not rain today")
	assert.Contains(t, stdout.String(), "Light Cloud, 16.0 to 20.7 C, predictability 70%")
}

func TestRun_JSONOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), stubChecker{result: newYorkResult()}, "new york", 5, true, &stdout, &stderr)
	require.Equal(t, exitOK, code)

	var got pipeline.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "check-1", got.CheckID)
	require.Len(t, got.Reports, 1)
	assert.Equal(t, "lc", got.Reports[0].StateAbbr)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", domain.ErrLocationNotFound, `Unknown city "ezrgtury"`},
		{"too many", fmt.Errorf("%w: 9 matches, limit 5", domain.ErrTooManyLocations), "Refine your query"},
		{"remote", &domain.RemoteServiceError{StatusCode: 500}, "status 500"},
		{"other", fmt.Errorf("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), stubChecker{err: tt.err}, "ezrgtury", 5, false, &stdout, &stderr)

			assert.Equal(t, exitError, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRun_SkippedLocations(t *testing.T) {
	res := newYorkResult()
	res.Skipped = []pipeline.Skipped{{
		Location: domain.Location{Title: "Bristol"},
		Reason:   "no forecast for today (2019-08-26)",
	}}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), stubChecker{result: res}, "b", 5, false, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "Bristol: skipped, no forecast for today (2019-08-26)")
}

func TestRun_AllSkippedFails(t *testing.T) {
	res := pipeline.Result{Skipped: []pipeline.Skipped{{Location: domain.Location{Title: "Bristol"}, Reason: "no forecast"}}}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), stubChecker{result: res}, "bristol", 5, false, &stdout, &stderr)

	assert.Equal(t, exitError, code)
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "yes, it will rain today", verdict(domain.RainReport{Rain: true, Precipitation: true}))
	assert.Equal(t, "no rain, but expect Snow", verdict(domain.RainReport{Precipitation: true, State: "Snow"}))
	assert.Equal(t, "no, it will not rain today", verdict(domain.RainReport{}))
}
