package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/will-it-rain/internal/adapter/httpadapter"
	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockChecker struct {
	result  pipeline.Result
	err     error
	gotCity string
	gotMax  int
}

func (m *mockChecker) Check(_ context.Context, city string, maxMatches int) (pipeline.Result, error) {
	m.gotCity = city
	m.gotMax = maxMatches
	return m.result, m.err
}

func newTestServer(checker *mockChecker, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", checker, &mockReadiness{err: readyErr}, 5, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockChecker{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&mockChecker{}, nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(&mockChecker{}, fmt.Errorf("last metaweather call failed")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockChecker{}, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRain_Success(t *testing.T) {
	checker := &mockChecker{result: pipeline.Result{
		CheckID: "check-1",
		Query:   "new york",
		Reports: []domain.RainReport{{Title: "New York", WOEID: 2459115, Rain: true}},
	}}
	rec := get(t, newTestServer(checker, nil), "/v1/rain?city=new++york&max=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new york", checker.gotCity)
	assert.Equal(t, 10, checker.gotMax)

	var body pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Reports, 1)
	assert.True(t, body.Reports[0].Rain)
	assert.Equal(t, "check-1", body.CheckID)
}

func TestRain_DefaultMax(t *testing.T) {
	checker := &mockChecker{}
	rec := get(t, newTestServer(checker, nil), "/v1/rain?city=paris")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, checker.gotMax)
}

func TestRain_BadRequests(t *testing.T) {
	for _, target := range []string{"/v1/rain", "/v1/rain?city=++", "/v1/rain?city=paris&max=0", "/v1/rain?city=paris&max=x"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, newTestServer(&mockChecker{}, nil), target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRain_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrLocationNotFound, http.StatusNotFound},
		{"too many", fmt.Errorf("%w: 9 matches, limit 5", domain.ErrTooManyLocations), http.StatusConflict},
		{"remote", &domain.RemoteServiceError{StatusCode: 500}, http.StatusBadGateway},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(&mockChecker{err: tt.err}, nil), "/v1/rain?city=to")
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestRain_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&mockChecker{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/rain?city=paris", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
