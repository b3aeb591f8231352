package metaweather

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/couchcryptid/will-it-rain/internal/domain"
)

// maxErrorBody bounds how much of a failed response body is kept in the error.
const maxErrorBody = 256

// decodeResponse checks the response status and decodes the JSON body into v.
// It only guarantees the body is syntactically decodable into v; callers
// validate the decoded content.
func decodeResponse(resp *http.Response, v any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.RemoteServiceError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RemoteServiceError{Message: "read response body", Err: err}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &domain.RemoteServiceError{Message: domain.BadContentMessage, Err: err}
	}
	return nil
}
