package traini8

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// APIError represents a non-success response from the API. Fields holds the
// decoded error object: per-field validation messages, a duplicate label
// ("center", "contact"), or a single "error" entry.
type APIError struct {
	StatusCode int
	Fields     map[string]string
}

func (e *APIError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("traini8: API error %d: %s", e.StatusCode, strings.Join(parts, "; "))
}

// Message returns the generic "error" entry, if any.
func (e *APIError) Message() string {
	return e.Fields["error"]
}

func parseAPIError(statusCode int, body []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		fields = map[string]string{"error": strings.TrimSpace(string(body))}
	}
	return &APIError{StatusCode: statusCode, Fields: fields}
}

// IsAPIError checks whether err is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
