package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method string
	Path   string
	Status int
	// Detail is the backend's message, from {"detail": ...} or the field
	// errors of a validation response.
	Detail string
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method: method,
		Path:   path,
		Status: status,
		Detail: parseDetail(body),
	}
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Detail)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case apperrors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case apperrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	case apperrors.ErrServer:
		return e.Status >= 500
	}
	return false
}

// Detail returns the backend message carried by err, or "" if err is not an
// APIError or carries none.
func Detail(err error) string {
	var apiErr *APIError
	if apperrors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// parseDetail understands {"detail": "..."} and the DRF field error shape
// {"field": ["msg", ...], "non_field_errors": [...]}.
func parseDetail(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if raw, ok := fields["detail"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		msgs := messages(fields[k])
		if len(msgs) == 0 {
			continue
		}
		if k == "non_field_errors" || k == "detail" {
			parts = append(parts, strings.Join(msgs, " "))
			continue
		}
		parts = append(parts, k+": "+strings.Join(msgs, " "))
	}
	return strings.Join(parts, "; ")
}

func messages(raw json.RawMessage) []string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return []string{s}
	}
	return nil
}
