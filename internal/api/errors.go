package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strings"
)

const genericMessage = "Request failed"

// Error is returned for any non-2xx response.
type Error struct {
	Status  int
	Body    any // decoded JSON, raw text, or nil
	Message string
}

func (e *Error) Error() string { return e.Message }

// messageFrom picks the user-facing message: body.detail, then a raw text
// body, then a generic fallback.
func messageFrom(body any) string {
	switch v := body.(type) {
	case map[string]any:
		if d, ok := v["detail"]; ok && truthy(d) {
			if s, ok := d.(string); ok {
				return s
			}
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return genericMessage
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	}
	return true
}

// SchemaError reports a 2xx body that does not look like a todo payload.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "invalid response: " + e.Message
	}
	return "invalid response at " + e.Path + ": " + e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNetworkError reports whether err comes from the transport rather than
// from the backend answering with an error status.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Message returns err's text, or fallback when err has none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
