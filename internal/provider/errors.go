package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAPIError extracts a human-readable error from a completion API
// response body, falling back to friendly text for common status codes.
func parseAPIError(statusCode int, body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if msg := errResp.Error.Message; msg != "" {
			return msg
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	switch statusCode {
	case 401:
		return "authentication failed — check your API key"
	case 403:
		return "access denied — your API key may lack the required permissions"
	case 404:
		return "model or endpoint not found"
	case 429:
		return "rate limited or quota exceeded — please wait and retry"
	case 500:
		return "internal server error on the provider side"
	case 502, 503, 529:
		return "provider service temporarily unavailable"
	}

	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, s)
}

// friendlyNetError converts common transport errors to readable messages.
func friendlyNetError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused (is the endpoint reachable?)"
	case strings.Contains(msg, "no such host"):
		return "host not found (check the base URL)"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return "connection timed out"
	case strings.Contains(msg, "EOF"):
		return "connection closed unexpectedly"
	case strings.Contains(msg, "reset by peer"):
		return "connection reset by server"
	}
	return msg
}
