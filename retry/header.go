package retry

import (
	"net/http"
	"strconv"
	"time"
)

// RetryAfter extracts the Retry-After delay from an HTTP response.
// Returns 0 if the header is missing, unparseable or in the past.
func RetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	return ParseRetryAfter(resp.Header.Get("Retry-After"))
}

// ParseRetryAfter parses a Retry-After header value given either as seconds
// or as an HTTP date.
func ParseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
