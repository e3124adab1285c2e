package newsletter

import (
	"net/http"
	"time"

	"github.com/sip-protocol/blog-sip/internal/logger"
)

// DefaultTimeout bounds a single provider call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// loggingRoundTripper logs every outbound provider call and forwards the
// inbound request id as X-Request-Id. Request bodies are never logged since
// they carry subscriber addresses.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := logger.RequestID(req.Context())
	if requestID != "" {
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := l.inner.RoundTrip(req)
	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"duration":   time.Since(start).String(),
		"request_id": requestID,
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("newsletter provider request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.DebugWithFields("newsletter provider request done", fields)
	return resp, nil
}

// NewHTTPClient returns an http.Client with logging and the given timeout.
// A zero timeout uses DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport},
	}
}
