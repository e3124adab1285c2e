// Package newsletter relays signup requests to a hosted email provider and
// translates the outcome into the JSON responses served by the blog.
package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/sip-protocol/blog-sip/internal/logger"
)

// Messages returned to clients.
const (
	MsgSubscribed     = "Successfully subscribed! Check your email to confirm."
	MsgNotConfigured  = "Newsletter service not configured"
	MsgInvalidBody    = "Invalid request body"
	MsgEmailRequired  = "Email is required"
	MsgInvalidEmail   = "Invalid email format"
	MsgAlreadyExists  = "This email is already subscribed"
	MsgFailed         = "Subscription failed"
	MsgUnexpected     = "An unexpected error occurred"
	CodeAlreadyExists = "email_already_exists"
)

// DefaultTags are attached to every subscriber created by the blog.
var DefaultTags = []string{"blog"}

// emailRe treats Unicode separators and BOM as whitespace, not only ASCII.
var emailRe = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)

// ErrNotConfigured is returned when no provider API key is set.
var ErrNotConfigured = errors.New("newsletter: provider api key not configured")

// RequestError is a client mistake. It maps to a 400 response.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return "newsletter: " + e.Message }

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Status int
	Code   string
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("newsletter: provider status=%d code=%q detail=%q", e.Status, e.Code, e.Detail)
}

// ProviderResponse is the decoded provider answer.
type ProviderResponse struct {
	Status int
	Code   string
	Detail string
}

// OK reports whether the provider accepted the subscription.
func (r *ProviderResponse) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Provider subscribes an email address with the given tags. A non-nil error
// means the call itself failed; provider rejections come back as a response
// with a non-2xx status.
type Provider interface {
	Subscribe(ctx context.Context, email string, tags []string) (*ProviderResponse, error)
}

// Body is the JSON payload sent back to the browser.
type Body struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Response is an HTTP status plus its JSON body.
type Response struct {
	Status int
	Body   Body
}

// ValidateEmail extracts the email from a JSON request body.
func ValidateEmail(body []byte) (string, error) {
	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil || req == nil {
		return "", &RequestError{Message: MsgInvalidBody}
	}
	email, ok := req["email"].(string)
	if !ok || email == "" {
		return "", &RequestError{Message: MsgEmailRequired}
	}
	if !emailRe.MatchString(email) {
		return "", &RequestError{Message: MsgInvalidEmail}
	}
	return email, nil
}

// Subscribe validates the request and forwards it to p.
func Subscribe(ctx context.Context, apiKey string, body []byte, p Provider) error {
	if apiKey == "" || p == nil {
		return ErrNotConfigured
	}
	email, err := ValidateEmail(body)
	if err != nil {
		return err
	}
	resp, err := p.Subscribe(ctx, email, DefaultTags)
	if err != nil {
		return fmt.Errorf("newsletter: subscribe: %w", err)
	}
	if !resp.OK() {
		return &UpstreamError{Status: resp.Status, Code: resp.Code, Detail: resp.Detail}
	}
	return nil
}

// Handle runs a signup and returns the response to send.
func Handle(ctx context.Context, apiKey string, body []byte, p Provider) Response {
	err := Subscribe(ctx, apiKey, body, p)
	if err == nil {
		return Response{Status: http.StatusOK, Body: Body{Success: true, Message: MsgSubscribed}}
	}
	return ResponseFor(ctx, err)
}

// ResponseFor maps a Subscribe error to a client response and logs the
// failures the operator needs to see.
func ResponseFor(ctx context.Context, err error) Response {
	fields := logger.Fields{"request_id": logger.RequestID(ctx)}

	var reqErr *RequestError
	var upErr *UpstreamError
	switch {
	case errors.Is(err, ErrNotConfigured):
		logger.ErrorWithFields("newsletter provider api key not configured", fields)
		return failure(http.StatusServiceUnavailable, MsgNotConfigured)
	case errors.As(err, &reqErr):
		return failure(http.StatusBadRequest, reqErr.Message)
	case errors.As(err, &upErr):
		if upErr.Code == CodeAlreadyExists {
			return failure(http.StatusConflict, MsgAlreadyExists)
		}
		fields["status"] = upErr.Status
		fields["code"] = upErr.Code
		fields["detail"] = upErr.Detail
		logger.ErrorWithFields("newsletter provider rejected subscription", fields)
		msg := upErr.Detail
		if msg == "" {
			msg = MsgFailed
		}
		return failure(upErr.Status, msg)
	default:
		fields["error"] = err.Error()
		logger.ErrorWithFields("newsletter subscription error", fields)
		return failure(http.StatusInternalServerError, MsgUnexpected)
	}
}

func failure(status int, msg string) Response {
	return Response{Status: status, Body: Body{Error: msg}}
}
