package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// DefaultButtondownURL is the production Buttondown API.
const DefaultButtondownURL = "https://api.buttondown.email"

// Buttondown is a Provider backed by the Buttondown subscribers API.
type Buttondown struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewButtondown creates a client. Empty baseURL uses DefaultButtondownURL;
// a nil httpClient uses NewHTTPClient(DefaultTimeout).
func NewButtondown(apiKey, baseURL string, httpClient *http.Client) *Buttondown {
	if baseURL == "" {
		baseURL = DefaultButtondownURL
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	return &Buttondown{APIKey: apiKey, BaseURL: baseURL, HTTPClient: httpClient}
}

type subscribeRequest struct {
	Email string   `json:"email"`
	Tags  []string `json:"tags"`
}

// buttondownResponse covers both the subscriber object and error payloads.
// detail is usually a string but may be a list of validation messages.
type buttondownResponse struct {
	ID     string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Code   string `json:"code,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// Subscribe implements Provider with POST {BaseURL}/v1/subscribers.
func (b *Buttondown) Subscribe(ctx context.Context, email string, tags []string) (*ProviderResponse, error) {
	endpoint, err := url.Parse(b.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("buttondown: base url: %w", err)
	}
	endpoint.Path = path.Join("/", endpoint.Path, "v1", "subscribers")

	payload, err := json.Marshal(subscribeRequest{Email: email, Tags: tags})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+b.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("buttondown: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("buttondown: read response: %w", err)
	}
	var data buttondownResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("buttondown: decode status=%d: %w", resp.StatusCode, err)
	}
	return &ProviderResponse{
		Status: resp.StatusCode,
		Code:   data.Code,
		Detail: detailString(data.Detail),
	}, nil
}

func detailString(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case []any:
		parts := make([]string, 0, len(d))
		for _, item := range d {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
