package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sip-protocol/blog-sip/internal/logger"
)

type fakeProvider struct {
	resp  *ProviderResponse
	err   error
	calls int
	email string
	tags  []string
}

func (f *fakeProvider) Subscribe(_ context.Context, email string, tags []string) (*ProviderResponse, error) {
	f.calls++
	f.email = email
	f.tags = tags
	return f.resp, f.err
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		body      string
		provider  *fakeProvider
		status    int
		want      Body
		wantCalls int
	}{
		{
			name:     "not configured",
			body:     `{"email":"a@b.co"}`,
			provider: &fakeProvider{},
			status:   http.StatusServiceUnavailable,
			want:     Body{Error: MsgNotConfigured},
		},
		{
			name:     "malformed json",
			apiKey:   "k",
			body:     `{"email":`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidBody},
		},
		{
			name:     "null body",
			apiKey:   "k",
			body:     `null`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidBody},
		},
		{
			name:     "missing email",
			apiKey:   "k",
			body:     `{}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgEmailRequired},
		},
		{
			name:     "email not a string",
			apiKey:   "k",
			body:     `{"email":42}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgEmailRequired},
		},
		{
			name:     "empty email",
			apiKey:   "k",
			body:     `{"email":""}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgEmailRequired},
		},
		{
			name:     "invalid email",
			apiKey:   "k",
			body:     `{"email":"not-an-email"}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidEmail},
		},
		{
			name:     "email with space",
			apiKey:   "k",
			body:     `{"email":"a b@c.io"}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidEmail},
		},
		{
			name:     "email with no-break space",
			apiKey:   "k",
			body:     `{"email":"a\u00a0b@c.io"}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidEmail},
		},
		{
			name:     "email with ideographic space in domain",
			apiKey:   "k",
			body:     `{"email":"a@b\u3000c.io"}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidEmail},
		},
		{
			name:     "email with byte order mark",
			apiKey:   "k",
			body:     `{"email":"\ufeffa@c.io"}`,
			provider: &fakeProvider{},
			status:   http.StatusBadRequest,
			want:     Body{Error: MsgInvalidEmail},
		},
		{
			name:      "success",
			apiKey:    "k",
			body:      `{"email":"a@b.co"}`,
			provider:  &fakeProvider{resp: &ProviderResponse{Status: http.StatusCreated}},
			status:    http.StatusOK,
			want:      Body{Success: true, Message: MsgSubscribed},
			wantCalls: 1,
		},
		{
			name:      "already subscribed",
			apiKey:    "k",
			body:      `{"email":"a@b.co"}`,
			provider:  &fakeProvider{resp: &ProviderResponse{Status: http.StatusBadRequest, Code: CodeAlreadyExists}},
			status:    http.StatusConflict,
			want:      Body{Error: MsgAlreadyExists},
			wantCalls: 1,
		},
		{
			name:      "provider detail passthrough",
			apiKey:    "k",
			body:      `{"email":"a@b.co"}`,
			provider:  &fakeProvider{resp: &ProviderResponse{Status: http.StatusTooManyRequests, Detail: "Slow down"}},
			status:    http.StatusTooManyRequests,
			want:      Body{Error: "Slow down"},
			wantCalls: 1,
		},
		{
			name:      "provider failure without detail",
			apiKey:    "k",
			body:      `{"email":"a@b.co"}`,
			provider:  &fakeProvider{resp: &ProviderResponse{Status: http.StatusBadGateway}},
			status:    http.StatusBadGateway,
			want:      Body{Error: MsgFailed},
			wantCalls: 1,
		},
		{
			name:      "transport failure",
			apiKey:    "k",
			body:      `{"email":"a@b.co"}`,
			provider:  &fakeProvider{err: errors.New("dial tcp: connection refused")},
			status:    http.StatusInternalServerError,
			want:      Body{Error: MsgUnexpected},
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Handle(context.Background(), tt.apiKey, []byte(tt.body), tt.provider)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.want, got.Body)
			assert.Equal(t, tt.wantCalls, tt.provider.calls)
		})
	}
}

func TestHandleSendsBlogTag(t *testing.T) {
	p := &fakeProvider{resp: &ProviderResponse{Status: http.StatusCreated}}
	Handle(context.Background(), "k", []byte(`{"email":"reader@example.com"}`), p)
	assert.Equal(t, "reader@example.com", p.email)
	assert.Equal(t, []string{"blog"}, p.tags)
}

func TestSubscribeErrorKinds(t *testing.T) {
	err := Subscribe(context.Background(), "", nil, &fakeProvider{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = Subscribe(context.Background(), "k", []byte(`{}`), &fakeProvider{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, MsgEmailRequired, reqErr.Message)

	err = Subscribe(context.Background(), "k", []byte(`{"email":"a@b.co"}`),
		&fakeProvider{resp: &ProviderResponse{Status: 400, Code: "x"}})
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 400, upErr.Status)
}

func TestBodyJSONOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(Body{Error: MsgInvalidEmail})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Invalid email format"}`, string(raw))

	raw, err = json.Marshal(Body{Success: true, Message: MsgSubscribed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"Successfully subscribed! Check your email to confirm."}`, string(raw))
}

func TestButtondownSubscribe(t *testing.T) {
	var gotAuth, gotPath, gotRequestID string
	var gotBody subscribeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-Id")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"sub_1","email":"a@b.co"}`))
	}))
	defer srv.Close()

	b := NewButtondown("secret", srv.URL, NewHTTPClient(0))
	ctx := logger.WithRequestID(context.Background(), "req-1")
	resp, err := b.Subscribe(ctx, "a@b.co", DefaultTags)
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "Token secret", gotAuth)
	assert.Equal(t, "/v1/subscribers", gotPath)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, subscribeRequest{Email: "a@b.co", Tags: []string{"blog"}}, gotBody)
}

func TestButtondownErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantDetail string
		wantErr    bool
	}{
		{"already exists", 400, `{"code":"email_already_exists","detail":"That email is taken."}`, CodeAlreadyExists, "That email is taken.", false},
		{"detail list", 422, `{"detail":["bad email","try again"]}`, "", "bad email; try again", false},
		{"not json", 502, `<html>bad gateway</html>`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := NewButtondown("k", srv.URL, nil).Subscribe(context.Background(), "a@b.co", DefaultTags)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantDetail, resp.Detail)
		})
	}
}

func TestButtondownEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"email_already_exists"}`))
	}))
	defer srv.Close()

	got := Handle(context.Background(), "k", []byte(`{"email":"a@b.co"}`), NewButtondown("k", srv.URL, nil))
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, MsgAlreadyExists, got.Body.Error)
}
