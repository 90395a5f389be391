package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"aquaview/internal/platform/config"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/platform/gateway"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() string { return s.token }

type fixedID struct{}

func (fixedID) New() string { return "req-1" }

func newClient(t *testing.T, baseURL, token string) *gateway.Client {
	t.Helper()
	cfg := config.Config{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		DefaultHeaders: map[string]string{"X-Client": "aquaview-test"},
	}
	return gateway.New(cfg, staticTokens{token: token}, fixedID{})
}

func TestBearerAttachedOnlyWithActiveSession(t *testing.T) {
	t.Parallel()
	var gotAuth, gotRequestID, gotDefault string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotDefault = r.Header.Get("X-Client")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	out := map[string]any{}
	if err := newClient(t, srv.URL, "abc").GetJSON(context.Background(), "/api/ping", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID != "req-1" || gotDefault != "aquaview-test" {
		t.Fatalf("missing request id or default header: %q %q", gotRequestID, gotDefault)
	}

	if err := newClient(t, srv.URL, "").GetJSON(context.Background(), "/api/ping", nil, &out); err != nil {
		t.Fatalf("get without session: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header without a session, got %q", gotAuth)
	}
}

func TestFailureClassification(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Invalid token"}`, apperrors.ErrUnauthorized},
		{"not found is no data", http.StatusNotFound, `{"detail":"No records found"}`, apperrors.ErrNoData},
		{"structured 4xx is validation", http.StatusUnprocessableEntity, `{"detail":"pH out of range"}`, apperrors.ErrValidation},
		{"server error", http.StatusInternalServerError, ``, apperrors.ErrServerUnavailable},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := newClient(t, srv.URL, "t").GetJSON(context.Background(), "/api/x", nil, &map[string]any{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidationDetailSurfacedVerbatim(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Prediction failed: BOD must be numeric"}`))
	}))
	defer srv.Close()

	err := newClient(t, srv.URL, "t").GetJSON(context.Background(), "/api/x", nil, &map[string]any{})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Prediction failed: BOD must be numeric") {
		t.Fatalf("detail not surfaced verbatim: %v", err)
	}
}

func TestNetworkFailureIsServerUnavailable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	err := newClient(t, srv.URL, "t").GetJSON(context.Background(), "/api/x", nil, &map[string]any{})
	if !errors.Is(err, apperrors.ErrServerUnavailable) {
		t.Fatalf("expected server unavailable, got %v", err)
	}
}

func TestEmptyPayloadIsNoData(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL, "t").GetJSON(context.Background(), "/api/x", nil, &map[string]any{})
	if !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("expected no data, got %v", err)
	}
}

func TestPostFormEncodesFields(t *testing.T) {
	t.Parallel()
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err == nil {
			gotBody = r.PostForm.Encode()
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	form := url.Values{}
	form.Set("username", "u1")
	form.Set("password", "p1")
	form.Set("mc_code", "MC01")
	out := map[string]any{}
	if err := newClient(t, srv.URL, "").PostForm(context.Background(), "/api/login", form, &out); err != nil {
		t.Fatalf("post form: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if !strings.Contains(gotBody, "mc_code=MC01") {
		t.Fatalf("form fields not encoded: %q", gotBody)
	}
}
