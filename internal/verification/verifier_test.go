package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comment-gateway-api/internal/config"
	"github.com/rs/zerolog"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc, secret string, timeout time.Duration) Verifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.VerificationConfig{
		Secret:  secret,
		URL:     srv.URL,
		Timeout: timeout,
	}
	return NewHTTPVerifier(cfg, srv.Client(), zerolog.Nop())
}

func TestVerify_Success(t *testing.T) {
	var gotSecret, gotToken, gotIP string
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		r.ParseForm()
		gotSecret = r.PostForm.Get("secret")
		gotToken = r.PostForm.Get("response")
		gotIP = r.PostForm.Get("remoteip")
		w.Write([]byte(`{"success": true, "hostname": "example"}`))
	}, "s3cret", time.Second)

	result := v.Verify(context.Background(), "tok-123", "203.0.113.9")
	if result != Verified {
		t.Fatalf("Expected Verified, got %s", result)
	}
	if !result.OK() {
		t.Error("Verified result should be OK")
	}
	if gotSecret != "s3cret" || gotToken != "tok-123" || gotIP != "203.0.113.9" {
		t.Errorf("Unexpected form: secret=%q token=%q ip=%q", gotSecret, gotToken, gotIP)
	}
}

func TestVerify_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Result
	}{
		{name: "provider rejects", status: http.StatusOK, body: `{"success": false, "error-codes": ["invalid-input-response"]}`, want: Rejected},
		{name: "malformed json", status: http.StatusOK, body: `not json`, want: Unavailable},
		{name: "missing success field", status: http.StatusOK, body: `{"hostname": "x"}`, want: Unavailable},
		{name: "server error", status: http.StatusInternalServerError, body: `{"success": true}`, want: Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "secret", time.Second)

			result := v.Verify(context.Background(), "token", "")
			if result != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, result)
			}
			if result.OK() {
				t.Error("Non-verified result must not be OK")
			}
		})
	}
}

func TestVerify_TimeoutFailsClosed(t *testing.T) {
	release := make(chan struct{})
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"success": true}`))
	}, "secret", 50*time.Millisecond)
	defer close(release)

	start := time.Now()
	result := v.Verify(context.Background(), "token", "")
	if result != Unavailable {
		t.Errorf("Expected Unavailable on timeout, got %s", result)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Verify should honour its timeout, took %v", elapsed)
	}
}

func TestVerify_UnreachableFailsClosed(t *testing.T) {
	cfg := config.VerificationConfig{
		Secret:  "secret",
		URL:     "http://127.0.0.1:1/siteverify",
		Timeout: time.Second,
	}
	v := NewHTTPVerifier(cfg, nil, zerolog.Nop())

	if result := v.Verify(context.Background(), "token", ""); result != Unavailable {
		t.Errorf("Expected Unavailable, got %s", result)
	}
}

func TestVerify_MissingSecretFailsClosed(t *testing.T) {
	called := false
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"success": true}`))
	}, "", time.Second)

	if result := v.Verify(context.Background(), "token", ""); result != Unavailable {
		t.Errorf("Expected Unavailable without secret, got %s", result)
	}
	if called {
		t.Error("Provider should not be called without a secret")
	}
}
