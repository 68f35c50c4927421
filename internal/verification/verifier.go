// Package verification checks proof-of-humanity tokens against an external
// siteverify-style provider. Every failure mode is treated as a rejection.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comment-gateway-api/internal/config"
	"github.com/rs/zerolog"
)

// Result is the outcome of a verification attempt
type Result int

const (
	// Unavailable means the provider could not give a verdict: network error,
	// timeout, bad status or malformed body. Treated as a rejection.
	Unavailable Result = iota
	// Rejected means the provider answered and refused the token
	Rejected
	// Verified means the provider accepted the token
	Verified
)

func (r Result) String() string {
	switch r {
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// OK reports whether the request may proceed
func (r Result) OK() bool {
	return r == Verified
}

// Verifier validates a one-time verification token
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) Result
}

// maxResponseBytes caps how much of the provider's response is read
const maxResponseBytes = 64 << 10

type siteverifyResponse struct {
	Success    *bool    `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
}

// httpVerifier is the concrete implementation of Verifier
type httpVerifier struct {
	endpoint string
	secret   string
	timeout  time.Duration
	client   *http.Client
	log      zerolog.Logger
}

// NewHTTPVerifier creates a Verifier that posts tokens to the configured
// provider endpoint using the server's shared secret.
func NewHTTPVerifier(cfg config.VerificationConfig, client *http.Client, log zerolog.Logger) Verifier {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &httpVerifier{
		endpoint: cfg.URL,
		secret:   cfg.Secret,
		timeout:  cfg.Timeout,
		client:   client,
		log:      log.With().Str("component", "verification").Logger(),
	}
}

// Verify sends token to the provider and interprets its success field
func (v *httpVerifier) Verify(ctx context.Context, token, remoteIP string) Result {
	if v.secret == "" {
		v.log.Error().Msg("Verification secret not configured, rejecting")
		return Unavailable
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		v.log.Error().Err(err).Msg("Failed to build verification request")
		return Unavailable
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.Warn().Err(err).Msg("Verification provider unreachable")
		return Unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		v.log.Warn().Int("status", resp.StatusCode).Msg("Verification provider returned non-success status")
		return Unavailable
	}

	parsed, err := decodeResponse(resp.Body)
	if err != nil {
		v.log.Warn().Err(err).Msg("Malformed verification response")
		return Unavailable
	}

	if !*parsed.Success {
		v.log.Debug().Strs("error_codes", parsed.ErrorCodes).Msg("Verification token rejected")
		return Rejected
	}

	return Verified
}

func decodeResponse(body io.Reader) (*siteverifyResponse, error) {
	var parsed siteverifyResponse
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBytes)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode verification response: %w", err)
	}
	if parsed.Success == nil {
		return nil, fmt.Errorf("verification response missing success field")
	}
	return &parsed, nil
}
