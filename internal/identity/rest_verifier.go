package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/authbridge/domain"
)

// SignInPath is the identity toolkit password sign-in operation, relative
// to the configured base URL.
var SignInPath = "/v1/accounts:signInWithPassword"

// RESTVerifier verifies credentials against an Identity Toolkit style
// provider over HTTPS. Any rejection, malformed response or timeout
// surfaces as domain.ErrInvalidCredentials so that callers cannot
// distinguish "wrong password" from "unknown user" or a provider outage.
// The provider's own error text is logged server-side only.
type RESTVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRESTVerifier creates a verifier with its own bounded-timeout client.
func NewRESTVerifier(baseURL, apiKey string, timeout time.Duration) *RESTVerifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RESTVerifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

// Verify implements Verifier.
func (v *RESTVerifier) Verify(ctx context.Context, email, password string) (*domain.Principal, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	url := v.baseURL + SignInPath + "?key=" + v.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Identity provider unreachable")
		return nil, fmt.Errorf("%w: provider unreachable", domain.ErrInvalidCredentials)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Identity provider rejected credentials")
		return nil, fmt.Errorf("%w: provider status %d", domain.ErrInvalidCredentials, resp.StatusCode)
	}

	var signIn signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&signIn); err != nil {
		log.Warn().Err(err).Msg("Failed to decode identity provider response")
		return nil, fmt.Errorf("%w: malformed provider response", domain.ErrInvalidCredentials)
	}
	if signIn.LocalID == "" {
		return nil, fmt.Errorf("%w: provider returned no uid", domain.ErrInvalidCredentials)
	}

	return &domain.Principal{
		UID:   signIn.LocalID,
		Email: signIn.Email,
	}, nil
}

var _ Verifier = (*RESTVerifier)(nil)
