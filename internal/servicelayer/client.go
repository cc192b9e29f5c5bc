package servicelayer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/authbridge/domain"
)

// LoginPath is the service layer's own login operation, relative to the
// configured base URL.
var LoginPath = "/Login"

// Credentials are the fixed, operator-configured service account used to
// authenticate against the service layer. They are never the end user's.
type Credentials struct {
	CompanyDB string
	UserName  string
	Password  string
}

// Client establishes sessions against the legacy service layer. When the
// target presents an untrusted certificate chain, trust relaxation is
// scoped to this client's own transport, never process-wide.
type Client struct {
	baseURL string
	creds   Credentials
	client  *http.Client
}

// NewClient creates a service layer client with a bounded-timeout HTTP
// client of its own.
func NewClient(baseURL string, creds Credentials, timeout time.Duration, insecureTLS bool) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // scoped to this transport, operator opt-in
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type loginRequest struct {
	CompanyDB string `json:"CompanyDB"`
	UserName  string `json:"UserName"`
	Password  string `json:"Password"`
}

type loginResponse struct {
	SessionID string `json:"SessionId"`
}

// Login authenticates the service account and returns the opaque session
// identifier. Transient failures (transport errors and 5xx statuses) are
// retried exactly once; rejections are not.
func (c *Client) Login(ctx context.Context) (*domain.ServiceSession, error) {
	session, transient, err := c.loginOnce(ctx)
	if err != nil && transient {
		log.Warn().Err(err).Msg("Service layer login failed transiently, retrying once")
		session, _, err = c.loginOnce(ctx)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c *Client) loginOnce(ctx context.Context) (*domain.ServiceSession, bool, error) {
	body, err := json.Marshal(loginRequest{
		CompanyDB: c.creds.CompanyDB,
		UserName:  c.creds.UserName,
		Password:  c.creds.Password,
	})
	if err != nil {
		return nil, false, fmt.Errorf("marshal service layer login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build service layer login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrServiceLayer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Service layer rejected login")
		return nil, resp.StatusCode >= 500, fmt.Errorf("%w: status %d", domain.ErrServiceLayer, resp.StatusCode)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, false, fmt.Errorf("%w: malformed response", domain.ErrServiceLayer)
	}
	if login.SessionID == "" {
		return nil, false, fmt.Errorf("%w: empty session id", domain.ErrServiceLayer)
	}

	return &domain.ServiceSession{SessionID: login.SessionID}, false, nil
}
