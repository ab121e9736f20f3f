package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/bastionsec-io/bastion-client/internal/constants"
	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// TokenManager provides bearer tokens for the HTTP transport.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// StaticTokenManager serves a fixed token.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a manager around an existing token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the static token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

// RefreshToken fails; a static token has nothing to refresh against.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return bastion.ErrStaticToken
}

// SetToken replaces the token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// loginResponse is the platform's answer to the login call.
type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// LoginTokenManager obtains bearer tokens from the platform login endpoint
// using username/password, renewing them shortly before they expire.
type LoginTokenManager struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// LoginConfig configures a LoginTokenManager.
type LoginConfig struct {
	BaseURL  string
	Username string
	Password string

	// HTTPClient used for the login call only; defaults to a pooled client.
	HTTPClient *http.Client
}

// NewLoginTokenManager creates a login-backed token manager.
func NewLoginTokenManager(config *LoginConfig) *LoginTokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = constants.ShortHTTPTimeout
	}

	return &LoginTokenManager{
		baseURL:    config.BaseURL,
		username:   config.Username,
		password:   config.Password,
		httpClient: httpClient,
	}
}

// GetToken returns a live token, logging in when none is held or the held
// one is about to expire.
func (m *LoginTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && (m.expiresAt.IsZero() || time.Now().Before(m.expiresAt.Add(-constants.TokenLeeway))) {
		return m.token, nil
	}

	if err := m.loginLocked(ctx); err != nil {
		return "", err
	}

	return m.token, nil
}

// RefreshToken discards the held token and logs in again.
func (m *LoginTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""

	return m.loginLocked(ctx)
}

// SetToken installs a token obtained elsewhere.
func (m *LoginTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.expiresAt = expiresAt
}

func (m *LoginTokenManager) loginLocked(ctx context.Context) error {
	loginURL := m.baseURL + "/securitymanager/api/authentication/login"

	payload, err := json.Marshal(map[string]string{
		"username": m.username,
		"password": m.password,
	})
	if err != nil {
		return fmt.Errorf("encoding login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return &bastion.TransportError{Op: http.MethodPost, URL: loginURL, Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &bastion.AuthError{StatusCode: resp.StatusCode, Payload: body}
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return fmt.Errorf("parsing login response: %w", err)
	}

	m.token = login.Token

	if login.ExpiresIn > 0 {
		m.expiresAt = time.Now().Add(time.Duration(login.ExpiresIn) * time.Second)
	} else {
		m.expiresAt = time.Time{}
	}

	return nil
}
