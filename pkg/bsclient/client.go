// Package bsclient provides the main entry point for creating Bastion API clients.
package bsclient

import (
	"context"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/bastionsec-io/bastion-client/internal/auth"
	"github.com/bastionsec-io/bastion-client/internal/client"
	"github.com/bastionsec-io/bastion-client/internal/constants"
	internalhttp "github.com/bastionsec-io/bastion-client/internal/http"
	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// New creates a new Bastion API client from config. Unless
// config.SkipVersionCheck is set it probes the server version, enforces the
// minimum supported release, and verifies the working domain exists.
func New(ctx context.Context, config *bastion.Config) (bastion.Client, error) {
	if config == nil || config.Host == "" {
		return nil, bastion.ErrHostRequired
	}

	baseURL := normalizeHost(config.Host)

	tokenManager, err := buildTokenManager(baseURL, config)
	if err != nil {
		return nil, err
	}

	httpClient := internalhttp.NewClient(baseURL, tokenManager, transportOptions(config)...)

	domainID := config.DomainID
	if domainID == 0 {
		domainID = constants.DefaultDomainID
	}

	bastionClient := client.New(httpClient, domainID)

	if !config.SkipVersionCheck {
		err := verifyServer(ctx, bastionClient, domainID)
		if err != nil {
			return nil, err
		}
	}

	return bastionClient, nil
}

// NewWithToken creates a client using a static bearer token.
func NewWithToken(ctx context.Context, host, token string) (bastion.Client, error) {
	return New(ctx, &bastion.Config{
		Host:  host,
		Token: token,
	})
}

// NewWithPassword creates a client using username/password authentication.
func NewWithPassword(ctx context.Context, host, username, password string) (bastion.Client, error) {
	return New(ctx, &bastion.Config{
		Host:     host,
		Username: username,
		Password: password,
	})
}

// normalizeHost turns a bare host into a full https base URL and strips any
// trailing slash.
func normalizeHost(host string) string {
	baseURL := strings.TrimSuffix(host, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

func buildTokenManager(baseURL string, config *bastion.Config) (auth.TokenManager, error) {
	switch {
	case config.Token != "":
		return auth.NewStaticTokenManager(config.Token), nil
	case config.Username != "" && config.Password != "":
		return auth.NewLoginTokenManager(&auth.LoginConfig{
			BaseURL:    baseURL,
			Username:   config.Username,
			Password:   config.Password,
			HTTPClient: config.HTTPClient,
		}), nil
	default:
		return nil, bastion.ErrNoCredentials
	}
}

func transportOptions(config *bastion.Config) []internalhttp.Option {
	opts := []internalhttp.Option{
		internalhttp.WithSkipTLSVerify(config.SkipTLSVerify),
	}

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 || config.RetryWaitMin > 0 || config.RetryWaitMax > 0 {
		retryMax := config.RetryMax
		if retryMax == 0 {
			retryMax = constants.DefaultRetryMax
		}

		waitMin := config.RetryWaitMin
		if waitMin == 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax == 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, internalhttp.WithRetryConfig(retryMax, waitMin, waitMax))
	}

	if config.HTTPClient != nil {
		opts = append(opts, internalhttp.WithHTTPClient(config.HTTPClient))
	}

	if config.Cache != nil {
		opts = append(opts, internalhttp.WithCache(config.Cache))
	}

	return opts
}

// verifyServer checks the server release against the minimum supported
// version and confirms the working domain is readable.
func verifyServer(ctx context.Context, c *client.Client, domainID int) error {
	info, err := c.VersionInfo(ctx)
	if err != nil {
		return err
	}

	serverVersion, err := goversion.NewVersion(info.ServerVersion)
	if err != nil {
		return &bastion.ConfigurationError{
			Operation: "version check",
			Message:   fmt.Sprintf("cannot parse server version %q: %v", info.ServerVersion, err),
		}
	}

	minimum := goversion.Must(goversion.NewVersion(constants.MinimumServerVersion))
	if serverVersion.LessThan(minimum) {
		return &bastion.ConfigurationError{
			Operation: "version check",
			Message: fmt.Sprintf("server version %s is below the minimum supported %s",
				serverVersion, minimum),
		}
	}

	c.SetVersion(serverVersion)

	_, err = c.VerifyDomain(ctx, domainID)
	if err != nil {
		return err
	}

	return nil
}
