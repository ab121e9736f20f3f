package bsclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
	"github.com/bastionsec-io/bastion-client/pkg/bsclient"
)

// platformServer fakes the login, version and domain endpoints a client
// touches while connecting.
func platformServer(t *testing.T, serverVersion string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/securitymanager/api/authentication/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token": "issued-token", "expiresIn": 3600}`))
	})
	mux.HandleFunc("/securitymanager/api/version", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"serverVersion": "` + serverVersion + `", "apiVersion": "v1"}`))
	})
	mux.HandleFunc("/securitymanager/api/domain/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1, "name": "Enterprise"}`))
	})

	return httptest.NewServer(mux)
}

func TestNew_ConfigValidation(t *testing.T) {
	ctx := context.Background()

	_, err := bsclient.New(ctx, nil)
	require.ErrorIs(t, err, bastion.ErrHostRequired)

	_, err = bsclient.New(ctx, &bastion.Config{})
	require.ErrorIs(t, err, bastion.ErrHostRequired)

	_, err = bsclient.New(ctx, &bastion.Config{Host: "bastion.example.com"})
	require.ErrorIs(t, err, bastion.ErrNoCredentials)
}

func TestNew_PasswordLogin(t *testing.T) {
	server := platformServer(t, "10.1.0")
	defer server.Close()

	client, err := bsclient.New(context.Background(), &bastion.Config{
		Host:     server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)

	require.NotNil(t, client.Version())
	assert.Equal(t, "10.1.0", client.Version().String())
	assert.Equal(t, 1, client.Domain())
}

func TestNew_StaticToken(t *testing.T) {
	server := platformServer(t, "10.1.0")
	defer server.Close()

	client, err := bsclient.NewWithToken(context.Background(), server.URL, "abc123")
	require.NoError(t, err)

	info, err := client.VersionInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.1.0", info.ServerVersion)
}

func TestNew_SkipVersionCheck(t *testing.T) {
	// No server behind this address; the probe must not run.
	client, err := bsclient.New(context.Background(), &bastion.Config{
		Host:             "bastion.invalid",
		Token:            "abc123",
		SkipVersionCheck: true,
	})
	require.NoError(t, err)
	assert.Nil(t, client.Version())
}

func TestNew_RejectsOldServer(t *testing.T) {
	server := platformServer(t, "8.5.2")
	defer server.Close()

	_, err := bsclient.NewWithToken(context.Background(), server.URL, "abc123")
	require.Error(t, err)
	assert.True(t, bastion.IsConfiguration(err))
	assert.Contains(t, err.Error(), "8.5.2")
}

func TestNew_UnparsableServerVersion(t *testing.T) {
	server := platformServer(t, "not-a-version")
	defer server.Close()

	_, err := bsclient.NewWithToken(context.Background(), server.URL, "abc123")
	require.Error(t, err)
	assert.True(t, bastion.IsConfiguration(err))
}

func TestNew_DomainVerifyFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/securitymanager/api/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"serverVersion": "10.1.0"}`))
	})
	mux.HandleFunc("/securitymanager/api/domain/7", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "domain not found"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := bsclient.New(context.Background(), &bastion.Config{
		Host:     server.URL,
		Token:    "abc123",
		DomainID: 7,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, bastion.StatusOf(err))
}

func TestNewWithPassword(t *testing.T) {
	server := platformServer(t, "10.1.0")
	defer server.Close()

	client, err := bsclient.NewWithPassword(context.Background(), server.URL, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "securitymanager", client.SecurityManager().Name())
}
