package bastion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Fields is the schemaless payload of one resource instance as returned by
// the platform.
type Fields map[string]interface{}

// Page is the platform's list envelope. Collection endpoints return their
// results wrapped in it; page numbers are zero-based.
type Page struct {
	Total    int               `json:"total"    yaml:"total"`
	Page     int               `json:"page"     yaml:"page"`
	PageSize int               `json:"pageSize" yaml:"pageSize"`
	Count    int               `json:"count"    yaml:"count"`
	Results  []json.RawMessage `json:"results"  yaml:"results"`
}

// VersionInfo is the response of the platform version endpoint.
type VersionInfo struct {
	ServerVersion string `json:"serverVersion" yaml:"serverVersion"`
	APIVersion    string `json:"apiVersion"    yaml:"apiVersion"`
	Build         string `json:"build"         yaml:"build"`
}

// DomainInfo describes one security domain.
type DomainInfo struct {
	ID          int    `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Request describes one HTTP call to the platform.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers http.Header
}

// Response is the decoded result of one HTTP call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Doer issues requests against the platform. internal/http.Client is the
// canonical implementation; tests substitute their own.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Logger is the structured logging hook used throughout the library. Pass
// an implementation via Config; nil disables logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config carries everything needed to build a Client.
type Config struct {
	// Host is the platform host or full base URL. A bare host is normalized
	// to "https://<host>".
	Host string `mapstructure:"host" yaml:"host"`

	// Username and Password authenticate against the platform login
	// endpoint, which issues the bearer token used on every call.
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// Token, when set, is used directly as a static bearer token instead of
	// the login flow.
	Token string `mapstructure:"token" yaml:"token"`

	// DomainID selects the working security domain. Zero means domain 1.
	DomainID int `mapstructure:"domain_id" yaml:"domain_id"`

	// SkipTLSVerify disables certificate verification. Replaces the old
	// global warning-suppression toggle; scoped to this client only.
	SkipTLSVerify bool `mapstructure:"skip_tls_verify" yaml:"skip_tls_verify"`

	// SkipVersionCheck skips the version and domain probes during
	// construction.
	SkipVersionCheck bool `mapstructure:"skip_version_check" yaml:"skip_version_check"`

	// HTTPTimeout bounds each request when no context deadline is set.
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`

	// Retry knobs for the underlying HTTP client. Zero values use defaults.
	RetryMax     int           `mapstructure:"retry_max"      yaml:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min" yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max" yaml:"retry_wait_max"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// Debug enables request/response logging through Logger.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// Logger receives structured log events. Optional.
	Logger Logger `mapstructure:"-" yaml:"-"`

	// HTTPClient substitutes a custom *http.Client for the transport's
	// default pooled client. Optional.
	HTTPClient *http.Client `mapstructure:"-" yaml:"-"`

	// Cache is an optional read cache for GET responses.
	Cache Cache `mapstructure:"-" yaml:"-"`
}
