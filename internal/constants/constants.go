package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 20 * time.Second

	// ShortHTTPTimeout is used for quick probes like the version fetch.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits for the underlying HTTP client.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum backoff between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Platform defaults.
const (
	// DefaultDomainID is the security domain used when none is configured.
	DefaultDomainID = 1

	// DefaultPageSize is the page size used when walking collections.
	DefaultPageSize = 100

	// MinimumServerVersion is the oldest platform release the library is
	// tested against.
	MinimumServerVersion = "9.0.0"

	// TokenLeeway is subtracted from token lifetimes so a token is renewed
	// before it actually expires.
	TokenLeeway = 30 * time.Second
)
