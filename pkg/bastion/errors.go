package bastion

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TransportError indicates the request never produced an HTTP response,
// typically a connection or DNS failure.
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError indicates the platform rejected the request credentials (401)
// or the authenticated principal lacks permission (403).
type AuthError struct {
	StatusCode int
	Payload    json.RawMessage
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed with status %d", e.StatusCode)
}

// APIError represents any other server-reported failure. It carries the
// original status and raw payload for diagnosis.
type APIError struct {
	StatusCode int
	Message    string
	Payload    json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("API error %d", e.StatusCode)
}

// ValidationError indicates the server rejected request parameters or a
// payload, or the call was malformed before it was sent.
type ValidationError struct {
	StatusCode int
	Message    string
	Payload    json.RawMessage
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("validation failed with status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError indicates a lookup matched no resource.
type NotFoundError struct {
	Resource string
	Key      string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// AmbiguousResultError indicates a single-result lookup matched more than
// one resource.
type AmbiguousResultError struct {
	Resource string
	Key      string
	Matches  int
}

// Error implements the error interface.
func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("lookup of %s %q matched %d results, use Filter or All instead",
		e.Resource, e.Key, e.Matches)
}

// ConfigurationError indicates a dynamic operation template could not be
// resolved with the supplied arguments.
type ConfigurationError struct {
	Operation string
	Message   string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("operation %q misconfigured: %s", e.Operation, e.Message)
}

// Static errors that can be wrapped with context.
var (
	ErrRecordInvalid    = errors.New("record was deleted and is no longer usable")
	ErrRecordNoID       = errors.New("record has no id field")
	ErrRecordDetached   = errors.New("record is not bound to an endpoint")
	ErrEndpointReadOnly = errors.New("endpoint is read-only")
	ErrHostRequired     = errors.New("host is required")
	ErrNoCredentials    = errors.New("username/password or token is required")
	ErrNoTokenManager   = errors.New("no token manager configured")
	ErrStaticToken      = errors.New("static token cannot be refreshed")
	ErrCacheDisabled    = errors.New("cache disabled")
	ErrCacheMiss        = errors.New("key not found in cache")
	ErrUnsupportedType  = errors.New("unsupported cache type")
	ErrNATSConfig       = errors.New("NATS configuration required for NATS cache")
)

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError

	return errors.As(err, &te)
}

// IsAuth reports whether err is a credential or permission failure.
func IsAuth(err error) bool {
	var ae *AuthError

	return errors.As(err, &ae)
}

// IsNotFound reports whether err indicates zero matches.
func IsNotFound(err error) bool {
	var nfe *NotFoundError

	return errors.As(err, &nfe)
}

// IsAmbiguous reports whether err indicates multiple matches where one was
// expected.
func IsAmbiguous(err error) bool {
	var are *AmbiguousResultError

	return errors.As(err, &are)
}

// IsValidation reports whether err indicates rejected parameters or payload.
func IsValidation(err error) bool {
	var ve *ValidationError

	return errors.As(err, &ve)
}

// IsConfiguration reports whether err indicates a malformed dynamic
// operation call.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError

	return errors.As(err, &ce)
}

// StatusOf extracts the HTTP status carried by a server-reported error, or
// zero when err carries none.
func StatusOf(err error) int {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.StatusCode
	}

	return 0
}
