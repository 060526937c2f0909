// Error types and handling
package llm

import "errors"

// Error kinds. Every error surfaced by a provider adapter or the factory
// carries exactly one of these in its Type field.
const (
	// ErrorTypeConfiguration indicates missing or invalid credentials,
	// endpoint, or request shape. No network call was attempted.
	ErrorTypeConfiguration = "configuration_error"

	// ErrorTypeProviderRequest indicates the network call itself failed:
	// timeout, connection refused, or the request could not be built.
	ErrorTypeProviderRequest = "provider_request_error"

	// ErrorTypeProviderResponse indicates the provider returned an error
	// payload (rate limit, invalid model, content policy rejection).
	// The provider's original message is preserved in Message.
	ErrorTypeProviderResponse = "provider_response_error"
)

// Error represents a standardized LLM error
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewConfigurationError creates an error for missing or invalid configuration
func NewConfigurationError(code, message string) *Error {
	return &Error{Code: code, Message: message, Type: ErrorTypeConfiguration}
}

// NewProviderRequestError creates an error for a failed network call
func NewProviderRequestError(code, message string) *Error {
	return &Error{Code: code, Message: message, Type: ErrorTypeProviderRequest}
}

// NewProviderResponseError creates an error for a provider-reported failure,
// preserving the provider's message and HTTP status
func NewProviderResponseError(code, message string, statusCode int) *Error {
	return &Error{Code: code, Message: message, Type: ErrorTypeProviderResponse, StatusCode: statusCode}
}

// IsConfigurationError reports whether err is a configuration error
func IsConfigurationError(err error) bool {
	return errorIsType(err, ErrorTypeConfiguration)
}

// IsProviderRequestError reports whether err is a failed network call
func IsProviderRequestError(err error) bool {
	return errorIsType(err, ErrorTypeProviderRequest)
}

// IsProviderResponseError reports whether err is a provider-reported failure
func IsProviderResponseError(err error) bool {
	return errorIsType(err, ErrorTypeProviderResponse)
}

func errorIsType(err error, errorType string) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type == errorType
	}
	return false
}
