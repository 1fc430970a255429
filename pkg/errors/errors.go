package errors

import "errors"

// Reason codes shared by the assistant core, its adapters and clients.
const (
	CodeProviderUnavailable       = "provider_unavailable"
	CodeLocationNotRecognized     = "location_not_recognized"
	CodeRateLimited               = "rate_limited"
	CodeMalformedProviderResponse = "malformed_provider_response"
	CodeInvalidInput              = "invalid_input"

	// CodeStatsUnavailable is internal to the server and never reaches a chat response.
	CodeStatsUnavailable = "stats_error"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost AppError in the chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the AppError message without the wrapped cause.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
