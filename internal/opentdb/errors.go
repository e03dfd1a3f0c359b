package opentdb

import (
	"fmt"

	"github.com/abhisek/trivia/internal/trivia"
)

// Response codes returned in the response_code field of api.php.
const (
	CodeSuccess          = 0
	CodeNoResults        = 1
	CodeInvalidParameter = 2
	CodeTokenNotFound    = 3
	CodeTokenEmpty       = 4
	CodeRateLimit        = 5
)

// ResponseCodeError is a non-zero response_code from the question endpoint.
// It unwraps to trivia.ErrNoMatchingQuestions or trivia.ErrProviderUnavailable.
type ResponseCodeError struct {
	Code int
}

func (e *ResponseCodeError) Error() string {
	return fmt.Sprintf("opentdb response code %d (%s)", e.Code, codeText(e.Code))
}

func (e *ResponseCodeError) Unwrap() error {
	switch e.Code {
	case CodeNoResults, CodeInvalidParameter, CodeTokenEmpty:
		return trivia.ErrNoMatchingQuestions
	default:
		return trivia.ErrProviderUnavailable
	}
}

func codeText(code int) string {
	switch code {
	case CodeSuccess:
		return "success"
	case CodeNoResults:
		return "no results"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeTokenNotFound:
		return "token not found"
	case CodeTokenEmpty:
		return "token empty"
	case CodeRateLimit:
		return "rate limit"
	default:
		return "unknown"
	}
}

// StatusError is a non-200 HTTP response.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("opentdb %s: unexpected HTTP status %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return trivia.ErrProviderUnavailable }

// unavailable wraps a transport or parse failure.
func unavailable(op string, err error) error {
	return fmt.Errorf("opentdb %s: %w: %w", op, trivia.ErrProviderUnavailable, err)
}
