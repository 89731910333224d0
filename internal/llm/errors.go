package llm

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout       = errors.New("LLM request timed out")
	ErrStatus        = errors.New("LLM API error")
	ErrEmptyResponse = errors.New("LLM returned empty response")
	ErrDecode        = errors.New("LLM response could not be decoded")
	ErrTransport     = errors.New("LLM request failed")
)

// Error is a failed completion call. Err is one of the sentinel errors above
// and Cause, when set, is the underlying error.
type Error struct {
	Err        error
	StatusCode int
	Body       string
	Cause      error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrStatus):
		return fmt.Sprintf("%v %d: %s", e.Err, e.StatusCode, e.Body)
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Err, e.Cause)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
