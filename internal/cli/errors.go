package cli

import (
	"errors"
	"fmt"

	"github.com/Makepad-fr/tada/internal/api"
)

// usageError marks mistakes in how the command was invoked (exit code 2).
type usageError struct {
	msg  string
	hint string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func isUsage(err error) bool {
	var ue usageError
	return errors.As(err, &ue)
}

func hintOf(err error) string {
	var ue usageError
	if errors.As(err, &ue) {
		return ue.hint
	}
	return ""
}

// apiFailure prints as the message the backend gave and unwraps to the cause.
type apiFailure struct {
	msg string
	err error
}

func (e apiFailure) Error() string { return e.msg }
func (e apiFailure) Unwrap() error { return e.err }

func failure(err error, fallback string) error {
	return apiFailure{msg: api.Message(err, fallback), err: err}
}
