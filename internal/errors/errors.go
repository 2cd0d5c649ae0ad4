package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/julianstephens/standup/internal/logger"
)

var (
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
	hintColor   = color.New(color.Faint).SprintFunc()
)

// Hinted carries a suggested next step alongside an error.
type Hinted struct {
	Err  error
	Hint string
}

func (h *Hinted) Error() string { return h.Err.Error() }
func (h *Hinted) Unwrap() error { return h.Err }

// WithHint attaches hint to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &Hinted{Err: err, Hint: hint}
}

// HintOf returns the first hint in err's chain, if any.
func HintOf(err error) string {
	var h *Hinted
	if errors.As(err, &h) {
		return h.Hint
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error, prints it with any hint, and exits with code 1
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintf(os.Stderr, "%s %v\n", errorPrefix("Error:"), err)
	if hint := HintOf(err); hint != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", hintColor(hint))
	}
	os.Exit(1)
}
