package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/planner"
)

// Exit codes returned by the mealplan binary.
const (
	ExitGeneric         = 1
	ExitInvalidInput    = 2
	ExitInfeasible      = 3
	ExitDataUnavailable = 4
	ExitTimeout         = 5
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Describe returns a one-line explanation for planning failures, or the
// error text for anything else.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, planner.ErrInvalidInput):
		return fmt.Sprintf("invalid request: %v", err)
	case stderrors.Is(err, planner.ErrInfeasibleModel):
		return "no combination of meals satisfies the nutritional constraints"
	case stderrors.Is(err, planner.ErrDataUnavailable):
		return fmt.Sprintf("meal catalog could not be read: %v", err)
	case stderrors.Is(err, planner.ErrTimeout):
		return "the solver did not finish within the allowed time"
	default:
		return err.Error()
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, planner.ErrInvalidInput):
		return ExitInvalidInput
	case stderrors.Is(err, planner.ErrInfeasibleModel):
		return ExitInfeasible
	case stderrors.Is(err, planner.ErrDataUnavailable):
		return ExitDataUnavailable
	case stderrors.Is(err, planner.ErrTimeout):
		return ExitTimeout
	default:
		return ExitGeneric
	}
}

// Fatal logs an error and exits the program with the code ExitCode assigns it
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(stderrors.New(Describe(err))))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitGeneric)
}
