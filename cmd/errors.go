package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/litedo/internal/util"
	"github.com/josephgoksu/litedo/types"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
)

// errReported is returned by commands that already printed their failure.
// Execute exits non-zero without printing it again.
var errReported = errors.New("reported")

// HandleFatalError handles unrecoverable errors that should terminate the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}

// userMessage turns an error into the line shown without --verbose.
func userMessage(err error) string {
	var e *types.Error
	switch {
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return "Cancelled."
	case errors.Is(err, util.ErrAmbiguousID):
		return "Error: " + err.Error() + " (use more characters of the id)"
	case errors.As(err, &e) && e.Message != "":
		return "Error: " + e.Message
	}
	return "Error: " + err.Error()
}
