package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/josephgoksu/litedo/internal/util"
	"github.com/josephgoksu/litedo/types"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
)

// captureStderr returns what fn wrote to os.Stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	defer func() { os.Stderr = original }()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return strings.TrimSpace(buf.String())
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{
			name:        "normal mode without error",
			userMsg:     "Could not save",
			verbose:     false,
			expectedOut: "Could not save",
		},
		{
			name:         "verbose mode shows the technical error",
			userMsg:      "Could not save",
			technicalErr: errors.New("disk full"),
			verbose:      true,
			expectedOut:  "Error: disk full",
		},
		{
			name:         "normal mode hides the technical error",
			userMsg:      "Could not save",
			technicalErr: errors.New("disk full"),
			verbose:      false,
			expectedOut:  "Could not save",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			output := captureStderr(t, func() { PrintError(tt.userMsg, tt.technicalErr) })
			if !strings.Contains(output, tt.expectedOut) {
				t.Errorf("PrintError() output = %q, want to contain %q", output, tt.expectedOut)
			}
		})
	}
}

func TestLogError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		verbose     bool
		shouldPrint bool
	}{
		{name: "verbose with error", err: errors.New("details"), verbose: true, shouldPrint: true},
		{name: "verbose without error", verbose: true, shouldPrint: true},
		{name: "quiet by default", err: errors.New("details"), verbose: false, shouldPrint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			output := captureStderr(t, func() { LogError("close cache", tt.err) })
			if tt.shouldPrint && !strings.Contains(output, "[DEBUG] close cache") {
				t.Errorf("LogError() output = %q, want a debug line", output)
			}
			if !tt.shouldPrint && output != "" {
				t.Errorf("LogError() output = %q, want nothing", output)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "interrupt", err: promptui.ErrInterrupt, want: "Cancelled."},
		{name: "typed error", err: types.ValidationError("title is required"), want: "Error: title is required"},
		{name: "wrapped typed error", err: fmt.Errorf("add: %w", types.NotFoundError("7")), want: `Error: task "7" not found`},
		{
			name: "ambiguous id",
			err:  types.NewError(types.KindValidation, "", util.ErrAmbiguousID),
			want: "Error: validation: ambiguous ID prefix (use more characters of the id)",
		},
		{name: "plain error", err: errors.New("boom"), want: "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
