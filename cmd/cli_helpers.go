package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// printf writes to w unless --quiet or --json is set.
func printf(w io.Writer, format string, args ...any) {
	if isQuiet() || isJSON() {
		return
	}
	_, _ = fmt.Fprintf(w, format, args...)
}

// promptConfirm asks a yes/no question. Declining is not an error.
func promptConfirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true, Default: "n"}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
