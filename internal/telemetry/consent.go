package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

const consentNotice = `
litedo can send anonymous usage statistics: command names, outcomes,
counts, OS and architecture. Task titles, notes, tags and file paths are
never sent. Change this anytime with: litedo telemetry disable
`

// PromptFunc asks a yes/no question.
type PromptFunc func(label string) (bool, error)

// ConfirmPrompt is the interactive PromptFunc backed by promptui.
func ConfirmPrompt(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true, Default: "n"}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AskConsent asks once and saves the answer to dir. When interactive is
// false telemetry is recorded as disabled without prompting.
func AskConsent(cfg *Config, dir string, out io.Writer, interactive bool, prompt PromptFunc) (bool, error) {
	if !cfg.NeedsConsent() {
		return cfg.IsEnabled(), nil
	}

	enabled := false
	if interactive {
		_, _ = fmt.Fprint(out, consentNotice)
		ok, err := prompt("Enable anonymous telemetry")
		if err != nil {
			return false, err
		}
		enabled = ok
	}

	if enabled {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(dir); err != nil {
		return false, err
	}
	return enabled, nil
}
