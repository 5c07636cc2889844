// Package telemetry provides opt-in anonymous usage analytics for litedo.
//
// Nothing is sent until the user enables it with `litedo telemetry enable`
// or accepts the first-run prompt. Events carry command names, outcomes and
// counts only; task content and file paths are never included.
package telemetry

import (
	"github.com/josephgoksu/litedo/internal/logger"
)

// New returns a PostHog-backed client when an API key is configured and the
// user has opted in, otherwise a NoopClient.
func New(cfg ClientConfig, log *logger.Logger) Client {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.APIKey == "" || cfg.Config == nil || !cfg.Config.IsEnabled() {
		return NewNoopClient()
	}
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	c, err := NewPostHogClient(cfg)
	if err != nil {
		log.WithComponent("telemetry").Warnw("Telemetry client unavailable", "error", err)
		return NewNoopClient()
	}
	return c
}
