package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/posthog/posthog-go"
)

// Client sends telemetry events.
type Client interface {
	// Track enqueues an event without blocking. No-op when disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events.
	Close() error
}

// Properties is a type alias for event properties.
type Properties = map[string]any

// enqueuer is the part of the PostHog SDK client litedo calls.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// ClientConfig holds configuration for initializing the telemetry client.
type ClientConfig struct {
	// APIKey is the PostHog project API key.
	APIKey string

	// Version is the litedo version string.
	Version string

	// Config is the persisted opt-in state.
	Config *Config

	// Endpoint overrides the PostHog endpoint for self-hosted instances.
	Endpoint string

	// Logger receives SDK diagnostics at debug level. Nil discards them.
	Logger *logger.Logger
}

// PostHogClient sends events for an opted-in user. A client built without
// an API key is inert.
type PostHogClient struct {
	enq     enqueuer
	consent *Config
	base    Properties
	log     *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewPostHogClient creates a PostHog client. Without an API key or consent
// config the returned client is inert.
func NewPostHogClient(cfg ClientConfig) (*PostHogClient, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.APIKey == "" || cfg.Config == nil {
		return newPostHogClient(nil, cfg.Config, cfg.Version, log), nil
	}

	phConfig := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    sdkLogger{log: log.WithComponent("posthog")},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}
	sdk, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return newPostHogClient(sdk, cfg.Config, cfg.Version, log), nil
}

func newPostHogClient(enq enqueuer, consent *Config, version string, log *logger.Logger) *PostHogClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &PostHogClient{
		enq:     enq,
		consent: consent,
		log:     log.WithComponent("telemetry"),
		base: Properties{
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"litedo_version": version,
			// No person profiles: events stay anonymous.
			"$process_person_profile": false,
		},
	}
}

// Active reports whether Track would send anything.
func (c *PostHogClient) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *PostHogClient) activeLocked() bool {
	return c.enq != nil && !c.closed && c.consent != nil && c.consent.IsEnabled()
}

// Track enqueues event with the fixed os, arch and version properties. Caller
// properties never override those.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	for k, v := range c.base {
		props.Set(k, v)
	}
	err := c.enq.Enqueue(posthog.Capture{
		DistinctId: c.consent.AnonymousID,
		Event:      event,
		Properties: props,
	})
	if err != nil {
		c.log.Debugw("Telemetry event dropped", "event", event, "error", err)
	}
}

// Close flushes the PostHog queue. Later calls to Track are ignored.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.enq == nil {
		c.closed = true
		return nil
	}
	c.closed = true
	return c.enq.Close()
}

// NoopClient discards every event.
type NoopClient struct{}

func (c *NoopClient) Track(event string, properties map[string]any) {}

func (c *NoopClient) Close() error { return nil }

// NewNoopClient returns a client that does nothing.
func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

// sdkLogger demotes every PostHog SDK message to debug so transport
// failures never reach the terminal.
type sdkLogger struct {
	log *logger.Logger
}

func (l sdkLogger) Debugf(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l sdkLogger) Logf(format string, args ...interface{})   { l.log.Debugf(format, args...) }
func (l sdkLogger) Warnf(format string, args ...interface{})  { l.log.Debugf("warn: "+format, args...) }
func (l sdkLogger) Errorf(format string, args ...interface{}) { l.log.Debugf("error: "+format, args...) }
