// Package tunables detects mobile platforms from user-agent strings and
// applies validated tunable flags and backend selection to a runtime engine.
package tunables

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Configurator applies flag configurations to an engine using a registry that
// can be refreshed from the remote API.
type Configurator struct {
	engine Engine
	config config
	client *resty.Client
	state  registryState
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	pollDone chan struct{}

	analyticsProcessor *AnalyticsProcessor
}

// New creates a Configurator for engine. Without WithRegistry or
// WithRegistryDocument it uses DefaultRegistry.
func New(engine Engine, options ...Option) *Configurator {
	c := &Configurator{
		engine: engine,
		config: defaultConfig(),
		client: resty.New(),
		ctx:    context.Background(),
		log:    slog.Default(),
	}
	c.state.SetRegistry(DefaultRegistry(), DefaultBackendFlags())

	for _, opt := range options {
		opt(c)
	}

	c.ctx, c.cancel = context.WithCancel(c.ctx)
	c.log = c.log.With(slog.String("component", "tunables"))

	c.client.SetHeaders(map[string]string{
		"Accept":     "application/json",
		"User-Agent": getUserAgent(),
	})
	if c.config.environmentKey != "" {
		c.client.SetHeader("X-Environment-Key", c.config.environmentKey)
	}
	c.client.SetHeaders(c.config.customHeaders)

	if c.config.timeout > 0 {
		c.client.SetTimeout(c.config.timeout)
	} else if c.client.GetClient().Timeout == 0 {
		c.client.SetTimeout(DefaultTimeout)
	}

	c.client.SetLogger(restySlogLogger{c.log})
	c.client.OnBeforeRequest(newRestyLogRequestMiddleware(c.log))
	c.client.OnAfterResponse(newRestyLogResponseMiddleware(c.log))

	if c.config.enableAnalytics {
		c.analyticsProcessor = NewAnalyticsProcessor(c.ctx, c.client, c.config.baseURL, c.config.analyticsInterval, c.log)
	}

	if c.config.registryRefreshInterval > 0 {
		c.pollDone = make(chan struct{})
		go func() {
			defer close(c.pollDone)
			c.pollRegistry(c.ctx, c.config.registryRefreshInterval)
		}()
	}

	return c
}

// Close stops registry polling and the analytics flush loop and waits for
// both to return. Counts not yet flushed are dropped.
func (c *Configurator) Close() {
	c.cancel()
	if c.pollDone != nil {
		<-c.pollDone
	}
	if c.analyticsProcessor != nil {
		<-c.analyticsProcessor.Done()
	}
}

// SetBackendAndEnvFlags validates flagConfig against the current registry,
// applies it to the engine and resets the backend named by backend.
// See the package-level SetBackendAndEnvFlags.
func (c *Configurator) SetBackendAndEnvFlags(ctx context.Context, flagConfig any, backend string) error {
	log := c.log.With(slog.String("backend", backend))

	flags, err := validFlagConfig(c.state.Registry(), flagConfig)
	if err != nil {
		log.Warn("rejected flag configuration", "error", err)
		return err
	}
	if flags == nil {
		log.Debug("no flag configuration given")
		return nil
	}

	c.engine.SetFlags(flags)
	log.Debug("applied flags", slog.Int("count", len(flags)))
	// Applied flags are counted even if the backend reset below fails.
	if c.analyticsProcessor != nil {
		for _, flag := range sortedKeys(flags) {
			c.analyticsProcessor.TrackFlag(flag)
		}
	}

	if err := resetTFJSBackend(ctx, c.engine, backend); err != nil {
		log.Warn("failed to reset backend", "error", err)
		return err
	}
	return nil
}

// ResetBackend re-creates and selects the backend name.
// See the package-level ResetBackend.
func (c *Configurator) ResetBackend(ctx context.Context, name string) error {
	if err := ResetBackend(ctx, c.engine, name); err != nil {
		c.log.Warn("failed to reset backend", slog.String("backend", name), "error", err)
		return err
	}
	c.log.Debug("backend reset", slog.String("backend", name))
	return nil
}

// Registry returns a copy of the current registry.
func (c *Configurator) Registry() Registry {
	return c.state.Registry().Clone()
}

// TunableFlags returns the flags that can be tuned for backend. Only flags
// in the current registry are listed.
func (c *Configurator) TunableFlags(backend string) []string {
	return TunableFlagsForBackend(c.state.Registry(), c.state.BackendFlags(), backend)
}

// RegistryUpdatedAt returns the updated_at of the current registry document.
func (c *Configurator) RegistryUpdatedAt() time.Time {
	return c.state.UpdatedAt()
}

// UpdateRegistry fetches the registry document from the remote API and swaps
// it in. Documents older than the current one are ignored.
func (c *Configurator) UpdateRegistry(ctx context.Context) error {
	resp, err := c.client.NewRequest().
		SetContext(ctx).
		ForceContentType("application/json").
		Get(c.config.baseURL + RegistryEndpoint)
	if err != nil {
		return TunablesAPIError{fmt.Sprintf("failed to fetch registry document: %s", err)}
	}
	if !resp.IsSuccess() {
		return TunablesAPIError{fmt.Sprintf("unable to get valid response from remote API: %d %s", resp.StatusCode(), resp.Status())}
	}

	doc, err := ParseRegistryDocument(resp.Body(), FormatJSON)
	if err != nil {
		return err
	}
	previous := c.state.Version()
	if !c.state.SetDocument(doc) {
		c.log.Debug("ignoring stale registry document",
			slog.Time("updated_at", doc.UpdatedAt),
			slog.String("current_version", previous.String()),
		)
		return nil
	}
	c.log.Info("registry updated",
		slog.String("version", doc.Version.String()),
		slog.String("previous_version", previous.String()),
		slog.Int("flags", len(doc.Flags)),
	)
	return nil
}

func (c *Configurator) pollRegistry(ctx context.Context, interval time.Duration) {
	log := c.log.With(slog.String("worker", "poll"))
	b := newBackoff(initialBackoff, maxBackoff)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := c.UpdateRegistry(ctx); err != nil {
			log.Error("failed to update registry", "error", err)
			if !b.wait(ctx) {
				return
			}
			continue
		}
		b.reset()
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
