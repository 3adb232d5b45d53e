package tunables

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

type Option func(c *Configurator)

// Make sure With* functions have correct type.
var _ = []Option{
	WithBaseURL(""),
	WithEnvironmentKey(""),
	WithRequestTimeout(0),
	WithRetries(3, 1*time.Second),
	WithCustomHeaders(nil),
	WithRegistry(nil),
	WithRegistryDocument(nil),
	WithRegistryRefreshInterval(0),
	WithAnalytics(),
	WithAnalyticsInterval(0),
	WithContext(context.TODO()),
	WithLogger(nil),
	WithRestyClient(nil),
}

func WithBaseURL(url string) Option {
	return func(c *Configurator) {
		c.config.baseURL = url
	}
}

// WithEnvironmentKey sets the key sent to the remote registry API.
func WithEnvironmentKey(key string) Option {
	return func(c *Configurator) {
		c.config.environmentKey = key
	}
}

// WithRequestTimeout sets the request timeout for remote registry and
// analytics requests.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Configurator) {
		c.config.timeout = timeout
	}
}

func WithRetries(count int, waitTime time.Duration) Option {
	return func(c *Configurator) {
		c.client.SetRetryCount(count)
		c.client.SetRetryWaitTime(waitTime)
	}
}

func WithCustomHeaders(headers map[string]string) Option {
	return func(c *Configurator) {
		c.config.customHeaders = headers
	}
}

// WithRegistry replaces the built-in registry of tunable flags.
func WithRegistry(registry Registry) Option {
	return func(c *Configurator) {
		if registry != nil {
			c.state.SetRegistry(registry.Clone(), nil)
		}
	}
}

// WithRegistryDocument uses a decoded registry document, for example one
// returned by ReadRegistryFromFile.
func WithRegistryDocument(doc *RegistryDocument) Option {
	return func(c *Configurator) {
		if doc != nil {
			c.state.SetDocument(doc)
		}
	}
}

// WithRegistryRefreshInterval makes the Configurator poll the remote registry
// API until Close is called or the context passed with WithContext is
// cancelled. A non-positive interval means DefaultRegistryRefreshInterval.
func WithRegistryRefreshInterval(interval time.Duration) Option {
	return func(c *Configurator) {
		if interval <= 0 {
			interval = DefaultRegistryRefreshInterval
		}
		c.config.registryRefreshInterval = interval
	}
}

// WithAnalytics enables counting how often each flag is applied and
// periodically reporting the counts to the remote API, until Close is called.
func WithAnalytics() Option {
	return func(c *Configurator) {
		c.config.enableAnalytics = true
	}
}

func WithAnalyticsInterval(interval time.Duration) Option {
	return func(c *Configurator) {
		c.config.analyticsInterval = interval
	}
}

// WithContext sets the parent context of background work. Close cancels
// background work regardless.
func WithContext(ctx context.Context) Option {
	return func(c *Configurator) {
		c.ctx = ctx
	}
}

// WithLogger sets a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(c *Configurator) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithRestyClient replaces the HTTP client used for remote calls. Retry and
// timeout settings already made on the client are kept.
func WithRestyClient(httpClient *resty.Client) Option {
	return func(c *Configurator) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}
