package tunables

import (
	"time"
)

const (
	// Number of seconds to wait for a request to
	// complete before terminating the request.
	DefaultTimeout = 10 * time.Second

	// Default base URL for the remote registry API.
	DefaultBaseURL = "https://edge.api.flagsmith.com/api/v1/"

	// RegistryEndpoint serves the tunable flag registry document.
	RegistryEndpoint = "tunable-flags/"

	// Polling interval used by WithRegistryRefreshInterval(0).
	DefaultRegistryRefreshInterval = 60 * time.Second
)

// config contains all configurable Configurator settings.
type config struct {
	baseURL                 string
	environmentKey          string
	timeout                 time.Duration
	customHeaders           map[string]string
	registryRefreshInterval time.Duration
	enableAnalytics         bool
	analyticsInterval       time.Duration
}

func defaultConfig() config {
	return config{
		baseURL:           DefaultBaseURL,
		analyticsInterval: AnalyticsInterval,
	}
}
