package tunables

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const AnalyticsInterval = 10 * time.Second
const AnalyticsEndpoint = "analytics/tunable-flags/"

type analyticDataStore struct {
	mu   sync.Mutex
	data map[string]int
}

// AnalyticsProcessor counts applied flags and periodically posts the counts
// to the remote API.
type AnalyticsProcessor struct {
	client   *resty.Client
	store    *analyticDataStore
	endpoint string
	log      *slog.Logger
	done     chan struct{}
}

func NewAnalyticsProcessor(ctx context.Context, client *resty.Client, baseURL string, interval time.Duration, log *slog.Logger) *AnalyticsProcessor {
	if interval <= 0 {
		interval = AnalyticsInterval
	}
	processor := AnalyticsProcessor{
		client:   client,
		store:    &analyticDataStore{data: make(map[string]int)},
		endpoint: baseURL + AnalyticsEndpoint,
		log:      log.With(slog.String("worker", "analytics")),
		done:     make(chan struct{}),
	}
	go processor.start(ctx, interval)
	return &processor
}

func (a *AnalyticsProcessor) start(ctx context.Context, interval time.Duration) {
	defer close(a.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := a.Flush(ctx); err != nil {
				a.log.Warn("failed to send analytics data",
					"error", err,
					slog.String("url", a.endpoint),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Flush posts the pending counts. The lock is only held to take the counts,
// so TrackFlag never waits on the request. On failure the counts are merged
// back into the store.
func (a *AnalyticsProcessor) Flush(ctx context.Context) error {
	a.store.mu.Lock()
	if len(a.store.data) == 0 {
		a.store.mu.Unlock()
		return nil
	}
	pending := a.store.data
	a.store.data = make(map[string]int)
	a.store.mu.Unlock()

	resp, err := a.client.R().SetContext(ctx).SetBody(pending).Post(a.endpoint)
	if err == nil && !resp.IsSuccess() {
		err = TunablesAPIError{fmt.Sprintf("AnalyticsProcessor.Flush received error response %d %s", resp.StatusCode(), resp.Status())}
	}
	if err != nil {
		a.restore(pending)
		return err
	}
	return nil
}

func (a *AnalyticsProcessor) restore(pending map[string]int) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	for flag, count := range pending {
		a.store.data[flag] += count
	}
}

// Done is closed once the flush loop has stopped.
func (a *AnalyticsProcessor) Done() <-chan struct{} {
	return a.done
}

// TrackFlag records one application of flag.
func (a *AnalyticsProcessor) TrackFlag(flag string) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	a.store.data[flag]++
}
