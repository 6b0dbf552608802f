package store

import (
	"context"
	"sync"

	"github.com/opst/writerid/cmd/wid/rest"
	apidashboard "github.com/opst/writerid/pkg/api/types/dashboard"
	"github.com/rs/zerolog"
)

type DashboardState struct {
	Stats   apidashboard.Stats
	Loading bool
	Error   string
}

type Dashboard struct {
	client rest.Client
	logger zerolog.Logger

	mu    sync.Mutex
	state DashboardState
}

func NewDashboard(client rest.Client, logger zerolog.Logger) *Dashboard {
	return &Dashboard{client: client, logger: logger.With().Str("slice", "dashboard").Logger()}
}

func (d *Dashboard) Snapshot() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Fetch reloads counters. On failure, the previous counters are kept.
func (d *Dashboard) Fetch(ctx context.Context) error {
	d.mu.Lock()
	d.state.Loading = true
	d.state.Error = ""
	d.mu.Unlock()

	stats, err := d.client.GetStats(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Loading = false
	if err != nil {
		d.logger.Debug().Err(err).Msg("failed")
		d.state.Error = rest.ServerMessage(err)
		if d.state.Error == "" {
			d.state.Error = FallbackMessage
		}
		return err
	}
	d.state.Stats = stats
	return nil
}
