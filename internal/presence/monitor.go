// Package presence runs the periodic sweep that re-broadcasts every
// registered user's online/idle classification.
package presence

import (
	"context"
	"time"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/registry"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
)

// Monitor sweeps the session registry on a fixed interval, independent of
// traffic. Every sweep broadcasts the current classification for all
// registered users, including unchanged ones: the refresh is idempotent, so
// a client that missed an individual delta converges within one interval.
type Monitor struct {
	registry registry.Registry
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewMonitor creates a presence monitor.
func NewMonitor(reg registry.Registry, interval time.Duration) *Monitor {
	return &Monitor{
		registry: reg,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stop)
	<-m.done
}

// Sweep broadcasts the presence classification of every registered user to
// all sessions. Delivery is fire-and-forget; the registry never blocks on a
// stalled connection write.
func (m *Monitor) Sweep() {
	states := m.registry.Snapshot()
	for _, st := range states {
		m.registry.BroadcastAll(domain.NewPresenceUpdate(st.UserID, st.Online, st.Idle), 0)
	}
	if len(states) > 0 {
		log.L().Debug().Int("sessions", len(states)).Msg("presence sweep completed")
	}
}
