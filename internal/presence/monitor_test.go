package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/registry"
)

type captureConn struct {
	mu     sync.Mutex
	events []interface{}
}

func (c *captureConn) Enqueue(event interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return true
}

func (c *captureConn) presenceFor(userID uint) []*domain.PresenceUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*domain.PresenceUpdate
	for _, e := range c.events {
		if u, ok := e.(*domain.PresenceUpdate); ok && u.UserID == userID {
			out = append(out, u)
		}
	}
	return out
}

func TestSweepBroadcastsEveryRegisteredUser(t *testing.T) {
	reg := registry.NewMemoryRegistry(5 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	aliceConn := &captureConn{}
	bobConn := &captureConn{}
	reg.Register(1, aliceConn)
	reg.Register(2, bobConn)

	m := NewMonitor(reg, time.Minute)
	m.Sweep()

	// Everyone hears about everyone, themselves included.
	for _, conn := range []*captureConn{aliceConn, bobConn} {
		require.Len(t, conn.presenceFor(1), 1)
		require.Len(t, conn.presenceFor(2), 1)
		assert.True(t, conn.presenceFor(1)[0].IsOnline)
	}
}

func TestSweepReportsIdleWithoutDisconnect(t *testing.T) {
	reg := registry.NewMemoryRegistry(5 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	aliceConn := &captureConn{}
	bobConn := &captureConn{}
	reg.Register(1, aliceConn)
	reg.Register(2, bobConn)

	m := NewMonitor(reg, time.Minute)

	// Alice goes quiet past the threshold; her socket is still open.
	now = now.Add(6 * time.Minute)
	reg.Touch(2)
	m.Sweep()

	aliceSeen := bobConn.presenceFor(1)
	require.Len(t, aliceSeen, 1)
	assert.False(t, aliceSeen[0].IsOnline)
	assert.True(t, aliceSeen[0].IsIdle)

	bobSeen := aliceConn.presenceFor(2)
	require.Len(t, bobSeen, 1)
	assert.True(t, bobSeen[0].IsOnline)

	// Activity flips her straight back on the next sweep.
	reg.Touch(1)
	m.Sweep()
	aliceSeen = bobConn.presenceFor(1)
	require.Len(t, aliceSeen, 2)
	assert.True(t, aliceSeen[1].IsOnline)
	assert.False(t, aliceSeen[1].IsIdle)
}

func TestSweepIsIdempotent(t *testing.T) {
	reg := registry.NewMemoryRegistry(5 * time.Minute)
	conn := &captureConn{}
	reg.Register(1, conn)

	m := NewMonitor(reg, time.Minute)
	m.Sweep()
	m.Sweep()

	// Unchanged state is re-broadcast each time, not suppressed.
	updates := conn.presenceFor(1)
	require.Len(t, updates, 2)
	assert.Equal(t, updates[0], updates[1])
}

func TestStartStop(t *testing.T) {
	reg := registry.NewMemoryRegistry(5 * time.Minute)
	conn := &captureConn{}
	reg.Register(1, conn)

	m := NewMonitor(reg, 5*time.Millisecond)
	m.Start(context.Background())

	assert.Eventually(t, func() bool {
		return len(conn.presenceFor(1)) > 0
	}, time.Second, time.Millisecond)

	m.Stop()
}
