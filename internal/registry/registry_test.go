package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	events []interface{}
	full   bool
}

func (c *fakeConn) Enqueue(event interface{}) bool {
	if c.full {
		return false
	}
	c.events = append(c.events, event)
	return true
}

func newTestRegistry(t *testing.T) (*MemoryRegistry, *time.Time) {
	t.Helper()
	reg := NewMemoryRegistry(5 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })
	return reg, &now
}

func TestPresenceClassification(t *testing.T) {
	reg, now := newTestRegistry(t)

	// No session: offline.
	assert.False(t, reg.IsOnline(1))
	assert.False(t, reg.IsIdle(1))

	reg.Register(1, &fakeConn{})
	assert.True(t, reg.IsOnline(1))
	assert.False(t, reg.IsIdle(1))

	// Exactly at the threshold is still online.
	*now = now.Add(5 * time.Minute)
	assert.True(t, reg.IsOnline(1))
	assert.False(t, reg.IsIdle(1))

	// Past the threshold: idle, not offline.
	*now = now.Add(time.Second)
	assert.False(t, reg.IsOnline(1))
	assert.True(t, reg.IsIdle(1))

	// Touch resets the clock.
	reg.Touch(1)
	assert.True(t, reg.IsOnline(1))
	assert.False(t, reg.IsIdle(1))
}

func TestTouchWithoutSessionIsNoop(t *testing.T) {
	reg, _ := newTestRegistry(t)

	reg.Touch(42)

	assert.False(t, reg.IsOnline(42))
	assert.Equal(t, 0, reg.Count())
}

func TestRegisterReplacesExistingSession(t *testing.T) {
	reg, _ := newTestRegistry(t)

	old := &fakeConn{}
	replacement := &fakeConn{}

	reg.Register(1, old)
	reg.Register(1, replacement)

	require.Equal(t, 1, reg.Count())

	// Delivery goes to the replacement only.
	reg.SendTo(1, "hello")
	assert.Empty(t, old.events)
	assert.Len(t, replacement.events, 1)
}

func TestRemoveGuardsAgainstStaleConnection(t *testing.T) {
	reg, _ := newTestRegistry(t)

	old := &fakeConn{}
	replacement := &fakeConn{}

	reg.Register(1, old)
	reg.Register(1, replacement)

	// The stale disconnect handler must not evict the newer session.
	assert.False(t, reg.Remove(1, old))
	assert.True(t, reg.IsOnline(1))

	assert.True(t, reg.Remove(1, replacement))
	assert.False(t, reg.IsOnline(1))
	assert.Equal(t, 0, reg.Count())
}

func TestRemoveUnknownUser(t *testing.T) {
	reg, _ := newTestRegistry(t)

	assert.False(t, reg.Remove(99, &fakeConn{}))
}

func TestSnapshot(t *testing.T) {
	reg, now := newTestRegistry(t)

	reg.Register(1, &fakeConn{})
	*now = now.Add(6 * time.Minute)
	reg.Register(2, &fakeConn{})

	states := reg.Snapshot()
	require.Len(t, states, 2)

	byID := make(map[uint]State)
	for _, st := range states {
		byID[st.UserID] = st
	}

	assert.True(t, byID[1].Idle)
	assert.False(t, byID[1].Online)
	assert.True(t, byID[2].Online)
	assert.False(t, byID[2].Idle)
}

func TestSendToMissingSession(t *testing.T) {
	reg, _ := newTestRegistry(t)

	assert.False(t, reg.SendTo(1, "nobody home"))
}

func TestSendToFullBufferReportsDrop(t *testing.T) {
	reg, _ := newTestRegistry(t)

	reg.Register(1, &fakeConn{full: true})

	// The frame is dropped, the session stays registered.
	assert.False(t, reg.SendTo(1, "dropped"))
	assert.True(t, reg.IsOnline(1))
}

func TestBroadcastAllExcludesSender(t *testing.T) {
	reg, _ := newTestRegistry(t)

	a := &fakeConn{}
	b := &fakeConn{}
	c := &fakeConn{}
	reg.Register(1, a)
	reg.Register(2, b)
	reg.Register(3, c)

	reg.BroadcastAll("presence", 1)

	assert.Empty(t, a.events)
	assert.Len(t, b.events, 1)
	assert.Len(t, c.events, 1)

	// Zero excludes nobody.
	reg.BroadcastAll("sweep", 0)
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
	assert.Len(t, c.events, 2)
}
