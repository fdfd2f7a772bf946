package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snomn123/Whatsapp-layout/internal/config"
)

func TestEnqueueMarshalsEvent(t *testing.T) {
	c := NewClient("c1", 1, nil, config.WebSocketConfig{})

	ok := c.Enqueue(map[string]string{"type": "typing"})
	require.True(t, ok)

	data := <-c.Send
	var frame map[string]string
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "typing", frame["type"])
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	c := NewClient("c1", 1, nil, config.WebSocketConfig{})

	for i := 0; i < cap(c.Send); i++ {
		require.True(t, c.Enqueue(i))
	}

	// No pump is draining: the extra frame is dropped, not blocked on.
	assert.False(t, c.Enqueue("overflow"))
	assert.Len(t, c.Send, cap(c.Send))
}

func TestEnqueueRejectsUnmarshalable(t *testing.T) {
	c := NewClient("c1", 1, nil, config.WebSocketConfig{})

	assert.False(t, c.Enqueue(make(chan int)))
	assert.Empty(t, c.Send)
}
