package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishInvokesSubscribedHandler(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	go bus.Subscribe(ctx, "positions", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	})
	time.Sleep(10 * time.Millisecond)

	err := bus.Publish(context.Background(), Message{Topic: "positions", Key: "driver-1", Value: []byte("{}")})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "driver-1", msg.Key)
	case <-time.After(time.Second):
		require.Fail(t, "handler never invoked")
	}

	assert.Len(t, bus.Published(), 1)
}
