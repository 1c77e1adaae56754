package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "jobs")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "jobs", "hello"))

	select {
	case msg := <-ch:
		assert.Equal(t, "jobs", msg.Channel)
		assert.Equal(t, "hello", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestPublishOtherChannelNotDelivered(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "jobs")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "other", "nope"))

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "jobs")
	require.NoError(t, err)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel reaches nobody and must not panic.
	assert.NoError(t, ps.Publish(ctx, "jobs", "late"))
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	ps := NewPubSub(1)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "jobs")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "jobs", "1"))
	require.NoError(t, ps.Publish(ctx, "jobs", "2"))

	msg := <-ch
	assert.Equal(t, "1", msg.Payload)
	select {
	case m := <-ch:
		t.Fatalf("expected drop, got %q", m.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}
