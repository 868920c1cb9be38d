package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := New[int](4)
	sub := b.Subscribe()
	b.Publish(42)
	assert.Equal(t, 42, <-sub)
	b.Unsubscribe(sub)
	_, open := <-sub
	assert.False(t, open)
	b.Close()
}

func TestBusNonBlockingPublish(t *testing.T) {
	b := New[string](1)
	sub := b.Subscribe()
	b.Publish("kept")
	b.Publish("dropped")
	assert.Equal(t, "kept", <-sub)
	select {
	case extra := <-sub:
		t.Fatalf("unexpected event %q", extra)
	default:
	}
	b.Close()
}

func TestBusCloseIsIdempotent(t *testing.T) {
	b := New[int](0)
	sub := b.Subscribe()
	b.Close()
	b.Close()
	_, open := <-sub
	assert.False(t, open)
	b.Publish(1) // must not panic
	closedSub := b.Subscribe()
	_, open = <-closedSub
	assert.False(t, open)
}
