package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutReceivers(t *testing.T) {
	b := New[int]()
	b.Publish(1) // must not block or panic
	assert.Equal(t, 0, b.Len())
}

func TestSlowReceiverKeepsNewestValue(t *testing.T) {
	b := New[int]()
	rx := b.Subscribe()

	b.Publish(1)
	b.Publish(2)
	b.Publish(3)

	v, ok := <-rx.C()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	select {
	case <-rx.C():
		t.Fatal("expected no further value")
	default:
	}
}

func TestEveryReceiverSeesPublishes(t *testing.T) {
	b := New[string]()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish("x")
	assert.Equal(t, "x", <-a.C())
	assert.Equal(t, "x", <-c.C())
}

func TestCloseTerminatesReceivers(t *testing.T) {
	b := New[int]()
	rx := b.Subscribe()
	b.Close()

	_, ok := <-rx.C()
	assert.False(t, ok)

	// Closing twice is fine, and later subscribers terminate immediately.
	b.Close()
	_, ok = <-b.Subscribe().C()
	assert.False(t, ok)
}

func TestReceiverCloseDetaches(t *testing.T) {
	b := New[int]()
	rx := b.Subscribe()
	other := b.Subscribe()

	rx.Close()
	rx.Close() // idempotent

	assert.Equal(t, 1, b.Len())

	b.Publish(7)
	assert.Equal(t, 7, <-other.C())

	_, ok := <-rx.C()
	assert.False(t, ok)
}
