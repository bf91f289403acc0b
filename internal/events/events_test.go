package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	b.Publish(ScanStarted, nil)
	select {
	case evt := <-ch:
		assert.Equal(t, ScanStarted, evt.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_DropsOnFullBuffer(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	b.Publish(ScanProgress, 1)
	b.Publish(ScanProgress, 2) // buffer full, dropped rather than blocking

	evt := <-ch
	assert.Equal(t, 1, evt.Payload)
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe(1)
	unsub()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestThrottle_AllowsFirstThenGates(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)
	require.True(t, th.Allow())
	assert.False(t, th.Allow())

	time.Sleep(60 * time.Millisecond)
	assert.True(t, th.Allow())
}

func TestThrottle_Reset(t *testing.T) {
	th := NewThrottle(time.Hour)
	require.True(t, th.Allow())
	require.False(t, th.Allow())
	th.Reset()
	assert.True(t, th.Allow())
}
