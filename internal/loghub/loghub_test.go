package loghub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCollectsPartialLines(t *testing.T) {
	h := New(10)

	_, err := h.Write([]byte("first ha"))
	require.NoError(t, err)
	assert.Empty(t, h.Snapshot(), "no newline yet, nothing published")

	_, err = h.Write([]byte("lf\nsecond\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first half", "second"}, h.Snapshot())
}

func TestCapacityKeepsNewestLines(t *testing.T) {
	h := New(3)
	for _, ln := range []string{"a\n", "b\n", "c\n", "d\n"} {
		_, _ = h.Write([]byte(ln))
	}
	assert.Equal(t, []string{"b", "c", "d"}, h.Snapshot())
}

func TestSubscribeReceivesNewLines(t *testing.T) {
	h := New(10)
	ch, unsub := h.Subscribe(4)
	defer unsub()

	_, _ = h.Write([]byte("hello\n"))

	select {
	case ln := <-ch:
		assert.Equal(t, "hello", ln)
	default:
		t.Fatal("expected a line on the subscription channel")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New(10)
	ch, unsub := h.Subscribe(1)
	unsub()

	_, ok := <-ch
	assert.False(t, ok)

	// writes after unsubscribe must not panic
	_, _ = h.Write([]byte("after\n"))
}

func TestClear(t *testing.T) {
	h := New(10)
	_, _ = h.Write([]byte("x\npartial"))
	h.Clear()
	assert.Empty(t, h.Snapshot())

	// the pending partial line was dropped too
	_, _ = h.Write([]byte(" done\n"))
	assert.Equal(t, []string{" done"}, h.Snapshot())
}
