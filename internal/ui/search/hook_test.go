package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueryHookArmsOnlyOnChange(t *testing.T) {
	now := time.Unix(1000, 0)
	h := &queryHook{latest: new(atomic.Uint64), now: func() time.Time { return now }}
	h.state.Delay = 500 * time.Millisecond

	first, ok := h.HandleEvent("ab", time.Time{})
	require.True(t, ok)
	require.Equal(t, now.Add(500*time.Millisecond), first)

	now = now.Add(100 * time.Millisecond)
	same, ok := h.HandleEvent("ab", first)
	require.True(t, ok)
	require.Equal(t, first, same)

	moved, ok := h.HandleEvent("abc", first)
	require.True(t, ok)
	require.Equal(t, now.Add(500*time.Millisecond), moved)
}

func TestQueryHookEmptyCancels(t *testing.T) {
	h := &queryHook{latest: new(atomic.Uint64), now: time.Now}
	_, ok := h.HandleEvent("a", time.Time{})
	require.True(t, ok)

	_, ok = h.HandleEvent("  ", time.Now())
	require.False(t, ok)
	require.False(t, h.state.Pending())

	before := h.latest.Load()
	h.FinishDebounce()
	require.Equal(t, before, h.latest.Load(), "nothing pending, nothing issued")
}

func TestQueryHookFinishAdvancesSequence(t *testing.T) {
	h := &queryHook{latest: new(atomic.Uint64), now: time.Now}
	h.HandleEvent("a", time.Time{})
	h.FinishDebounce()
	first := h.latest.Load()
	require.NotZero(t, first)

	h.HandleEvent("ab", time.Time{})
	h.FinishDebounce()
	require.Greater(t, h.latest.Load(), first)
}
