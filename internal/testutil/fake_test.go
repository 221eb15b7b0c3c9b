package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atomicstack/siyuan-tui/internal/siyuan"
)

func TestFakeBackendScripts(t *testing.T) {
	f := NewFakeBackend()
	f.SetResults("ab", siyuan.Result{ID: "1", Content: "abc"})
	f.AddDocument(Doc("d1", "Notes", "first", "second"))

	got, err := f.Search(context.Background(), "ab")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.Search(context.Background(), "zz")
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, []string{"ab", "zz"}, f.QueryTexts())

	doc, err := f.Document(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	_, err = f.Document(context.Background(), "missing")
	require.True(t, errors.Is(err, siyuan.ErrNotFound))
	require.Equal(t, []string{"d1", "missing"}, f.Loads())
}

func TestFakeBackendGateHoldsSearch(t *testing.T) {
	f := NewFakeBackend()
	release := f.Gate("slow")
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.Search(context.Background(), "slow")
	}()

	require.Equal(t, "slow", <-f.Issued())
	select {
	case <-done:
		t.Fatal("gated search returned early")
	case <-time.After(20 * time.Millisecond):
	}
	release()
	release()
	<-done
}

func TestFakeBackendGateHonoursContext(t *testing.T) {
	f := NewFakeBackend()
	f.Gate("slow")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Search(ctx, "slow")
	require.ErrorIs(t, err, context.Canceled)
}
