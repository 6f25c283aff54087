package flat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_StartsBeforeFirstPublish(t *testing.T) {
	// The artifact directory does not exist until the first ingestion;
	// watching must still come up and see the initial publish.
	dir := filepath.Join(t.TempDir(), "index")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before publishing.
	time.Sleep(100 * time.Millisecond)

	store := NewStore(dir)
	require.NoError(t, store.Save(ctx, testChunks(1), [][]float32{{1, 0}}, "m"))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("manifest publish was not observed")
	}

	cancel()
	require.NoError(t, <-done)
}
