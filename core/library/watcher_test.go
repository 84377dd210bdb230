package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) (string, chan struct{}) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "singles"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "albums"), 0755))

	changed := make(chan struct{}, 1)
	w, err := NewWatcher(root, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return root, changed
}

func waitForRescan(t *testing.T, changed chan struct{}) {
	t.Helper()
	select {
	case <-changed:
	case <-time.After(10 * rescanDebounce):
		t.Fatal("rescan callback never fired")
	}
}

func TestWatcherFiresAfterDebounce(t *testing.T) {
	root, changed := newTestWatcher(t)

	require.NoError(t, os.WriteFile(
		filepath.Join(root, "singles", "aurora.mp3"), []byte("x"), 0644))

	waitForRescan(t, changed)
}

func TestWatcherPicksUpNewAlbumDirectories(t *testing.T) {
	root, changed := newTestWatcher(t)

	albumDir := filepath.Join(root, "albums", "Night-Drive")
	require.NoError(t, os.MkdirAll(albumDir, 0755))
	waitForRescan(t, changed)

	// The new directory is watched after the first rescan, so edits inside
	// it trigger another one.
	require.NoError(t, os.WriteFile(
		filepath.Join(albumDir, "01-start.mp3"), []byte("x"), 0644))
	waitForRescan(t, changed)
}
