package repository

import (
	"path/filepath"
	"testing"

	"KestrelFM/config"
	"KestrelFM/db"
	"KestrelFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir: dir,
		DBPath:  filepath.Join(dir, "player.db"),
	}
	require.NoError(t, db.Connect(cfg))
	require.NoError(t, db.InitDB())
	t.Cleanup(func() { db.Close() })
}

func TestPlayerStateRoundTrip(t *testing.T) {
	openTestDB(t)
	repo := NewPlayerStateRepository(db.DB)

	_, ok, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, ok, "a fresh database holds no snapshot")

	snap := model.PlayerSnapshot{
		Volume:         0.35,
		IsMuted:        true,
		RepeatMode:     model.RepeatAll,
		IsShuffle:      false,
		CurrentTrackID: "02-drive.mp3",
		CurrentAlbumID: "Night-Drive",
	}
	require.NoError(t, repo.Save(snap))

	got, ok, err := repo.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

func TestPlayerStateLastWriterWins(t *testing.T) {
	openTestDB(t)
	repo := NewPlayerStateRepository(db.DB)

	require.NoError(t, repo.Save(model.PlayerSnapshot{Volume: 0.2, RepeatMode: model.RepeatNone}))
	require.NoError(t, repo.Save(model.PlayerSnapshot{Volume: 0.9, RepeatMode: model.RepeatOne, IsShuffle: false}))

	got, ok, err := repo.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.9, got.Volume)
	assert.Equal(t, model.RepeatOne, got.RepeatMode)
}
