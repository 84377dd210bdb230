package repository

import (
	"database/sql"
	"fmt"

	"KestrelFM/core/player"
	"KestrelFM/model"
)

// sqlitePlayerStateRepository persists the player preference snapshot in
// the single player_state row.
type sqlitePlayerStateRepository struct {
	DB *sql.DB
}

// NewPlayerStateRepository creates a snapshot repository over the given
// database handle.
func NewPlayerStateRepository(database *sql.DB) player.StateStore {
	return &sqlitePlayerStateRepository{DB: database}
}

var _ player.StateStore = (*sqlitePlayerStateRepository)(nil)

// Save upserts the snapshot row. Last writer wins.
func (r *sqlitePlayerStateRepository) Save(snap model.PlayerSnapshot) error {
	query := `
	INSERT INTO player_state (id, volume, is_muted, repeat_mode, is_shuffle, current_track_id, current_album_id, updated_at)
	VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
		volume = excluded.volume,
		is_muted = excluded.is_muted,
		repeat_mode = excluded.repeat_mode,
		is_shuffle = excluded.is_shuffle,
		current_track_id = excluded.current_track_id,
		current_album_id = excluded.current_album_id,
		updated_at = CURRENT_TIMESTAMP`
	_, err := r.DB.Exec(query,
		snap.Volume, snap.IsMuted, string(snap.RepeatMode), snap.IsShuffle,
		snap.CurrentTrackID, snap.CurrentAlbumID)
	if err != nil {
		return fmt.Errorf("failed to save player state: %w", err)
	}
	return nil
}

// Load reads the snapshot row. ok is false when no snapshot was saved yet.
func (r *sqlitePlayerStateRepository) Load() (model.PlayerSnapshot, bool, error) {
	query := `SELECT volume, is_muted, repeat_mode, is_shuffle, current_track_id, current_album_id
	           FROM player_state WHERE id = 1`
	row := r.DB.QueryRow(query)

	var snap model.PlayerSnapshot
	var mode string
	err := row.Scan(&snap.Volume, &snap.IsMuted, &mode, &snap.IsShuffle,
		&snap.CurrentTrackID, &snap.CurrentAlbumID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.PlayerSnapshot{}, false, nil
		}
		return model.PlayerSnapshot{}, false, fmt.Errorf("failed to load player state: %w", err)
	}
	snap.RepeatMode = model.RepeatMode(mode)
	return snap, true, nil
}
