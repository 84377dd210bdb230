package model

// RepeatMode controls what happens when the end of a track or queue is reached.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none" // Stop at the end
	RepeatAll  RepeatMode = "all"  // Loop the whole queue or singles list
	RepeatOne  RepeatMode = "one"  // Loop the current track
)

// Next returns the following mode in the none -> all -> one -> none cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

// Valid reports whether m is one of the three known modes.
func (m RepeatMode) Valid() bool {
	return m == RepeatNone || m == RepeatAll || m == RepeatOne
}

// PlayerSnapshot is the preference subset persisted across sessions.
// Playback position and play state are deliberately not part of it.
type PlayerSnapshot struct {
	Volume         float64    `json:"volume"`
	IsMuted        bool       `json:"isMuted"`
	RepeatMode     RepeatMode `json:"repeatMode"`
	IsShuffle      bool       `json:"isShuffle"`
	CurrentTrackID string     `json:"currentTrackId,omitempty"`
	CurrentAlbumID string     `json:"currentAlbumId,omitempty"`
}
