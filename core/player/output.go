package player

import (
	"KestrelFM/model"
)

// Output is the single audio device the store drives. The store owns it
// exclusively; no other component may touch position, volume or source.
// Implementations must deliver the ended and loaded callbacks from a
// goroutine that is free to call back into the output.
type Output interface {
	// Load points the output at a new source. Any previously loaded
	// stream is released. The loaded callback fires with the stream
	// duration once known.
	Load(src string) error
	// Play starts or resumes playback. It returns an error when the
	// device refused to start, e.g. no stream loaded or the device
	// failed to open.
	Play() error
	Pause()
	// Seek moves the playback position, in seconds. Out-of-range values
	// are clamped by the output.
	Seek(seconds float64)
	// SetVolume sets the effective output volume in [0, 1]; 0 silences.
	SetVolume(v float64)
	// Position reports the current playback position in seconds.
	Position() float64
	OnEnded(fn func())
	OnLoaded(fn func(durationSeconds float64))
	Close() error
}

// StateStore persists the preference snapshot across sessions. Load reports
// ok=false when no snapshot exists yet.
type StateStore interface {
	Save(snap model.PlayerSnapshot) error
	Load() (snap model.PlayerSnapshot, ok bool, err error)
}
