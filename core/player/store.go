package player

import (
	"math/rand"
	"sync"
	"time"

	"KestrelFM/logger"
	"KestrelFM/model"
)

const defaultVolume = 0.8

// Direction selects which way SkipTrack moves.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Store is the playback state store: the single authority over what is
// loaded into the audio output and how transport controls affect it. All
// state transitions re-derive from the state held at call time, so output
// callbacks arriving at arbitrary points stay safe.
type Store struct {
	mu    sync.Mutex
	out   Output
	state StateStore // nil when no durable store is available

	library      *model.MusicLibrary
	current      *model.Track
	currentAlbum *model.Album
	queue        []model.Track

	playing          bool
	currentTime      float64
	duration         float64
	volume           float64
	muted            bool
	repeat           model.RepeatMode
	shuffle          bool
	showMiniPlaylist bool

	rng        *rand.Rand
	tickerStop chan struct{}
	closed     bool
}

// Status is a read-only view of the store for presentation components.
type Status struct {
	Track            *model.Track
	Album            *model.Album
	Playing          bool
	CurrentTime      float64
	Duration         float64
	Volume           float64
	Muted            bool
	Repeat           model.RepeatMode
	Shuffle          bool
	ShowMiniPlaylist bool
}

// NewStore creates the store with defaults, restores persisted preferences
// and hooks the output callbacks.
func NewStore(out Output, state StateStore) *Store {
	s := &Store{
		out:     out,
		state:   state,
		library: &model.MusicLibrary{},
		volume:  defaultVolume,
		repeat:  model.RepeatNone,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.restore()
	out.OnLoaded(func(d float64) {
		s.mu.Lock()
		s.duration = d
		s.mu.Unlock()
	})
	out.OnEnded(s.handleTrackEnded)
	return s
}

// restore applies the persisted preference snapshot. Missing or corrupt
// data falls back to the defaults; track identity is resolved later by the
// caller once a library has been scanned.
func (s *Store) restore() {
	if s.state == nil {
		return
	}
	snap, ok, err := s.state.Load()
	if err != nil {
		logger.Warn("failed to load player state, using defaults", logger.ErrorField(err))
		return
	}
	if !ok {
		return
	}
	if snap.Volume >= 0 && snap.Volume <= 1 {
		s.volume = snap.Volume
	}
	s.muted = snap.IsMuted
	if snap.RepeatMode.Valid() {
		s.repeat = snap.RepeatMode
	}
	s.shuffle = snap.IsShuffle
	// Repeat and shuffle are mutually exclusive; a corrupt snapshot must
	// not reintroduce both.
	if s.shuffle {
		s.repeat = model.RepeatNone
	}
}

// persist writes the preference snapshot. Called with the lock held on
// every change to volume, mute, repeat, shuffle or current track identity.
// Failures are logged and swallowed; persistence is never fatal.
func (s *Store) persist() {
	if s.state == nil {
		return
	}
	snap := model.PlayerSnapshot{
		Volume:     s.volume,
		IsMuted:    s.muted,
		RepeatMode: s.repeat,
		IsShuffle:  s.shuffle,
	}
	if s.current != nil {
		snap.CurrentTrackID = s.current.ID
	}
	if s.currentAlbum != nil {
		snap.CurrentAlbumID = s.currentAlbum.ID
	}
	if err := s.state.Save(snap); err != nil {
		logger.Warn("failed to save player state", logger.ErrorField(err))
	}
}

// UpdateLibrary replaces the held library snapshot. When an initial track is
// given it becomes the current track, with its album context resolved like
// PlayTrack does, but playback is not started. Used to seed state on
// startup and after rescans.
func (s *Store) UpdateLibrary(lib *model.MusicLibrary, initialTrack *model.Track, initialAlbum *model.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.library = lib
	if initialTrack == nil {
		return
	}
	t := *initialTrack
	s.current = &t
	if initialAlbum != nil {
		s.currentAlbum = initialAlbum
	} else if album := s.albumOf(t.ID); album != nil {
		s.currentAlbum = album
	}
	s.rebuildQueue()
	s.currentTime = 0
	s.duration = 0
	if err := s.out.Load(t.AudioPath); err != nil {
		logger.Warn("failed to load initial track",
			logger.String("track", t.ID), logger.ErrorField(err))
	} else {
		s.applyVolume()
	}
	s.persist()
}

// PlayTrack makes the track current and starts playback. The album context
// is the given album, else the first library album containing the track,
// else none (a single).
func (s *Store) PlayTrack(track model.Track, album *model.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if album != nil {
		s.currentAlbum = album
	} else {
		s.currentAlbum = s.albumOf(track.ID)
	}
	s.startTrack(track, true)
}

// TogglePlay flips between playing and paused. No-op without a current track.
func (s *Store) TogglePlay() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	if s.playing {
		s.out.Pause()
		s.playing = false
	} else if err := s.out.Play(); err != nil {
		logger.Warn("playback start rejected", logger.ErrorField(err))
	} else {
		s.playing = true
	}
	s.syncTicker()
}

// SkipTrack moves through the play queue (album context) or the singles
// list. Prev restarts the current track once more than three seconds have
// elapsed.
func (s *Store) SkipTrack(dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	if dir == Next {
		s.nextTrack()
	} else {
		s.prevTrack()
	}
}

// Seek moves the playback position to the given time in seconds.
func (s *Store) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out.Seek(seconds)
	s.currentTime = seconds
}

// SetVolume clamps to [0, 1] and unmutes when raised above zero while muted.
func (s *Store) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	s.volume = v
	if s.muted && v > 0 {
		s.muted = false
	}
	s.applyVolume()
	s.persist()
}

// ToggleMute flips the mute flag without touching the stored volume.
func (s *Store) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = !s.muted
	s.applyVolume()
	s.persist()
}

// ToggleRepeat cycles none -> all -> one -> none. Enabling repeat clears
// shuffle; the two are mutually exclusive.
func (s *Store) ToggleRepeat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.repeat = s.repeat.Next()
	if s.repeat != model.RepeatNone && s.shuffle {
		s.shuffle = false
		s.rebuildQueue()
	}
	s.persist()
}

// ToggleShuffle flips shuffle. Enabling shuffle clears repeat.
func (s *Store) ToggleShuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shuffle = !s.shuffle
	if s.shuffle && s.repeat != model.RepeatNone {
		s.repeat = model.RepeatNone
	}
	s.rebuildQueue()
	s.persist()
}

// ToggleMiniPlaylist flips the mini playlist visibility. UI state only,
// not persisted.
func (s *Store) ToggleMiniPlaylist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showMiniPlaylist = !s.showMiniPlaylist
}

// Status returns a consistent view of the current state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Track:            s.current,
		Album:            s.currentAlbum,
		Playing:          s.playing,
		CurrentTime:      s.currentTime,
		Duration:         s.duration,
		Volume:           s.volume,
		Muted:            s.muted,
		Repeat:           s.repeat,
		Shuffle:          s.shuffle,
		ShowMiniPlaylist: s.showMiniPlaylist,
	}
}

// Queue returns a copy of the derived play queue.
func (s *Store) Queue() []model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := make([]model.Track, len(s.queue))
	copy(queue, s.queue)
	return queue
}

// Library returns the current library snapshot.
func (s *Store) Library() *model.MusicLibrary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.library
}

// Close stops the progress ticker and releases the output.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.playing = false
	s.syncTicker()
	return s.out.Close()
}

// handleTrackEnded is the output's end-of-stream callback. Repeat-one
// restarts the same track; everything else follows next-track semantics.
func (s *Store) handleTrackEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.current == nil {
		return
	}
	if s.repeat == model.RepeatOne {
		s.out.Seek(0)
		s.currentTime = 0
		if err := s.out.Play(); err != nil {
			logger.Warn("playback start rejected", logger.ErrorField(err))
			s.playing = false
			s.syncTicker()
		}
		return
	}
	s.nextTrack()
}

// nextTrack advances within the play queue or the singles list. At the end
// it wraps only under repeat-all, otherwise playback stops at position zero.
// Lock held.
func (s *Store) nextTrack() {
	if s.currentAlbum != nil && len(s.queue) > 0 {
		idx := indexByID(s.queue, s.current.ID)
		if idx < 0 {
			return
		}
		next := (idx + 1) % len(s.queue)
		if next == 0 && s.repeat == model.RepeatNone {
			s.stopAtZero()
			return
		}
		s.startTrack(s.queue[next], true)
		return
	}

	singles := s.library.Singles
	if s.currentAlbum == nil && len(singles) > 0 {
		idx := indexByID(singles, s.current.ID)
		if idx < 0 {
			return
		}
		switch {
		case idx < len(singles)-1:
			s.startTrack(singles[idx+1], true)
		case s.repeat == model.RepeatAll:
			s.startTrack(singles[0], true)
		default:
			s.stopAtZero()
		}
	}
}

// prevTrack restarts the current track when more than three seconds have
// elapsed; otherwise it moves to the preceding entry. The album queue wraps
// from position zero; the singles list wraps only under repeat-all. Lock
// held.
func (s *Store) prevTrack() {
	if s.currentAlbum != nil && len(s.queue) > 0 {
		idx := indexByID(s.queue, s.current.ID)
		if idx < 0 {
			return
		}
		if s.currentTime < 3 {
			prev := (idx - 1 + len(s.queue)) % len(s.queue)
			s.startTrack(s.queue[prev], false)
		} else {
			s.restartCurrent()
		}
		return
	}

	singles := s.library.Singles
	if len(singles) > 0 {
		idx := indexByID(singles, s.current.ID)
		if idx < 0 {
			return
		}
		if s.currentTime >= 3 {
			s.restartCurrent()
			return
		}
		switch {
		case idx > 0:
			s.startTrack(singles[idx-1], false)
		case s.repeat == model.RepeatAll:
			s.startTrack(singles[len(singles)-1], false)
		default:
			s.restartCurrent()
		}
	}
}

// startTrack makes t the current track, re-derives the queue and points the
// output at it. forcePlay starts playback regardless; otherwise the current
// playing state carries over (prev keeps a paused player paused). Lock held.
func (s *Store) startTrack(t model.Track, forcePlay bool) {
	s.current = &t
	s.rebuildQueue()
	s.currentTime = 0
	s.duration = 0

	shouldPlay := forcePlay || s.playing
	s.playing = false
	if err := s.out.Load(t.AudioPath); err != nil {
		logger.Warn("failed to load track",
			logger.String("track", t.ID), logger.ErrorField(err))
	} else {
		s.applyVolume()
		if shouldPlay {
			if err := s.out.Play(); err != nil {
				logger.Warn("playback start rejected",
					logger.String("track", t.ID), logger.ErrorField(err))
			} else {
				s.playing = true
			}
		}
	}
	s.syncTicker()
	s.persist()
}

// stopAtZero ends playback and resets the position, leaving the current
// track loaded. Lock held.
func (s *Store) stopAtZero() {
	s.playing = false
	s.out.Pause()
	s.out.Seek(0)
	s.currentTime = 0
	s.syncTicker()
}

// restartCurrent rewinds the current track without changing play state.
// Lock held.
func (s *Store) restartCurrent() {
	s.out.Seek(0)
	s.currentTime = 0
}

// albumOf returns the first library album containing the track, or nil.
// Lock held.
func (s *Store) albumOf(trackID string) *model.Album {
	for i := range s.library.Albums {
		if indexByID(s.library.Albums[i].Tracks, trackID) >= 0 {
			return &s.library.Albums[i]
		}
	}
	return nil
}

// applyVolume pushes the effective volume (zero while muted) to the output.
// Lock held.
func (s *Store) applyVolume() {
	if s.muted {
		s.out.SetVolume(0)
		return
	}
	s.out.SetVolume(s.volume)
}

// syncTicker starts the progress poller when playing and stops it when not.
// Lock held.
func (s *Store) syncTicker() {
	if s.playing && s.tickerStop == nil {
		stop := make(chan struct{})
		s.tickerStop = stop
		go s.pollPosition(stop)
	} else if !s.playing && s.tickerStop != nil {
		close(s.tickerStop)
		s.tickerStop = nil
	}
}

// pollPosition mirrors the output position into observable state roughly 60
// times per second while playback runs.
func (s *Store) pollPosition(stop chan struct{}) {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			pos := s.out.Position()
			s.mu.Lock()
			if s.tickerStop != nil {
				s.currentTime = pos
			}
			s.mu.Unlock()
		}
	}
}
