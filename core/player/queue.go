package player

import (
	"KestrelFM/model"
)

// rebuildQueue derives the play queue from the current album and shuffle
// state. Called with the store lock held whenever the current album, the
// shuffle flag or the current track changes.
//
// Outside an album context there is no queue; next/prev navigate the
// singles list directly. Under shuffle the current track is pinned at index
// 0 and the remainder is uniformly permuted, so "next" always advances into
// the shuffled tail and "prev" from position 0 wraps into it.
func (s *Store) rebuildQueue() {
	if s.currentAlbum == nil {
		s.queue = nil
		return
	}
	queue := make([]model.Track, len(s.currentAlbum.Tracks))
	copy(queue, s.currentAlbum.Tracks)

	if s.shuffle && s.current != nil {
		if idx := indexByID(queue, s.current.ID); idx >= 0 {
			queue[0], queue[idx] = queue[idx], queue[0]
			rest := queue[1:]
			s.rng.Shuffle(len(rest), func(i, j int) {
				rest[i], rest[j] = rest[j], rest[i]
			})
		}
	}
	s.queue = queue
}

func indexByID(tracks []model.Track, id string) int {
	for i := range tracks {
		if tracks[i].ID == id {
			return i
		}
	}
	return -1
}
