package audio

import (
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silence is an in-memory seekable stream of zero samples, standing in for
// a decoded file.
type silence struct {
	pos    int
	length int
}

func (s *silence) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.length {
		return 0, false
	}
	n := len(samples)
	if rest := s.length - s.pos; rest < n {
		n = rest
	}
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{}
	}
	s.pos += n
	return n, true
}

func (s *silence) Err() error       { return nil }
func (s *silence) Len() int         { return s.length }
func (s *silence) Position() int    { return s.pos }
func (s *silence) Seek(p int) error { s.pos = p; return nil }
func (s *silence) Close() error     { return nil }

// newDrainedOutput builds an output whose stream has run to the end and
// whose end callback has been delivered, the state a track is in right
// before repeat-one or a resume after stopping.
func newDrainedOutput(t *testing.T) (*SpeakerOutput, *beep.Ctrl) {
	t.Helper()
	o := &SpeakerOutput{
		streamer: &silence{pos: int(speakerSampleRate), length: int(speakerSampleRate)},
		format:   beep.Format{SampleRate: speakerSampleRate, NumChannels: 2, Precision: 2},
	}
	o.playChain(true)
	stale := o.ctrl

	ended := make(chan struct{})
	o.OnEnded(func() { close(ended) })
	o.fireEnded()
	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("ended callback never delivered")
	}
	return o, stale
}

func TestPlayAfterStreamEndRebuildsChain(t *testing.T) {
	o, stale := newDrainedOutput(t)

	o.Seek(0)
	require.NoError(t, o.Play())

	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotNil(t, o.ctrl)
	assert.NotSame(t, stale, o.ctrl, "a spent chain cannot resume, a new one must reach the mixer")
	assert.False(t, o.ctrl.Paused)
	assert.False(t, o.drained)
	assert.Equal(t, 0, o.streamer.Position())
}

func TestEndedHandlerObservesDrainedOutput(t *testing.T) {
	o := &SpeakerOutput{
		streamer: &silence{pos: 100, length: 100},
		format:   beep.Format{SampleRate: speakerSampleRate, NumChannels: 2, Precision: 2},
	}
	o.playChain(false)

	// The handler restarts playback the way the store does on repeat-one;
	// the drained flag must already be set when it runs so Play rebuilds.
	drained := make(chan bool, 1)
	o.OnEnded(func() {
		o.mu.Lock()
		drained <- o.drained
		o.mu.Unlock()
	})
	o.fireEnded()

	select {
	case got := <-drained:
		assert.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("ended callback never delivered")
	}
}
