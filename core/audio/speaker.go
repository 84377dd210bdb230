// Package audio implements the player's audio output over the system
// speaker. It is the only package that talks to the audio device.
package audio

import (
	"errors"
	"math"
	"os"
	"sync"
	"time"

	"KestrelFM/core/player"
	"KestrelFM/logger"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// The speaker is initialized once at this rate; every stream is resampled
// to it so track sample rates can vary freely.
const speakerSampleRate = beep.SampleRate(44100)

var errNoStream = errors.New("no stream loaded")

// SpeakerOutput drives the system speaker through beep. One stream is
// loaded at a time; loading a new source releases the previous one.
type SpeakerOutput struct {
	mu       sync.Mutex
	initErr  error
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	volumeDB float64
	silent   bool
	drained  bool

	onEnded  func()
	onLoaded func(float64)
}

var _ player.Output = (*SpeakerOutput)(nil)

// NewSpeakerOutput opens the audio device. A failed init is not fatal here;
// it surfaces later as a Play error, which the store treats as a rejected
// playback start.
func NewSpeakerOutput() *SpeakerOutput {
	o := &SpeakerOutput{}
	o.initErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Millisecond*100))
	return o
}

// Load decodes the mp3 at src and queues it on the speaker, paused. The
// loaded callback fires with the stream duration.
func (o *SpeakerOutput) Load(src string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initErr != nil {
		return o.initErr
	}
	o.unload()

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return err
	}
	o.streamer = streamer
	o.format = format
	o.drained = false
	o.playChain(true)

	if fn := o.onLoaded; fn != nil {
		d := float64(streamer.Len()) / float64(format.SampleRate)
		go fn(d)
	}
	return nil
}

// Play resumes the loaded stream. Errors when the device failed to open or
// nothing is loaded.
func (o *SpeakerOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initErr != nil {
		return o.initErr
	}
	if o.ctrl == nil {
		return errNoStream
	}
	// A fully streamed chain was dropped by the mixer and its end callback
	// is spent; restarting needs a fresh chain over the seeked streamer.
	if o.drained {
		o.drained = false
		o.playChain(false)
		return nil
	}
	speaker.Lock()
	o.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause halts the stream without releasing it.
func (o *SpeakerOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctrl == nil {
		return
	}
	speaker.Lock()
	o.ctrl.Paused = true
	speaker.Unlock()
}

// Seek moves the stream position, clamped to the stream bounds.
func (o *SpeakerOutput) Seek(seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.streamer == nil {
		return
	}
	n := int(seconds * float64(o.format.SampleRate))
	if n < 0 {
		n = 0
	} else if n > o.streamer.Len() {
		n = o.streamer.Len()
	}
	speaker.Lock()
	err := o.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		logger.Warn("seek failed", logger.Float64("seconds", seconds), logger.ErrorField(err))
	}
}

// SetVolume maps [0, 1] onto the exponential volume effect; 0 silences.
func (o *SpeakerOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if v <= 0 {
		o.silent = true
		o.volumeDB = 0
	} else {
		o.silent = false
		o.volumeDB = math.Log2(v)
	}
	if o.volume != nil {
		speaker.Lock()
		o.volume.Silent = o.silent
		o.volume.Volume = o.volumeDB
		speaker.Unlock()
	}
}

// Position reports the playback position in seconds.
func (o *SpeakerOutput) Position() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := o.streamer.Position()
	speaker.Unlock()
	return float64(pos) / float64(o.format.SampleRate)
}

// OnEnded registers the end-of-stream callback. Register before playback
// starts.
func (o *SpeakerOutput) OnEnded(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onEnded = fn
}

// OnLoaded registers the stream-loaded callback.
func (o *SpeakerOutput) OnLoaded(fn func(durationSeconds float64)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onLoaded = fn
}

// Close silences the speaker and releases the loaded stream.
func (o *SpeakerOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initErr == nil {
		speaker.Clear()
	}
	o.unload()
	return nil
}

// unload releases the current stream. Lock held.
func (o *SpeakerOutput) unload() {
	if o.streamer != nil {
		o.streamer.Close()
		o.streamer = nil
	}
	o.ctrl = nil
	o.volume = nil
}

// playChain builds the resample/ctrl/volume chain over the current streamer
// at its current position and hands it to the speaker, replacing whatever
// the mixer held before. Lock held.
func (o *SpeakerOutput) playChain(paused bool) {
	resampled := beep.Resample(4, o.format.SampleRate, speakerSampleRate, o.streamer)
	o.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(resampled, beep.Callback(o.fireEnded)),
		Paused:   paused,
	}
	o.volume = &effects.Volume{
		Streamer: o.ctrl,
		Base:     2,
		Volume:   o.volumeDB,
		Silent:   o.silent,
	}
	speaker.Clear()
	speaker.Play(o.volume)
}

// fireEnded runs on the speaker goroutine with the speaker lock held, so the
// work moves to a fresh goroutine where locks may be taken. The drained flag
// is recorded before the handler runs; the handler may then seek and call
// Play, which rebuilds the chain.
func (o *SpeakerOutput) fireEnded() {
	go func() {
		o.mu.Lock()
		o.drained = true
		fn := o.onEnded
		o.mu.Unlock()
		if fn != nil {
			fn()
		}
	}()
}
