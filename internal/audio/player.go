// Package audio plays a song's music file and exposes its playback position
// as a session clock.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// initSpeaker opens the output device once per process. Tracks at other
// sample rates are resampled to the first track's rate.
func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(time.Second/60))
	})
	return speakerErr
}

// Player is one decoded music file.
type Player struct {
	path     string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl

	mu      sync.Mutex
	playing bool
}

// Open decodes the file at path; the codec is chosen by extension.
func Open(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: cannot open %s: %w", path, err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("audio: unsupported format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: cannot decode %s: %w", path, err)
	}

	return &Player{
		path:     path,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer},
	}, nil
}

// Duration returns the length of the track.
func (p *Player) Duration() time.Duration {
	return p.format.SampleRate.D(p.streamer.Len())
}

// Play rewinds the track and starts it on the speaker.
func (p *Player) Play() error {
	if err := initSpeaker(p.format.SampleRate); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Lock()
	err := p.streamer.Seek(0)
	p.ctrl.Paused = false
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("audio: cannot rewind %s: %w", p.path, err)
	}

	if !p.playing {
		var s beep.Streamer = p.ctrl
		if p.format.SampleRate != speakerRate {
			s = beep.Resample(4, p.format.SampleRate, speakerRate, s)
		}
		speaker.Play(s)
		p.playing = true
	}
	return nil
}

// Position returns how far into the track playback is.
func (p *Player) Position() time.Duration {
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Stop pauses playback; Play starts again from the top.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	p.mu.Lock()
	playing := p.playing
	p.playing = false
	p.mu.Unlock()

	if playing {
		speaker.Lock()
		p.ctrl.Streamer = nil // the mixer drops a drained streamer
		speaker.Unlock()
	}
	return p.streamer.Close()
}
