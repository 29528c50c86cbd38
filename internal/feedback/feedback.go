// Package feedback plays a short click when a contact starts.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

const (
	SampleRate beep.SampleRate = 44100

	toneFrequency   = 880.0
	toneDuration    = 30 * time.Millisecond
	toneVolume      = 0.3
	resampleQuality = 4
)

var ErrUnsupportedSound = errors.New("unsupported sound file")

// Clicker plays one buffered sound per Touch.
type Clicker struct {
	buf  *beep.Buffer
	play func(...beep.Streamer)
}

// Start initialises the speaker and returns a Clicker playing the file at
// path, or a generated tone when path is empty.
func Start(path string, log logger.Logger) (*Clicker, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return NewClicker(path, speaker.Play, log)
}

// NewClicker buffers the click sound at SampleRate. play receives a fresh
// streamer on every Touch.
func NewClicker(path string, play func(...beep.Streamer), log logger.Logger) (*Clicker, error) {
	if log == nil {
		log = logger.Discard()
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})

	if path == "" {
		buf.Append(Tone(SampleRate, toneFrequency, toneDuration))
	} else {
		streamer, format, err := Decode(path)
		if err != nil {
			return nil, err
		}
		var s beep.Streamer = streamer
		if format.SampleRate != SampleRate {
			s = beep.Resample(resampleQuality, format.SampleRate, SampleRate, streamer)
		}
		buf.Append(s)
		_ = streamer.Close()
	}
	log.Debug(context.Background(), "click sound buffered",
		logger.String("source", path),
		logger.Int("samples", buf.Len()))
	return &Clicker{buf: buf, play: play}, nil
}

// Touch implements recorder.Feedback.
func (c *Clicker) Touch() {
	if c == nil || c.buf.Len() == 0 {
		return
	}
	c.play(c.buf.Streamer(0, c.buf.Len()))
}

// Len returns the click length in samples.
func (c *Clicker) Len() int { return c.buf.Len() }

// Decode opens a wav, mp3 or flac file chosen by extension.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedSound, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return streamer, format, nil
}

// Tone returns a sine of freq Hz lasting d that fades out linearly.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1 - float64(pos)/float64(total)
			v := toneVolume * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
