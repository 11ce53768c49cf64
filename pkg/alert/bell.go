// Package alert plays an audible bell when a countdown run ends.
package alert

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate the speaker is initialized with.
const SampleRate = beep.SampleRate(48000)

// fadeTime is the length of the attack and release ramps.
const fadeTime = 10 * time.Millisecond

// Ringer plays an alert.
type Ringer interface {
	// Ring starts playing the alert and returns without waiting for it
	// to finish.
	Ring() error
}

// Bell rings a sine tone through the default audio device.
type Bell struct {
	Frequency float64
	Duration  time.Duration

	initOnce sync.Once
	initErr  error

	mu   sync.Mutex
	done chan struct{}
}

// NewBell creates a bell with the given tone frequency in Hz and length.
func NewBell(frequency float64, duration time.Duration) *Bell {
	return &Bell{Frequency: frequency, Duration: duration}
}

// Streamer returns a fresh stream of the bell tone.
func (b *Bell) Streamer() beep.Streamer {
	n := SampleRate.N(b.Duration)
	return beep.Take(n, newTone(SampleRate, b.Frequency, n))
}

// Ring initializes the speaker on first use and plays the bell.
func (b *Bell) Ring() error {
	b.initOnce.Do(func() {
		b.initErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	if b.initErr != nil {
		return b.initErr
	}

	done := make(chan struct{})
	b.mu.Lock()
	b.done = done
	b.mu.Unlock()

	speaker.Play(beep.Seq(b.Streamer(), beep.Callback(func() {
		close(done)
	})))
	return nil
}

// Wait blocks until the last Ring has finished playing or d elapses.
// It returns false on timeout.
func (b *Bell) Wait(d time.Duration) bool {
	b.mu.Lock()
	done := b.done
	b.mu.Unlock()

	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// tone generates a sine wave with short linear fades at both ends.
type tone struct {
	sr    beep.SampleRate
	freq  float64
	total int
	fade  int
	pos   int
}

func newTone(sr beep.SampleRate, freq float64, total int) *tone {
	return &tone{
		sr:    sr,
		freq:  freq,
		total: total,
		fade:  max(sr.N(fadeTime), 1),
	}
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t) * g.envelope()

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *tone) envelope() float64 {
	attack := float64(g.pos) / float64(g.fade)
	release := float64(g.total-g.pos) / float64(g.fade)
	return math.Max(0, math.Min(1, math.Min(attack, release)))
}

func (g *tone) Err() error {
	return nil
}
