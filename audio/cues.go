// Package audio plays short synthesized cues for card transitions
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate         = beep.SampleRate(48000)
	speakerBufferDelay = 50 * time.Millisecond
)

// Cues owns the speaker mixer, every method is a no-op until Init succeeds
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	logger      *slog.Logger
	initialized bool
	played      map[Cue]int
}

// NewCues creates a cue player at volume (0..1)
func NewCues(volume float64, logger *slog.Logger) *Cues {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cues{
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger,
		played: make(map[Cue]int),
	}
}

// Init opens the speaker, failure leaves the player silent and is returned for logging
func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferDelay)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(c.mixer)
	c.initialized = true
	c.logger.Debug("audio initialized", "sample_rate", int(sampleRate))
	return nil
}

// Enabled reports whether the speaker is open
func (c *Cues) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Drop plays the falling sweep
func (c *Cues) Drop() { c.Play(CueDrop) }

// Settle plays the landing thud
func (c *Cues) Settle() { c.Play(CueSettle) }

// Pop plays the rising blip for a promote
func (c *Cues) Pop() { c.Play(CuePop) }

// Play queues cue on the mixer
func (c *Cues) Play(cue Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	s := withVolume(tone(cue, sampleRate), c.volume)
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
	c.played[cue]++
}

// Played returns how many times cue was queued
func (c *Cues) Played(cue Cue) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played[cue]
}

// Close clears the mixer and shuts the speaker down
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	c.initialized = false
}
