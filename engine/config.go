package engine

import (
	"fmt"
	"time"

	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/geometry"
	"github.com/lixenwraith/cardswap/parameter"
)

// Mode selects what drives cycle transitions
type Mode int

const (
	// ModeAutoplay cycles on a recurring Delay timer
	ModeAutoplay Mode = iota
	// ModeSignal cycles once per external advance signal
	ModeSignal
)

func (m Mode) String() string {
	if m == ModeSignal {
		return "signal"
	}
	return "autoplay"
}

// Config is fixed for the engine's lifetime
type Config struct {
	CardCount int

	// Card size in px, used by hosts for projection and hit testing
	Width  float64
	Height float64

	CardDistance     float64
	VerticalDistance float64
	SkewAmount       float64 // degrees

	Easing ease.Preset
	Delay  time.Duration // autoplay idle delay between cycles

	PauseOnHover       bool
	ScrollControlled   bool
	ScrollSwapDuration time.Duration
	ClickToFront       bool
}

// DefaultConfig returns the stock showcase configuration for cardCount cards
func DefaultConfig(cardCount int) Config {
	return Config{
		CardCount:          cardCount,
		Width:              parameter.DefaultWidth,
		Height:             parameter.DefaultHeight,
		CardDistance:       parameter.DefaultCardDistance,
		VerticalDistance:   parameter.DefaultVerticalDistance,
		SkewAmount:         parameter.DefaultSkewAmount,
		Easing:             ease.PresetElastic,
		Delay:              parameter.DefaultDelay,
		ScrollSwapDuration: parameter.DefaultScrollSwapDuration,
		ClickToFront:       true,
	}
}

// Mode reports which scheduler drives cycles
func (c Config) Mode() Mode {
	if c.ScrollControlled {
		return ModeSignal
	}
	return ModeAutoplay
}

// Layout returns the slot layout for this configuration
func (c Config) Layout() geometry.Layout {
	return geometry.Layout{
		CardDistance:     c.CardDistance,
		VerticalDistance: c.VerticalDistance,
		Skew:             c.SkewAmount,
		Total:            c.CardCount,
	}
}

// Profile returns the timing profile after scroll overrides and clamping
func (c Config) Profile() ease.Profile {
	return ease.Resolve(c.Easing, c.ScrollControlled, c.ScrollSwapDuration)
}

// normalize validates the card count and floors timing values
func (c Config) normalize() (Config, error) {
	if c.CardCount <= 0 {
		return Config{}, fmt.Errorf("card count %d: %w", c.CardCount, ErrInvalidConfiguration)
	}
	if c.Delay < parameter.MinDelay {
		c.Delay = parameter.MinDelay
	}
	if c.ScrollSwapDuration <= 0 {
		c.ScrollSwapDuration = parameter.MinDuration
	}
	if c.Easing == "" {
		c.Easing = ease.PresetElastic
	}
	return c, nil
}
