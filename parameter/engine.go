package parameter

import "time"

// Frame & Scheduler Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MinDelay is the floor applied to the autoplay idle delay
	MinDelay = 50 * time.Millisecond

	// MinDuration is the floor applied to every phase duration
	MinDuration = 10 * time.Millisecond
)

// Engine Defaults
const (
	DefaultWidth              = 500.0
	DefaultHeight             = 400.0
	DefaultCardDistance       = 60.0
	DefaultVerticalDistance   = 70.0
	DefaultSkewAmount         = 6.0
	DefaultDelay              = 5 * time.Second
	DefaultScrollSwapDuration = 500 * time.Millisecond
)
