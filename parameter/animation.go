package parameter

import "time"

// Cycle Transition Geometry
const (
	// DropDistance is how far the front card falls below its slot during the drop phase
	DropDistance = 460.0

	// ReturnLift is the overshoot above the back slot before the returning card settles
	ReturnLift = 24.0

	// ReturnTravelFraction is the share of the return duration spent travelling to the lifted point
	// The remainder settles from the lift onto the back slot
	ReturnTravelFraction = 0.75

	// CycleStagger offsets each promoted card's slide in the cycle transition
	CycleStagger = 120 * time.Millisecond
)

// Promote Transition Geometry
const (
	// PopLift is the upward arc of the promoted card mid-path
	PopLift = 80.0

	// PopTravelFraction is the share of the move duration spent travelling to the lifted front slot
	PopTravelFraction = 0.75

	// PopSettleFraction is the share of the move duration spent settling onto the front slot
	PopSettleFraction = 0.35

	// PromoteStagger offsets each reshuffled card's slide in the promote transition
	PromoteStagger = 60 * time.Millisecond
)

// Easing Presets
const (
	ElasticAmplitude = 0.6
	ElasticPeriod    = 0.9

	ElasticPhaseDuration = 2 * time.Second
	ElasticOverlap       = 0.9
	ElasticReturnDelay   = 0.05

	LinearPhaseDuration = 800 * time.Millisecond
	LinearOverlap       = 0.45
	LinearReturnDelay   = 0.2

	// Scroll-controlled override
	ScrollMinSwapDuration  = 250 * time.Millisecond
	ScrollMinPhaseDuration = 220 * time.Millisecond
	ScrollPhaseScale       = 0.85
	ScrollOverlap          = 0.2
	ScrollReturnDelay      = 0.02
)

// Perspective is the viewer distance used to project Z onto the screen plane
const Perspective = 900.0
