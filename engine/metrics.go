package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/cardswap/status"
)

// Metric keys recorded by the engine
const (
	MetricCycles         = "transitions.cycle"
	MetricPromotes       = "transitions.promote"
	MetricCommitted      = "transitions.committed"
	MetricTicksDropped   = "ticks.dropped"
	MetricSignalsDropped = "signals.dropped"
	MetricInterrupts     = "interrupts"
	MetricPromoteNoop    = "promote.noop"
	MetricAnimating      = "engine.animating"
	MetricPaused         = "engine.paused"
	MetricLastKind       = "transition.kind"
	MetricLastSeconds    = "transition.seconds"
)

// metrics caches registry pointers so the hot path writes atomics directly
type metrics struct {
	cycles         *atomic.Int64
	promotes       *atomic.Int64
	committed      *atomic.Int64
	ticksDropped   *atomic.Int64
	signalsDropped *atomic.Int64
	interrupts     *atomic.Int64
	promoteNoop    *atomic.Int64
	animating      *atomic.Bool
	paused         *atomic.Bool
	lastKind       *status.AtomicString
	lastSeconds    *status.AtomicFloat
}

func newMetrics(reg *status.Registry) metrics {
	return metrics{
		cycles:         reg.Ints.Get(MetricCycles),
		promotes:       reg.Ints.Get(MetricPromotes),
		committed:      reg.Ints.Get(MetricCommitted),
		ticksDropped:   reg.Ints.Get(MetricTicksDropped),
		signalsDropped: reg.Ints.Get(MetricSignalsDropped),
		interrupts:     reg.Ints.Get(MetricInterrupts),
		promoteNoop:    reg.Ints.Get(MetricPromoteNoop),
		animating:      reg.Bools.Get(MetricAnimating),
		paused:         reg.Bools.Get(MetricPaused),
		lastKind:       reg.Strings.Get(MetricLastKind),
		lastSeconds:    reg.Floats.Get(MetricLastSeconds),
	}
}
