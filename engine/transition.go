package engine

import (
	"time"

	"github.com/lixenwraith/cardswap/clock"
	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/geometry"
	"github.com/lixenwraith/cardswap/parameter"
	"github.com/lixenwraith/cardswap/stack"
	"github.com/lixenwraith/cardswap/timeline"
)

// Kind distinguishes routine rotation from an out-of-turn reorder
type Kind int

const (
	// KindCycle moves the front card to the back
	KindCycle Kind = iota
	// KindPromote brings a chosen card to the front
	KindPromote
)

func (k Kind) String() string {
	if k == KindPromote {
		return "promote"
	}
	return "cycle"
}

// Phase names as they appear in Transition.Phases and the Phase hook
const (
	PhaseDrop    = "drop"
	PhasePromote = "promote"
	PhaseReturn  = "return"
)

// Transition describes one animation run
type Transition struct {
	Kind      Kind
	Moving    int // dropped card for a cycle, requested card for a promote
	From      stack.Order
	Result    stack.Order
	Phases    []timeline.Mark
	StartedAt time.Time
	Duration  time.Duration
}

// run is the engine-owned state of the active transition
type run struct {
	tr    Transition
	tl    *timeline.Timeline
	watch *clock.Stopwatch

	timers []clock.Timer
	token  uint64 // matches captured callback tokens while armed, 0 when disarmed
	fired  int    // phase marks already reported
}

func (r *run) clone() Transition {
	tr := r.tr
	tr.From = r.tr.From.Clone()
	tr.Result = r.tr.Result.Clone()
	tr.Phases = append([]timeline.Mark(nil), r.tr.Phases...)
	return tr
}

// restStates converts committed slots to timeline states indexed by card
func restStates(l geometry.Layout, o stack.Order) []timeline.State {
	slots := l.Rest(o)
	out := make([]timeline.State, len(slots))
	for id, s := range slots {
		out[id] = slotState(s)
	}
	return out
}

func slotState(s geometry.Slot) timeline.State {
	return timeline.State{Pos: slotVec(s), Depth: s.Depth}
}

func slotVec(s geometry.Slot) timeline.Vec {
	return timeline.Vec{X: s.X, Y: s.Y, Z: s.Z}
}

// buildCycle sequences drop, promote and return for moving order[0] to the back
// Phase two starts overlap*drop before the drop completes; return starts returnDelay*move after phase two
func buildCycle(base []timeline.State, l geometry.Layout, p ease.Profile, from stack.Order) *timeline.Timeline {
	tl := timeline.New(base)
	front := from[0]
	rest := from[1:]

	tl.Mark(PhaseDrop, 0)
	cur := base[front].Pos
	tl.To(front, timeline.Vec{X: cur.X, Y: cur.Y + parameter.DropDistance, Z: cur.Z}, timeline.AxisY, 0, p.Drop, p.Ease)

	promoteAt := p.Drop - ease.Scale(p.Drop, p.Overlap)
	tl.Mark(PhasePromote, promoteAt)
	for i, id := range rest {
		s := l.Slot(i)
		tl.SetDepth(id, s.Depth, promoteAt)
		tl.To(id, slotVec(s), timeline.AxisAll, promoteAt+time.Duration(i)*parameter.CycleStagger, p.Move, p.Ease)
	}

	returnAt := promoteAt + ease.Scale(p.Move, p.ReturnDelay)
	back := l.Back()
	travel := ease.Scale(p.Return, parameter.ReturnTravelFraction)

	tl.Mark(PhaseReturn, returnAt)
	tl.SetDepth(front, back.Depth, returnAt)
	tl.To(front, timeline.Vec{X: back.X, Y: back.Y - parameter.ReturnLift, Z: back.Z}, timeline.AxisAll, returnAt, travel, p.Ease)
	tl.To(front, timeline.Vec{Y: back.Y}, timeline.AxisY, returnAt+travel, p.Return-travel, p.Ease)

	return tl
}

// buildPromote arcs id into the front slot while every other card slides to its shifted slot
func buildPromote(base []timeline.State, l geometry.Layout, p ease.Profile, result stack.Order, id int) *timeline.Timeline {
	tl := timeline.New(base)
	tl.Mark(PhasePromote, 0)

	travel := ease.Scale(p.Move, parameter.PopTravelFraction)
	settle := ease.Scale(p.Move, parameter.PopSettleFraction)

	for i, cid := range result {
		s := l.Slot(i)
		at := time.Duration(i) * parameter.PromoteStagger
		tl.SetDepth(cid, s.Depth, 0)

		if cid == id {
			tl.To(cid, timeline.Vec{X: s.X, Y: s.Y - parameter.PopLift, Z: s.Z}, timeline.AxisAll, at, travel, p.Ease)
			tl.To(cid, timeline.Vec{Y: s.Y}, timeline.AxisY, at+travel-settle, settle, p.Ease)
			continue
		}
		tl.To(cid, slotVec(s), timeline.AxisAll, at, p.Move, p.Ease)
	}

	return tl
}
