// Package timeline samples overlapping per-card tweens at arbitrary offsets
// A Timeline is built once per transition and is pure afterwards: Sample never mutates it
package timeline

import (
	"sort"
	"time"

	"github.com/lixenwraith/cardswap/ease"
)

// Vec is a position in layered space
type Vec struct {
	X, Y, Z float64
}

// State is the visual state of one card
type State struct {
	Pos   Vec
	Depth int
}

// Axis selects which coordinates a tween drives
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ

	AxisAll = AxisX | AxisY | AxisZ
)

const axisCount = 3

// Mark is a named phase label on the timeline
type Mark struct {
	Name string
	At   time.Duration
}

type tween struct {
	axes  Axis
	from  [axisCount]float64
	to    [axisCount]float64
	at    time.Duration
	dur   time.Duration
	curve ease.Func
}

type depthSet struct {
	at    time.Duration
	depth int
}

// Timeline holds tweens for a fixed set of cards
type Timeline struct {
	base     []State
	tweens   [][]tween    // per card, insertion order
	depths   [][]depthSet // per card, insertion order
	marks    []Mark
	duration time.Duration
}

// New creates a timeline whose cards start from base
func New(base []State) *Timeline {
	b := make([]State, len(base))
	copy(b, base)
	return &Timeline{
		base:   b,
		tweens: make([][]tween, len(base)),
		depths: make([][]depthSet, len(base)),
	}
}

// Cards returns the number of cards on the timeline
func (tl *Timeline) Cards() int {
	return len(tl.base)
}

// To tweens the selected axes of card toward target starting at offset at
// Start values are whatever the card shows at at, so tweens on one card must be added in start order
// The most recently started tween owns an axis until another takes it over
func (tl *Timeline) To(card int, target Vec, axes Axis, at, dur time.Duration, curve ease.Func) {
	if card < 0 || card >= len(tl.base) || axes == 0 {
		return
	}
	if at < 0 {
		at = 0
	}
	dur = ease.ClampDuration(dur)
	if curve == nil {
		curve = ease.Linear
	}

	start := tl.sampleCard(card, at).Pos
	tw := tween{
		axes:  axes,
		from:  [axisCount]float64{start.X, start.Y, start.Z},
		to:    [axisCount]float64{target.X, target.Y, target.Z},
		at:    at,
		dur:   dur,
		curve: curve,
	}
	tl.tweens[card] = append(tl.tweens[card], tw)
	tl.extend(at + dur)
}

// SetDepth switches the render layer of card at offset at
func (tl *Timeline) SetDepth(card, depth int, at time.Duration) {
	if card < 0 || card >= len(tl.base) {
		return
	}
	if at < 0 {
		at = 0
	}
	tl.depths[card] = append(tl.depths[card], depthSet{at: at, depth: depth})
	tl.extend(at)
}

// Mark labels offset at with name
func (tl *Timeline) Mark(name string, at time.Duration) {
	if at < 0 {
		at = 0
	}
	tl.marks = append(tl.marks, Mark{Name: name, At: at})
	sort.SliceStable(tl.marks, func(i, j int) bool { return tl.marks[i].At < tl.marks[j].At })
	tl.extend(at)
}

// Marks returns phase labels in time order
func (tl *Timeline) Marks() []Mark {
	out := make([]Mark, len(tl.marks))
	copy(out, tl.marks)
	return out
}

// Duration is the end of the latest tween, depth change or mark
func (tl *Timeline) Duration() time.Duration {
	return tl.duration
}

// Sample returns every card's state at offset t
func (tl *Timeline) Sample(t time.Duration) []State {
	out := make([]State, len(tl.base))
	for card := range tl.base {
		out[card] = tl.sampleCard(card, t)
	}
	return out
}

// SampleInto writes card states at offset t into dst, which must hold Cards() entries
func (tl *Timeline) SampleInto(dst []State, t time.Duration) {
	for card := range tl.base {
		if card < len(dst) {
			dst[card] = tl.sampleCard(card, t)
		}
	}
}

// Final returns the state after every tween completed
func (tl *Timeline) Final() []State {
	return tl.Sample(tl.duration)
}

func (tl *Timeline) sampleCard(card int, t time.Duration) State {
	st := tl.base[card]
	vals := [axisCount]float64{st.Pos.X, st.Pos.Y, st.Pos.Z}

	for axis := 0; axis < axisCount; axis++ {
		bit := Axis(1 << axis)
		owner := -1
		for i, tw := range tl.tweens[card] {
			if tw.axes&bit == 0 || tw.at > t {
				continue
			}
			// Later start wins; ties go to the later insertion
			if owner < 0 || tw.at >= tl.tweens[card][owner].at {
				owner = i
			}
		}
		if owner < 0 {
			continue
		}
		tw := tl.tweens[card][owner]
		p := float64(t-tw.at) / float64(tw.dur)
		if p > 1 {
			p = 1
		}
		vals[axis] = tw.from[axis] + (tw.to[axis]-tw.from[axis])*tw.curve(p)
	}

	depthAt := time.Duration(-1)
	for _, d := range tl.depths[card] {
		if d.at <= t && d.at >= depthAt {
			st.Depth = d.depth
			depthAt = d.at
		}
	}

	st.Pos = Vec{X: vals[0], Y: vals[1], Z: vals[2]}
	return st
}

func (tl *Timeline) extend(end time.Duration) {
	if end > tl.duration {
		tl.duration = end
	}
}
