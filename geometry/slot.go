// Package geometry maps stack indices to layered card slots
package geometry

import "github.com/lixenwraith/cardswap/stack"

// DepthFactor scales horizontal spacing into Z recession
const DepthFactor = 1.5

// Slot is the resting geometry of one stack index
// Y grows downward; deeper cards sit up and to the right
type Slot struct {
	X, Y, Z    float64
	Skew       float64 // degrees, applied as a vertical skew
	StackIndex int     // 0 = front
	Depth      int     // render layer, front is highest
}

// Layout holds the spacing used to derive slots for a stack of Total cards
type Layout struct {
	CardDistance     float64
	VerticalDistance float64
	Skew             float64
	Total            int
}

// Slot returns the resting slot for stack index i
func (l Layout) Slot(i int) Slot {
	fi := float64(i)
	return Slot{
		X:          fi * l.CardDistance,
		Y:          -fi * l.VerticalDistance,
		Z:          -fi * l.CardDistance * DepthFactor,
		Skew:       l.Skew,
		StackIndex: i,
		Depth:      l.Total - i,
	}
}

// Back returns the slot of the last stack index
func (l Layout) Back() Slot {
	return l.Slot(l.Total - 1)
}

// Rest returns slots indexed by card identity for a committed order
func (l Layout) Rest(o stack.Order) []Slot {
	slots := make([]Slot, len(o))
	for i, id := range o {
		if id >= 0 && id < len(slots) {
			slots[id] = l.Slot(i)
		}
	}
	return slots
}
