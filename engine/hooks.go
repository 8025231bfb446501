package engine

import "github.com/lixenwraith/cardswap/stack"

// Hooks are collaborator callbacks; nil fields are skipped
// They run in event order after the engine lock is released, on the goroutine that produced the event
type Hooks struct {
	// OrderChanged fires once per committed transition, never mid-flight
	OrderChanged func(order stack.Order)

	// CardActivated fires on every accepted RequestPromote, including the already-front case
	CardActivated func(id int)

	// TransitionStarted fires when a cycle or promote begins
	TransitionStarted func(tr Transition)

	// Phase fires as the active transition crosses each phase label
	Phase func(kind Kind, phase string)
}
