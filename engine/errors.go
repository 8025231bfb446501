package engine

import (
	"errors"

	"github.com/lixenwraith/cardswap/stack"
)

var (
	// ErrInvalidConfiguration rejects construction, no engine is returned
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidCardID rejects a promote request for an id outside the stack
	ErrInvalidCardID = stack.ErrInvalidCardID

	// ErrDisposed rejects requests made after Dispose
	ErrDisposed = errors.New("engine disposed")
)
