// Package stack holds the front-to-back ordering of a card stack
// All operations are pure permutation transforms; callers own the returned slices
package stack

import (
	"errors"
	"fmt"
)

// ErrInvalidCardID is returned when a card identity is not part of the order
var ErrInvalidCardID = errors.New("invalid card id")

// Order is the front-to-back arrangement of card identities, index 0 is the front
type Order []int

// Initial returns the identity order [0..n-1], nil for n <= 0
func Initial(n int) Order {
	if n <= 0 {
		return nil
	}
	o := make(Order, n)
	for i := range o {
		o[i] = i
	}
	return o
}

// Cycle moves the front card to the tail
func Cycle(o Order) Order {
	if len(o) == 0 {
		return Order{}
	}
	next := make(Order, 0, len(o))
	next = append(next, o[1:]...)
	return append(next, o[0])
}

// Promote places id first and preserves the relative order of the rest
func Promote(o Order, id int) (Order, error) {
	if o.IndexOf(id) < 0 {
		return nil, fmt.Errorf("promote card %d: %w", id, ErrInvalidCardID)
	}
	next := make(Order, 0, len(o))
	next = append(next, id)
	for _, c := range o {
		if c != id {
			next = append(next, c)
		}
	}
	return next, nil
}

// Front returns the front card, -1 for an empty order
func (o Order) Front() int {
	if len(o) == 0 {
		return -1
	}
	return o[0]
}

// IndexOf returns the stack index of id, -1 if absent
func (o Order) IndexOf(id int) int {
	for i, c := range o {
		if c == id {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy
func (o Order) Clone() Order {
	if o == nil {
		return nil
	}
	c := make(Order, len(o))
	copy(c, o)
	return c
}

// Equal reports element-wise equality
func (o Order) Equal(other Order) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// IsPermutation reports whether o holds every identity in [0..n-1] exactly once
func (o Order) IsPermutation(n int) bool {
	if len(o) != n {
		return false
	}
	seen := make([]bool, n)
	for _, c := range o {
		if c < 0 || c >= n || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
