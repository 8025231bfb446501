// Package status is a small metrics registry for the stack engine
// Owners cache metric pointers once; hot paths write straight to the atomics
package status

import (
	"fmt"
	"sync/atomic"
)

// Registry is the central metrics facade
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Metric is a point-in-time reading of one named metric
type Metric struct {
	Key   string
	Value string
}

// Snapshot reads every metric, grouped by type and sorted by key within a group
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.TotalCount())
	r.Ints.Range(func(key string, v *atomic.Int64) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%d", v.Load())})
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%.3f", v.Get())})
	})
	r.Bools.Range(func(key string, v *atomic.Bool) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%t", v.Load())})
	})
	r.Strings.Range(func(key string, v *AtomicString) {
		out = append(out, Metric{Key: key, Value: v.Load()})
	})
	return out
}
