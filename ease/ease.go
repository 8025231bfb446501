// Package ease provides easing curves and the timing profiles of the stack presets
package ease

import "math"

// Func maps normalized progress t in [0,1] to eased progress, f(0)=0 and f(1)=1
// Output may leave [0,1] for springy curves
type Func func(t float64) float64

// Linear is the identity curve
func Linear(t float64) float64 {
	return clamp01(t)
}

// Power1InOut is a quadratic ease-in-out
func Power1InOut(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := 1 - t
	return 1 - 2*u*u
}

// Power1Out is a quadratic ease-out
func Power1Out(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u
}

// ElasticOut returns a decaying sinusoid that overshoots the target before settling
// amplitude below 1 stretches the period, matching the usual elastic.out(amplitude, period) convention
func ElasticOut(amplitude, period float64) Func {
	if period <= 0 {
		period = 0.3
	}
	a := amplitude
	if a < 1 {
		period /= math.Max(a, 1e-3)
		a = 1
	}
	shift := period / (2 * math.Pi) * math.Asin(1/a)
	omega := 2 * math.Pi / period

	return func(t float64) float64 {
		t = clamp01(t)
		if t == 0 || t == 1 {
			return t
		}
		return a*math.Pow(2, -10*t)*math.Sin((t-shift)*omega) + 1
	}
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
