package ease

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/cardswap/parameter"
)

// ErrUnknownPreset is returned for an unrecognized preset name
var ErrUnknownPreset = errors.New("unknown easing preset")

// Preset selects the timing profile of the stack
type Preset string

const (
	PresetElastic Preset = "elastic"
	PresetLinear  Preset = "linear"
)

// ParsePreset resolves a preset name, empty selects elastic
func ParsePreset(s string) (Preset, error) {
	switch Preset(strings.ToLower(strings.TrimSpace(s))) {
	case "", PresetElastic:
		return PresetElastic, nil
	case PresetLinear:
		return PresetLinear, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
}

// Profile carries phase durations and overlap constants for one preset
type Profile struct {
	Name   string
	Ease   Func
	Drop   time.Duration
	Move   time.Duration
	Return time.Duration

	// Overlap is the fraction of Drop that the promote phase starts early by
	Overlap float64
	// ReturnDelay is the fraction of Move after the promote label at which the return phase starts
	ReturnDelay float64
}

// Resolve builds the profile for a preset
// Scroll-controlled stacks override the preset with short, low-overlap phases sized from scrollSwap
func Resolve(p Preset, scrollControlled bool, scrollSwap time.Duration) Profile {
	var prof Profile

	switch {
	case scrollControlled:
		d := max(parameter.ScrollMinSwapDuration, scrollSwap)
		phase := max(parameter.ScrollMinPhaseDuration, time.Duration(float64(d)*parameter.ScrollPhaseScale))
		prof = Profile{
			Name:        "scroll",
			Ease:        Power1Out,
			Drop:        phase,
			Move:        phase,
			Return:      phase,
			Overlap:     parameter.ScrollOverlap,
			ReturnDelay: parameter.ScrollReturnDelay,
		}
	case p == PresetLinear:
		prof = Profile{
			Name:        string(PresetLinear),
			Ease:        Power1InOut,
			Drop:        parameter.LinearPhaseDuration,
			Move:        parameter.LinearPhaseDuration,
			Return:      parameter.LinearPhaseDuration,
			Overlap:     parameter.LinearOverlap,
			ReturnDelay: parameter.LinearReturnDelay,
		}
	default:
		prof = Profile{
			Name:        string(PresetElastic),
			Ease:        ElasticOut(parameter.ElasticAmplitude, parameter.ElasticPeriod),
			Drop:        parameter.ElasticPhaseDuration,
			Move:        parameter.ElasticPhaseDuration,
			Return:      parameter.ElasticPhaseDuration,
			Overlap:     parameter.ElasticOverlap,
			ReturnDelay: parameter.ElasticReturnDelay,
		}
	}

	return prof.Clamped()
}

// Clamped floors non-positive durations and bounds the fractions to [0,1]
func (p Profile) Clamped() Profile {
	p.Drop = ClampDuration(p.Drop)
	p.Move = ClampDuration(p.Move)
	p.Return = ClampDuration(p.Return)
	p.Overlap = clamp01(p.Overlap)
	p.ReturnDelay = clamp01(p.ReturnDelay)
	if p.Ease == nil {
		p.Ease = Linear
	}
	return p
}

// ClampDuration floors d to parameter.MinDuration
func ClampDuration(d time.Duration) time.Duration {
	if d < parameter.MinDuration {
		return parameter.MinDuration
	}
	return d
}

// Scale multiplies a duration by a factor
func Scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}
