package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue identifies one short sound
type Cue int

const (
	CueDrop Cue = iota
	CueSettle
	CuePop
)

func (c Cue) String() string {
	switch c {
	case CueDrop:
		return "drop"
	case CueSettle:
		return "settle"
	case CuePop:
		return "pop"
	default:
		return "unknown"
	}
}

// Cue durations
const (
	dropDuration   = 220 * time.Millisecond
	settleDuration = 120 * time.Millisecond
	popDuration    = 90 * time.Millisecond
)

// sweep is a sine whose frequency glides from `from` to `to` under an exponential decay
type sweep struct {
	sr      beep.SampleRate
	from    float64
	to      float64
	decay   float64 // envelope rate per second
	samples int
	pos     int
	phase   float64
}

func newSweep(sr beep.SampleRate, from, to, decay float64, d time.Duration) *sweep {
	return &sweep{sr: sr, from: from, to: to, decay: decay, samples: sr.N(d)}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		p := float64(g.pos) / float64(g.samples)
		t := float64(g.pos) / float64(g.sr)

		freq := g.from + (g.to-g.from)*p
		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase -= math.Floor(g.phase)
		}

		// 5ms attack avoids a click on start
		attack := math.Min(t/0.005, 1)
		sample := 0.3 * attack * math.Exp(-t*g.decay) * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// thud is a low sine with a touch of noise, used when a card lands
type thud struct {
	sr      beep.SampleRate
	samples int
	pos     int
	seed    uint32
}

func newThud(sr beep.SampleRate, d time.Duration) *thud {
	return &thud{sr: sr, samples: sr.N(d), seed: 0x2545f491}
}

func (g *thud) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 30)

		g.seed = g.seed*1664525 + 1013904223
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		sample := envelope * (0.35*math.Sin(2*math.Pi*90*t) + 0.05*noise)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *thud) Err() error { return nil }

// tone builds the streamer for a cue at the given sample rate
func tone(c Cue, sr beep.SampleRate) beep.Streamer {
	switch c {
	case CueDrop:
		return newSweep(sr, 520, 180, 9, dropDuration)
	case CueSettle:
		return newThud(sr, settleDuration)
	case CuePop:
		return newSweep(sr, 440, 880, 14, popDuration)
	default:
		return beep.Silence(0)
	}
}

// withVolume scales s by a linear factor in [0,1]
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(vol, 1)), Silent: false}
}
