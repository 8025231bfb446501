package timeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/parameter"
)

func approx(t *testing.T, want, got float64, msg string) {
	t.Helper()
	assert.InDelta(t, want, got, 1e-9, msg)
}

func TestSampleBaseAndFinal(t *testing.T) {
	tl := New([]State{{Pos: Vec{0, 0, 0}, Depth: 2}, {Pos: Vec{10, -10, -15}, Depth: 1}})
	tl.To(0, Vec{100, 50, -30}, AxisAll, 0, time.Second, ease.Linear)

	start := tl.Sample(0)
	approx(t, 0, start[0].Pos.X, "start X")
	assert.Equal(t, Vec{10, -10, -15}, start[1].Pos, "untouched card keeps base")

	mid := tl.Sample(500 * time.Millisecond)
	approx(t, 50, mid[0].Pos.X, "mid X")
	approx(t, 25, mid[0].Pos.Y, "mid Y")
	approx(t, -15, mid[0].Pos.Z, "mid Z")

	final := tl.Final()
	assert.Equal(t, Vec{100, 50, -30}, final[0].Pos)
	assert.Equal(t, time.Second, tl.Duration())

	// Past the end stays on target
	assert.Equal(t, final, tl.Sample(10*time.Second))
}

func TestLaterTweenOwnsAxis(t *testing.T) {
	tl := New([]State{{}})
	tl.To(0, Vec{Y: 400}, AxisY, 0, time.Second, ease.Linear)
	// Takes over Y at 250ms from wherever the first tween left it (100)
	tl.To(0, Vec{X: 50, Y: -100}, AxisAll, 250*time.Millisecond, 500*time.Millisecond, ease.Linear)

	before := tl.Sample(200 * time.Millisecond)
	approx(t, 80, before[0].Pos.Y, "first tween still owns Y")

	at := tl.Sample(250 * time.Millisecond)
	approx(t, 100, at[0].Pos.Y, "second tween starts from sampled value")
	approx(t, 0, at[0].Pos.X, "X starts at base")

	mid := tl.Sample(500 * time.Millisecond)
	approx(t, 0, mid[0].Pos.Y, "halfway from 100 to -100")
	approx(t, 25, mid[0].Pos.X, "halfway from 0 to 50")

	// First tween would still run until 1s but the takeover holds
	end := tl.Sample(time.Second)
	approx(t, -100, end[0].Pos.Y, "takeover holds after its end")
	assert.Equal(t, time.Second, tl.Duration())
}

func TestPartialAxes(t *testing.T) {
	tl := New([]State{{Pos: Vec{1, 2, 3}}})
	tl.To(0, Vec{X: 99, Y: 99, Z: 99}, AxisY, 0, time.Second, ease.Linear)

	final := tl.Final()
	assert.Equal(t, Vec{1, 99, 3}, final[0].Pos)
}

func TestDepthChanges(t *testing.T) {
	tl := New([]State{{Depth: 4}})
	tl.SetDepth(0, 1, 300*time.Millisecond)
	tl.SetDepth(0, 2, 600*time.Millisecond)

	assert.Equal(t, 4, tl.Sample(299 * time.Millisecond)[0].Depth)
	assert.Equal(t, 1, tl.Sample(300 * time.Millisecond)[0].Depth)
	assert.Equal(t, 2, tl.Sample(time.Second)[0].Depth)
	assert.Equal(t, 600*time.Millisecond, tl.Duration())
}

func TestMarksSorted(t *testing.T) {
	tl := New([]State{{}})
	tl.Mark("return", 300*time.Millisecond)
	tl.Mark("drop", 0)
	tl.Mark("promote", 200*time.Millisecond)

	marks := tl.Marks()
	require.Len(t, marks, 3)
	assert.Equal(t, "drop", marks[0].Name)
	assert.Equal(t, "promote", marks[1].Name)
	assert.Equal(t, "return", marks[2].Name)
}

func TestNonPositiveDurationFloored(t *testing.T) {
	tl := New([]State{{}})
	tl.To(0, Vec{X: 10}, AxisX, 0, 0, ease.Linear)
	assert.Equal(t, parameter.MinDuration, tl.Duration())
	approx(t, 10, tl.Final()[0].Pos.X, "floored tween completes")
}

func TestElasticSettlesExactly(t *testing.T) {
	tl := New([]State{{}})
	tl.To(0, Vec{X: 100}, AxisX, 0, time.Second, ease.ElasticOut(parameter.ElasticAmplitude, parameter.ElasticPeriod))

	peak := 0.0
	for ms := 0; ms <= 1000; ms += 5 {
		peak = math.Max(peak, tl.Sample(time.Duration(ms) * time.Millisecond)[0].Pos.X)
	}
	assert.Greater(t, peak, 100.0, "elastic overshoots")
	approx(t, 100, tl.Final()[0].Pos.X, "elastic settles on target")
}

func TestOutOfRangeCardIgnored(t *testing.T) {
	tl := New([]State{{}})
	tl.To(5, Vec{X: 1}, AxisX, 0, time.Second, ease.Linear)
	tl.SetDepth(-1, 3, 0)
	assert.Equal(t, time.Duration(0), tl.Duration())
	assert.Equal(t, 1, tl.Cards())
}

func TestSampleInto(t *testing.T) {
	tl := New([]State{{}, {}})
	tl.To(1, Vec{X: 10}, AxisX, 0, time.Second, ease.Linear)
	dst := make([]State, 2)
	tl.SampleInto(dst, time.Second)
	approx(t, 10, dst[1].Pos.X, "SampleInto writes final")
}
