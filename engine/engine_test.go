package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cardswap/clock"
	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/parameter"
	"github.com/lixenwraith/cardswap/stack"
	"github.com/lixenwraith/cardswap/status"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// recorder captures hook invocations
type recorder struct {
	mu        sync.Mutex
	orders    []stack.Order
	activated []int
	started   []Transition
	phases    []string
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OrderChanged: func(o stack.Order) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.orders = append(r.orders, o)
		},
		CardActivated: func(id int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.activated = append(r.activated, id)
		},
		TransitionStarted: func(tr Transition) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.started = append(r.started, tr)
		},
		Phase: func(kind Kind, phase string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.phases = append(r.phases, kind.String()+":"+phase)
		},
	}
}

func (r *recorder) orderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type harness struct {
	e     *Engine
	clock *clock.Mock
	rec   *recorder
	reg   *status.Registry
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{clock: clock.NewMock(epoch), rec: &recorder{}, reg: status.NewRegistry()}
	e, err := New(cfg, WithClock(h.clock), WithHooks(h.rec.hooks()), WithStatus(h.reg))
	require.NoError(t, err)
	h.e = e
	t.Cleanup(e.Dispose)
	return h
}

func (h *harness) counter(key string) int64 {
	return h.reg.Ints.Get(key).Load()
}

// finish advances the mock clock to the end of the active transition
func (h *harness) finish(t *testing.T) {
	t.Helper()
	tr, ok := h.e.Active()
	require.True(t, ok, "no active transition")
	h.clock.Advance(tr.Duration - h.e.Since())
}

func linearConfig(n int) Config {
	cfg := DefaultConfig(n)
	cfg.Easing = ease.PresetLinear
	return cfg
}

func signalConfig(n int) Config {
	cfg := DefaultConfig(n)
	cfg.ScrollControlled = true
	return cfg
}

func TestNewRejectsInvalidCardCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		e, err := New(DefaultConfig(n))
		assert.Nil(t, e)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration), "n=%d: %v", n, err)
	}
}

func TestNewPlacesInitialLayout(t *testing.T) {
	h := newHarness(t, linearConfig(4))

	assert.Equal(t, stack.Order{0, 1, 2, 3}, h.e.Order())
	assert.Equal(t, StateIdle, h.e.State())

	layout := h.e.Config().Layout()
	for id, c := range h.e.Frame() {
		s := layout.Slot(id)
		assert.Equal(t, s.X, c.X)
		assert.Equal(t, s.Y, c.Y)
		assert.Equal(t, s.Z, c.Z)
		assert.Equal(t, s.Depth, c.Depth)
		assert.Equal(t, id, c.StackIndex)
		assert.Equal(t, parameter.DefaultSkewAmount, c.Skew)
	}
}

func TestNewClampsTiming(t *testing.T) {
	cfg := DefaultConfig(3)
	cfg.Delay = -time.Second
	cfg.ScrollSwapDuration = 0
	cfg.Easing = ""
	e, err := New(cfg)
	require.NoError(t, err)
	defer e.Dispose()

	assert.Equal(t, parameter.MinDelay, e.Config().Delay)
	assert.Equal(t, ease.PresetElastic, e.Config().Easing)
	assert.Greater(t, e.Config().ScrollSwapDuration, time.Duration(0))
}

func TestAutoplayCyclesImmediatelyAndOnDelay(t *testing.T) {
	h := newHarness(t, linearConfig(4))
	h.e.Start()

	require.Equal(t, StateAnimating, h.e.State(), "first cycle starts on Start")
	tr, _ := h.e.Active()
	assert.Equal(t, KindCycle, tr.Kind)
	assert.Equal(t, 0, tr.Moving)
	assert.Equal(t, stack.Order{1, 2, 3, 0}, tr.Result)

	// Order is committed only at completion
	h.clock.Advance(tr.Duration - time.Millisecond)
	assert.Equal(t, stack.Order{0, 1, 2, 3}, h.e.Order())
	assert.Equal(t, 0, h.rec.orderCount())

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, stack.Order{1, 2, 3, 0}, h.e.Order())
	assert.Equal(t, StateIdle, h.e.State())
	require.Equal(t, 1, h.rec.orderCount())

	// Next cycle on the delay timer, measured from Start
	h.clock.Set(epoch.Add(h.e.Config().Delay))
	require.Equal(t, StateAnimating, h.e.State())
	h.finish(t)
	assert.Equal(t, stack.Order{2, 3, 0, 1}, h.e.Order())
	assert.Equal(t, []stack.Order{{1, 2, 3, 0}, {2, 3, 0, 1}}, h.rec.orders)
}

func TestAtMostOneAnimation(t *testing.T) {
	h := newHarness(t, linearConfig(4))

	require.True(t, h.e.Tick())
	for i := 0; i < 100; i++ {
		assert.False(t, h.e.Tick())
	}
	h.finish(t)

	assert.Equal(t, 1, h.rec.orderCount(), "exactly one committed change")
	assert.Equal(t, int64(100), h.counter(MetricTicksDropped))
	assert.Equal(t, int64(1), h.counter(MetricCycles))
}

func TestAutoplayTicksDuringAnimationAreDropped(t *testing.T) {
	cfg := DefaultConfig(4) // elastic cycles outlast the floored delay
	cfg.Delay = parameter.MinDelay
	h := newHarness(t, cfg)
	h.e.Start()

	tr, _ := h.e.Active()
	h.clock.Advance(tr.Duration)

	assert.Equal(t, 1, h.rec.orderCount())
	assert.Greater(t, h.counter(MetricTicksDropped), int64(10))
}

func TestSignalBusyDrop(t *testing.T) {
	h := newHarness(t, signalConfig(4))
	h.e.Start()
	assert.Equal(t, StateIdle, h.e.State(), "signal mode does not autoplay")

	assert.True(t, h.e.Signal())
	assert.False(t, h.e.Signal())
	h.finish(t)

	assert.Equal(t, []stack.Order{{1, 2, 3, 0}}, h.rec.orders)
	assert.Equal(t, int64(1), h.counter(MetricSignalsDropped))

	// Idle again, the next signal is consumed
	assert.True(t, h.e.Signal())
	h.finish(t)
	assert.Equal(t, stack.Order{2, 3, 0, 1}, h.e.Order())
}

func TestSignalIgnoredInAutoplayMode(t *testing.T) {
	h := newHarness(t, linearConfig(3))
	assert.False(t, h.e.Signal())
	assert.Equal(t, StateIdle, h.e.State())
}

func TestScrollProfileUsed(t *testing.T) {
	cfg := signalConfig(3)
	cfg.ScrollSwapDuration = 550 * time.Millisecond
	h := newHarness(t, cfg)
	assert.Equal(t, "scroll", h.e.Profile().Name)
}

func TestPromoteAlreadyFrontIsNoop(t *testing.T) {
	h := newHarness(t, linearConfig(4))

	require.NoError(t, h.e.RequestPromote(0))
	assert.Equal(t, StateIdle, h.e.State())
	assert.Equal(t, stack.Order{0, 1, 2, 3}, h.e.Order())
	assert.Equal(t, []int{0}, h.rec.activated)
	assert.Empty(t, h.rec.started)
	assert.Equal(t, int64(1), h.counter(MetricPromoteNoop))
}

func TestPromoteInvalidID(t *testing.T) {
	h := newHarness(t, linearConfig(4))

	err := h.e.RequestPromote(9)
	assert.True(t, errors.Is(err, ErrInvalidCardID), "got %v", err)
	assert.Equal(t, StateIdle, h.e.State())
	assert.Equal(t, stack.Order{0, 1, 2, 3}, h.e.Order())
	assert.Empty(t, h.rec.activated)
}

func TestPromoteScenario(t *testing.T) {
	h := newHarness(t, linearConfig(4))

	require.NoError(t, h.e.RequestPromote(2))
	assert.Equal(t, []int{2}, h.rec.activated, "activation is synchronous")
	require.Equal(t, StateAnimating, h.e.State())

	tr, _ := h.e.Active()
	assert.Equal(t, KindPromote, tr.Kind)
	assert.Equal(t, stack.Order{2, 0, 1, 3}, tr.Result)

	h.finish(t)
	assert.Equal(t, []stack.Order{{2, 0, 1, 3}}, h.rec.orders)
}

func TestPromoteFasterThanCycle(t *testing.T) {
	for _, preset := range []ease.Preset{ease.PresetElastic, ease.PresetLinear} {
		cfg := DefaultConfig(5)
		cfg.Easing = preset
		h := newHarness(t, cfg)

		require.True(t, h.e.Tick())
		cycle, _ := h.e.Active()
		require.NoError(t, h.e.RequestPromote(3))
		promote, _ := h.e.Active()

		assert.Less(t, promote.Duration, cycle.Duration, "preset %s", preset)
	}
}

func TestClickToFrontDisabledOnlyActivates(t *testing.T) {
	cfg := linearConfig(4)
	cfg.ClickToFront = false
	h := newHarness(t, cfg)

	require.NoError(t, h.e.RequestPromote(3))
	assert.Equal(t, []int{3}, h.rec.activated)
	assert.Equal(t, StateIdle, h.e.State())
	assert.Equal(t, stack.Order{0, 1, 2, 3}, h.e.Order())
}

func TestInterruptionResetsGeometry(t *testing.T) {
	h := newHarness(t, linearConfig(4))
	layout := h.e.Config().Layout()
	pre := h.e.Order()

	require.True(t, h.e.Tick())
	h.clock.Advance(500 * time.Millisecond)

	// Mid-flight the cycle has moved cards off their slots
	moved := false
	for id, c := range h.e.Frame() {
		if c.Y != layout.Slot(pre.IndexOf(id)).Y || c.X != layout.Slot(pre.IndexOf(id)).X {
			moved = true
		}
	}
	require.True(t, moved, "cycle should be mid-flight")

	require.NoError(t, h.e.RequestPromote(2))
	tr, _ := h.e.Active()
	assert.Equal(t, KindPromote, tr.Kind)
	assert.Equal(t, pre, tr.From, "promote computed from the pre-cycle order")
	assert.Equal(t, stack.Order{2, 0, 1, 3}, tr.Result)

	// At the instant of interruption every card sits on its pre-cycle rest slot
	for id, c := range h.e.Frame() {
		s := layout.Slot(pre.IndexOf(id))
		assert.Equal(t, s.X, c.X, "card %d X", id)
		assert.Equal(t, s.Y, c.Y, "card %d Y", id)
		assert.Equal(t, s.Z, c.Z, "card %d Z", id)
	}

	h.finish(t)
	want, _ := stack.Promote(pre, 2)
	assert.Equal(t, want, h.e.Order())
	for id, c := range h.e.Frame() {
		s := layout.Slot(want.IndexOf(id))
		assert.Equal(t, s.X, c.X, "card %d X", id)
		assert.Equal(t, s.Y, c.Y, "card %d Y", id)
		assert.Equal(t, s.Z, c.Z, "card %d Z", id)
		assert.Equal(t, s.Depth, c.Depth, "card %d depth", id)
	}

	// The cancelled cycle never commits
	assert.Equal(t, []stack.Order{{2, 0, 1, 3}}, h.rec.orders)
	assert.Equal(t, int64(1), h.counter(MetricInterrupts))
}

func TestPromotePreemptsPromote(t *testing.T) {
	h := newHarness(t, linearConfig(4))

	require.NoError(t, h.e.RequestPromote(3))
	h.clock.Advance(100 * time.Millisecond)
	require.NoError(t, h.e.RequestPromote(1))
	h.finish(t)

	assert.Equal(t, []stack.Order{{1, 0, 2, 3}}, h.rec.orders)
	assert.Equal(t, []int{3, 1}, h.rec.activated)
}

func TestCyclePhasesAndReturnLift(t *testing.T) {
	h := newHarness(t, linearConfig(4))
	layout := h.e.Config().Layout()
	prof := h.e.Profile()

	require.True(t, h.e.Tick())
	tr, _ := h.e.Active()
	require.Len(t, tr.Phases, 3)
	assert.Equal(t, PhaseDrop, tr.Phases[0].Name)
	assert.Equal(t, PhasePromote, tr.Phases[1].Name)
	assert.Equal(t, PhaseReturn, tr.Phases[2].Name)

	// Phase two starts before the drop completes
	promoteAt := tr.Phases[1].At
	assert.Equal(t, prof.Drop-ease.Scale(prof.Drop, prof.Overlap), promoteAt)
	assert.Less(t, promoteAt, prof.Drop)

	// Drop moves the front card down
	h.clock.Advance(promoteAt)
	assert.Greater(t, h.e.Frame()[0].Y, layout.Slot(0).Y)

	// Lifted above the back slot at the end of travel, then settled
	returnAt := tr.Phases[2].At
	h.clock.Advance(returnAt + ease.Scale(prof.Return, parameter.ReturnTravelFraction) - promoteAt)
	back := layout.Back()
	assert.InDelta(t, back.Y-parameter.ReturnLift, h.e.Frame()[0].Y, 1e-9)

	h.finish(t)
	assert.Equal(t, back.Y, h.e.Frame()[0].Y)
	assert.Equal(t, []string{"cycle:drop", "cycle:promote", "cycle:return"}, h.rec.phases)
}

func TestPromotePhaseHook(t *testing.T) {
	h := newHarness(t, linearConfig(3))
	require.NoError(t, h.e.RequestPromote(1))
	h.finish(t)
	assert.Equal(t, []string{"promote:promote"}, h.rec.phases)
	require.Len(t, h.rec.started, 1)
	assert.Equal(t, 1, h.rec.started[0].Moving)
}

func TestPauseFreezesAnimationAndTimer(t *testing.T) {
	cfg := linearConfig(4)
	cfg.PauseOnHover = true
	h := newHarness(t, cfg)
	h.e.Start()

	h.clock.Advance(200 * time.Millisecond)
	h.e.PointerEnter()
	require.True(t, h.e.Paused())
	frozen := h.e.Frame()

	h.clock.Advance(time.Minute)
	assert.Equal(t, StateAnimating, h.e.State(), "paused animation does not complete")
	assert.Equal(t, frozen, h.e.Frame(), "paused animation does not move")
	assert.Equal(t, 0, h.rec.orderCount())

	h.e.PointerLeave()
	require.False(t, h.e.Paused())
	assert.Equal(t, 200*time.Millisecond, h.e.Since())

	h.finish(t)
	assert.Equal(t, []stack.Order{{1, 2, 3, 0}}, h.rec.orders)

	// Autoplay restarts a full delay after resume
	h.clock.Advance(cfg.Delay)
	assert.Equal(t, StateAnimating, h.e.State())
}

func TestHoverIgnoredWithoutPauseOnHover(t *testing.T) {
	h := newHarness(t, linearConfig(3))
	h.e.PointerEnter()
	assert.False(t, h.e.Paused())

	cfg := signalConfig(3)
	cfg.PauseOnHover = true
	hs := newHarness(t, cfg)
	hs.e.PointerEnter()
	assert.False(t, hs.e.Paused(), "hover pause applies to autoplay only")
}

func TestPromoteWhilePausedRuns(t *testing.T) {
	h := newHarness(t, linearConfig(3))
	h.e.Pause()
	require.NoError(t, h.e.RequestPromote(2))
	h.finish(t)
	assert.Equal(t, stack.Order{2, 0, 1}, h.e.Order())
}

func TestDisposeCancelsEverything(t *testing.T) {
	h := newHarness(t, linearConfig(4))
	h.e.Start()
	require.Greater(t, h.clock.Pending(), 0)

	h.e.Dispose()
	h.e.Dispose()

	assert.Equal(t, 0, h.clock.Pending(), "no timers left behind")
	assert.Equal(t, StateDisposed, h.e.State())
	assert.False(t, h.e.Tick())
	assert.True(t, errors.Is(h.e.RequestPromote(1), ErrDisposed))

	h.clock.Advance(time.Hour)
	assert.Equal(t, 0, h.rec.orderCount())
}

func TestSingleCardStack(t *testing.T) {
	h := newHarness(t, linearConfig(1))
	h.e.Start()
	assert.False(t, h.e.Tick())
	assert.Equal(t, StateIdle, h.e.State())
	require.NoError(t, h.e.RequestPromote(0))
	assert.Equal(t, []int{0}, h.rec.activated)
}

func TestHooksMayReenter(t *testing.T) {
	clk := clock.NewMock(epoch)
	var e *Engine
	var seen stack.Order
	e, err := New(linearConfig(3), WithClock(clk), WithHooks(Hooks{
		OrderChanged: func(stack.Order) {
			seen = e.Order()
			e.Tick()
		},
	}))
	require.NoError(t, err)
	defer e.Dispose()

	require.True(t, e.Tick())
	tr, _ := e.Active()
	clk.Advance(tr.Duration)

	assert.Equal(t, stack.Order{1, 2, 0}, seen)
	assert.Equal(t, StateAnimating, e.State(), "hook started the next cycle")
}

// TestPermutationClosureUnderEngine drives random ticks, promotes and time steps
func TestPermutationClosureUnderEngine(t *testing.T) {
	h := newHarness(t, linearConfig(5))
	ops := []func(){
		func() { h.e.Tick() },
		func() { _ = h.e.RequestPromote(3) },
		func() { _ = h.e.RequestPromote(0) },
		func() { h.clock.Advance(300 * time.Millisecond) },
		func() { h.clock.Advance(2 * time.Second) },
	}
	for i := 0; i < 200; i++ {
		ops[(i*7+i/3)%len(ops)]()
		require.True(t, h.e.Order().IsPermutation(5), "step %d: %v", i, h.e.Order())

		depths := map[int]bool{}
		if h.e.State() == StateIdle {
			for _, c := range h.e.Frame() {
				depths[c.Depth] = true
			}
			require.Len(t, depths, 5, "idle depths must be distinct")
		}
	}
}
