// Package engine runs the card stack: ordering, transition scheduling and animation sequencing
//
// The engine is event driven and never blocks the caller. Timer ticks, external
// signals and promote requests are processed in arrival order under one lock, at
// most one transition is in flight, and busy ticks or signals are dropped rather
// than queued. Hooks run after the lock is released, so they may call back in.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lixenwraith/cardswap/clock"
	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/geometry"
	"github.com/lixenwraith/cardswap/stack"
	"github.com/lixenwraith/cardswap/status"
	"github.com/lixenwraith/cardswap/timeline"
)

// State is the scheduler state
type State int

const (
	StateIdle State = iota
	StateAnimating
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateAnimating:
		return "animating"
	case StateDisposed:
		return "disposed"
	default:
		return "idle"
	}
}

// CardState is the visual state of one card at a point in time
type CardState struct {
	ID         int
	X, Y, Z    float64
	Skew       float64
	Depth      int
	StackIndex int // committed front-to-back position
}

// Engine owns the order, the per-card visual arena and every timer
type Engine struct {
	mu sync.Mutex

	cfg     Config
	profile ease.Profile
	layout  geometry.Layout

	clock   clock.Clock
	logger  *slog.Logger
	hooks   Hooks
	metrics metrics

	order  stack.Order
	visual []timeline.State // indexed by card id, written only from sequencer output
	state  State
	active *run

	started   bool
	paused    bool
	autoplay  clock.Timer
	tickToken uint64
	nextToken uint64

	outbox []func()
}

// Option configures an Engine at construction
type Option func(*Engine)

// WithClock injects the time source, defaults to the wall clock
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the structured logger, defaults to discarding
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStatus records engine counters into reg
func WithStatus(reg *status.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.metrics = newMetrics(reg)
		}
	}
}

// WithHooks registers collaborator callbacks
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// New validates cfg and places every card on its initial slot
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		profile: cfg.Profile(),
		layout:  cfg.Layout(),
		clock:   clock.NewReal(),
		logger:  slog.New(slog.DiscardHandler),
		order:   stack.Initial(cfg.CardCount),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics.cycles == nil {
		e.metrics = newMetrics(status.NewRegistry())
	}

	e.visual = restStates(e.layout, e.order)
	e.logger.Debug("engine configured",
		"cards", cfg.CardCount,
		"mode", cfg.Mode(),
		"profile", e.profile.Name,
		"delay", cfg.Delay,
	)
	return e, nil
}

// Start begins scheduling
// Autoplay runs one cycle immediately and then every Delay; signal mode waits for Signal
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.state == StateDisposed || e.started {
		return
	}
	e.started = true

	if e.cfg.Mode() == ModeAutoplay {
		e.tickLocked(sourceTimer)
		if !e.paused {
			e.armAutoplayLocked()
		}
	}
}

// Tick requests one cycle; returns false when the tick was dropped
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.unlockAndFlush()
	return e.tickLocked(sourceTick)
}

// Signal consumes one external advance signal in signal mode
// Signals arriving while a transition runs are dropped, never queued
func (e *Engine) Signal() bool {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.cfg.Mode() != ModeSignal {
		e.logger.Debug("signal ignored outside signal mode")
		return false
	}
	return e.tickLocked(sourceSignal)
}

// RequestPromote handles a click on card id
// Activation is reported synchronously for every valid id, whether or not an animation starts
func (e *Engine) RequestPromote(id int) error {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.state == StateDisposed {
		return ErrDisposed
	}
	result, err := stack.Promote(e.order, id)
	if err != nil {
		return fmt.Errorf("request promote: %w", err)
	}

	switch {
	case !e.cfg.ClickToFront:
		// Selection only
	case e.order.Front() == id:
		e.metrics.promoteNoop.Add(1)
	default:
		if e.active != nil {
			e.cancelLocked()
		}
		e.startLocked(KindPromote, id, result)
	}

	e.emitActivated(id)
	return nil
}

// PointerEnter pauses autoplay when hover pausing is configured
func (e *Engine) PointerEnter() {
	if !e.cfg.PauseOnHover || e.cfg.Mode() != ModeAutoplay {
		return
	}
	e.Pause()
}

// PointerLeave resumes autoplay when hover pausing is configured
func (e *Engine) PointerLeave() {
	if !e.cfg.PauseOnHover || e.cfg.Mode() != ModeAutoplay {
		return
	}
	e.Resume()
}

// Pause stops the autoplay timer and freezes the in-flight animation
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.state == StateDisposed || e.paused {
		return
	}
	e.paused = true
	e.metrics.paused.Store(true)
	e.disarmAutoplayLocked()

	if r := e.active; r != nil {
		r.watch.Pause()
		e.disarmRunLocked(r)
	}
	e.logger.Debug("engine paused")
}

// Resume restarts the autoplay timer and thaws a frozen animation where it stopped
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.state == StateDisposed || !e.paused {
		return
	}
	e.paused = false
	e.metrics.paused.Store(false)

	if r := e.active; r != nil && r.watch.Paused() {
		r.watch.Resume()
		e.armRunLocked(r)
	}
	if e.started && e.cfg.Mode() == ModeAutoplay {
		e.armAutoplayLocked()
	}
	e.logger.Debug("engine resumed")
}

// Dispose cancels every timer; safe from any state and idempotent
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.state == StateDisposed {
		return
	}
	e.disarmAutoplayLocked()
	if r := e.active; r != nil {
		e.disarmRunLocked(r)
		e.active = nil
	}
	e.state = StateDisposed
	e.metrics.animating.Store(false)
	e.outbox = nil
	e.logger.Debug("engine disposed")
}

// Order returns the committed front-to-back order
func (e *Engine) Order() stack.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order.Clone()
}

// State returns the scheduler state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Paused reports whether the engine is paused
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Active returns a snapshot of the running transition
func (e *Engine) Active() (Transition, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return Transition{}, false
	}
	return e.active.clone(), true
}

// Config returns the normalized configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Profile returns the resolved timing profile
func (e *Engine) Profile() ease.Profile {
	return e.profile
}

// Frame samples every card's visual state at the clock's current time, indexed by card id
func (e *Engine) Frame() []CardState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r := e.active; r != nil {
		r.tl.SampleInto(e.visual, r.watch.Elapsed())
	}

	out := make([]CardState, len(e.visual))
	for id, v := range e.visual {
		out[id] = CardState{
			ID:         id,
			X:          v.Pos.X,
			Y:          v.Pos.Y,
			Z:          v.Pos.Z,
			Skew:       e.cfg.SkewAmount,
			Depth:      v.Depth,
			StackIndex: e.order.IndexOf(id),
		}
	}
	return out
}

// tick sources, for logging and drop accounting
const (
	sourceTimer  = "timer"
	sourceTick   = "tick"
	sourceSignal = "signal"
)

// tickLocked starts a cycle from Idle, drops the tick otherwise
func (e *Engine) tickLocked(source string) bool {
	switch e.state {
	case StateDisposed:
		return false
	case StateAnimating:
		if source == sourceSignal {
			e.metrics.signalsDropped.Add(1)
		} else {
			e.metrics.ticksDropped.Add(1)
		}
		e.logger.Debug("advance dropped while animating", "source", source)
		return false
	}

	if len(e.order) < 2 {
		return false
	}
	e.startLocked(KindCycle, e.order.Front(), stack.Cycle(e.order))
	return true
}

// startLocked builds the timeline from the resting arena and arms its phase and completion timers
func (e *Engine) startLocked(kind Kind, moving int, result stack.Order) {
	base := make([]timeline.State, len(e.visual))
	copy(base, e.visual)

	var tl *timeline.Timeline
	if kind == KindCycle {
		tl = buildCycle(base, e.layout, e.profile, e.order)
		e.metrics.cycles.Add(1)
	} else {
		tl = buildPromote(base, e.layout, e.profile, result, moving)
		e.metrics.promotes.Add(1)
	}

	watch := clock.NewStopwatch(e.clock)
	r := &run{
		tr: Transition{
			Kind:      kind,
			Moving:    moving,
			From:      e.order.Clone(),
			Result:    result,
			Phases:    tl.Marks(),
			StartedAt: watch.Started(),
			Duration:  tl.Duration(),
		},
		tl:    tl,
		watch: watch,
	}
	e.active = r
	e.state = StateAnimating
	e.metrics.animating.Store(true)
	e.metrics.lastKind.Store(kind.String())
	e.metrics.lastSeconds.Set(tl.Duration().Seconds())

	e.logger.Debug("transition started",
		"kind", kind,
		"moving", moving,
		"result", []int(result),
		"duration", tl.Duration(),
	)

	started := r.clone()
	if fn := e.hooks.TransitionStarted; fn != nil {
		e.emit(func() { fn(started) })
	}
	e.armRunLocked(r)
}

// armRunLocked reports marks already due and schedules the remaining ones plus completion
func (e *Engine) armRunLocked(r *run) {
	e.disarmRunLocked(r)
	e.nextToken++
	token := e.nextToken
	r.token = token

	elapsed := r.watch.Elapsed()
	marks := r.tr.Phases
	for r.fired < len(marks) && marks[r.fired].At <= elapsed {
		e.emitPhase(r.tr.Kind, marks[r.fired].Name)
		r.fired++
	}
	for i := r.fired; i < len(marks); i++ {
		idx := i
		r.timers = append(r.timers, e.clock.AfterFunc(marks[i].At-elapsed, func() { e.onMark(token, idx) }))
	}

	remaining := r.tl.Duration() - elapsed
	if remaining < 0 {
		remaining = 0
	}
	r.timers = append(r.timers, e.clock.AfterFunc(remaining, func() { e.onComplete(token) }))
}

// disarmRunLocked halts every scheduled callback of r
func (e *Engine) disarmRunLocked(r *run) {
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
	r.token = 0
}

// cancelLocked kills the active transition and snaps every card to the rest slots of the committed order
// The committed order is still the pre-transition order, commits only happen on completion
func (e *Engine) cancelLocked() {
	r := e.active
	e.disarmRunLocked(r)
	e.active = nil
	e.state = StateIdle
	e.visual = restStates(e.layout, e.order)
	e.metrics.interrupts.Add(1)
	e.metrics.animating.Store(false)

	e.logger.Info("transition interrupted", "kind", r.tr.Kind, "moving", r.tr.Moving)
}

func (e *Engine) onMark(token uint64, idx int) {
	e.mu.Lock()
	defer e.unlockAndFlush()

	r := e.active
	if e.state == StateDisposed || r == nil || r.token != token {
		return
	}
	for r.fired <= idx && r.fired < len(r.tr.Phases) {
		e.emitPhase(r.tr.Kind, r.tr.Phases[r.fired].Name)
		r.fired++
	}
}

func (e *Engine) onComplete(token uint64) {
	e.mu.Lock()
	defer e.unlockAndFlush()

	r := e.active
	if e.state == StateDisposed || r == nil || r.token != token {
		return
	}
	for r.fired < len(r.tr.Phases) {
		e.emitPhase(r.tr.Kind, r.tr.Phases[r.fired].Name)
		r.fired++
	}
	e.commitLocked(r)
}

// commitLocked makes the transition's result authoritative and returns to Idle
func (e *Engine) commitLocked(r *run) {
	e.disarmRunLocked(r)
	e.order = r.tr.Result.Clone()
	e.visual = restStates(e.layout, e.order)
	e.active = nil
	e.state = StateIdle
	e.metrics.animating.Store(false)
	e.metrics.committed.Add(1)

	e.logger.Debug("transition committed", "kind", r.tr.Kind, "order", []int(e.order))

	if fn := e.hooks.OrderChanged; fn != nil {
		order := e.order.Clone()
		e.emit(func() { fn(order) })
	}
}

func (e *Engine) armAutoplayLocked() {
	e.disarmAutoplayLocked()
	e.nextToken++
	token := e.nextToken
	e.tickToken = token
	e.autoplay = e.clock.AfterFunc(e.cfg.Delay, func() { e.onAutoplay(token) })
}

func (e *Engine) disarmAutoplayLocked() {
	if e.autoplay != nil {
		e.autoplay.Stop()
		e.autoplay = nil
	}
	e.tickToken = 0
}

func (e *Engine) onAutoplay(token uint64) {
	e.mu.Lock()
	defer e.unlockAndFlush()

	if e.state == StateDisposed || e.paused || e.tickToken != token {
		return
	}
	// Re-arm first so the cadence is independent of animation length
	e.armAutoplayLocked()
	e.tickLocked(sourceTimer)
}

// emit queues a hook call for after the lock is released
func (e *Engine) emit(fn func()) {
	e.outbox = append(e.outbox, fn)
}

func (e *Engine) emitPhase(kind Kind, name string) {
	if fn := e.hooks.Phase; fn != nil {
		e.emit(func() { fn(kind, name) })
	}
}

func (e *Engine) emitActivated(id int) {
	if fn := e.hooks.CardActivated; fn != nil {
		e.emit(func() { fn(id) })
	}
}

// unlockAndFlush releases the lock and runs queued hooks in order
func (e *Engine) unlockAndFlush() {
	out := e.outbox
	e.outbox = nil
	e.mu.Unlock()

	for _, fn := range out {
		fn()
	}
}

// Since reports how long the active transition has been running, zero when idle
func (e *Engine) Since() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return 0
	}
	return e.active.watch.Elapsed()
}
