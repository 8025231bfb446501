package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cardswap/clock"
	"github.com/lixenwraith/cardswap/engine"
	"github.com/lixenwraith/cardswap/stack"
	"github.com/lixenwraith/cardswap/status"
)

var errInvalidPromote = errors.New("invalid promote request")

// simulationEpoch anchors the mock clock so output is reproducible
var simulationEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// scheduledPromote is a click at a fixed offset into the simulation
type scheduledPromote struct {
	id int
	at time.Duration
}

// parsePromote reads "id@offset", for example "2@3.5s"
func parsePromote(s string) (scheduledPromote, error) {
	idStr, atStr, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return scheduledPromote{}, fmt.Errorf("%w %q: want id@offset", errInvalidPromote, s)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return scheduledPromote{}, fmt.Errorf("%w %q: card id: %v", errInvalidPromote, s, err)
	}
	at, err := time.ParseDuration(atStr)
	if err != nil || at < 0 {
		return scheduledPromote{}, fmt.Errorf("%w %q: offset must be a non-negative duration", errInvalidPromote, s)
	}
	return scheduledPromote{id: id, at: at}, nil
}

type simulateOptions struct {
	duration       time.Duration
	step           time.Duration
	signalInterval time.Duration
	promotes       []string
}

func newSimulateCommand() *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the stack headless on a simulated clock and print every committed order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}

			promotes := make([]scheduledPromote, 0, len(opts.promotes))
			for _, raw := range opts.promotes {
				p, err := parsePromote(raw)
				if err != nil {
					return err
				}
				promotes = append(promotes, p)
			}
			if opts.step <= 0 || opts.duration <= 0 {
				return fmt.Errorf("duration and step must be positive")
			}

			sim := &simulation{
				out:      cmd.OutOrStdout(),
				app:      a,
				opts:     opts,
				promotes: promotes,
			}
			return sim.run()
		},
	}

	f := cmd.Flags()
	f.DurationVar(&opts.duration, "duration", 30*time.Second, "Simulated time to run")
	f.DurationVar(&opts.step, "step", 50*time.Millisecond, "Clock advance per iteration")
	f.DurationVar(&opts.signalInterval, "signal-interval", time.Second, "Advance signal period in scroll mode")
	f.StringSliceVar(&opts.promotes, "promote", nil, "Request a promote at an offset, id@offset (repeatable)")
	return cmd
}

type simulation struct {
	out      io.Writer
	app      *app
	opts     simulateOptions
	promotes []scheduledPromote

	clock *clock.Mock
	err   error
}

func (s *simulation) elapsed() time.Duration {
	return s.clock.Now().Sub(simulationEpoch)
}

func (s *simulation) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.out, format, args...)
}

func (s *simulation) run() error {
	s.clock = clock.NewMock(simulationEpoch)
	reg := status.NewRegistry()
	d := s.app.deck

	hooks := engine.Hooks{
		OrderChanged: func(o stack.Order) {
			s.printf("%8s  order   %s\n", s.elapsed(), strings.Join(d.Titles(o), " > "))
		},
		CardActivated: func(id int) {
			s.printf("%8s  select  %s\n", s.elapsed(), d.Title(id))
		},
		TransitionStarted: func(tr engine.Transition) {
			s.app.logger.Debug("transition started",
				"kind", tr.Kind, "card", d.Title(tr.Moving), "duration", tr.Duration)
		},
	}

	e, err := engine.New(s.app.engine,
		engine.WithClock(s.clock),
		engine.WithLogger(s.app.logger),
		engine.WithStatus(reg),
		engine.WithHooks(hooks),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer e.Dispose()

	sort.SliceStable(s.promotes, func(i, j int) bool { return s.promotes[i].at < s.promotes[j].at })

	cfg := e.Config()
	s.printf("%8s  start   %s (%s, %s)\n", time.Duration(0), strings.Join(d.Titles(e.Order()), " > "), cfg.Mode(), e.Profile().Name)
	e.Start()

	signalMode := cfg.Mode() == engine.ModeSignal
	nextSignal := time.Duration(0)
	next := 0

	for s.elapsed() < s.opts.duration {
		now := s.elapsed()
		for next < len(s.promotes) && s.promotes[next].at <= now {
			p := s.promotes[next]
			if err := e.RequestPromote(p.id); err != nil {
				s.printf("%8s  reject  card %d: %v\n", now, p.id, err)
			}
			next++
		}
		if signalMode && s.opts.signalInterval > 0 && now >= nextSignal {
			e.Signal()
			nextSignal += s.opts.signalInterval
		}
		s.clock.Advance(s.opts.step)
		if s.err != nil {
			return s.err
		}
	}

	s.printf("\nmetrics\n")
	for _, m := range reg.Snapshot() {
		s.printf("  %-24s %s\n", m.Key, m.Value)
	}
	return s.err
}
