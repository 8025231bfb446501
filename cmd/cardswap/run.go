package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cardswap/audio"
	"github.com/lixenwraith/cardswap/core"
	"github.com/lixenwraith/cardswap/deck"
	"github.com/lixenwraith/cardswap/engine"
	"github.com/lixenwraith/cardswap/logging"
	"github.com/lixenwraith/cardswap/parameter"
	"github.com/lixenwraith/cardswap/render"
	"github.com/lixenwraith/cardswap/stack"
	"github.com/lixenwraith/cardswap/status"
)

const cueVolume = 0.6

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the interactive card stack in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			// The terminal belongs to tcell, only a log file may receive output
			logger := a.logger
			if cmd.Flag("log-file").Value.String() == "" {
				logger = logging.Discard()
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			core.SetCrashScreen(screen)
			defer func() {
				core.SetCrashScreen(nil)
				screen.Fini()
			}()

			cues := audio.NewCues(cueVolume, logger)
			if a.file.Sound {
				if err := cues.Init(); err != nil {
					logger.Warn("audio unavailable, continuing without sound", "error", err)
				}
			}
			defer cues.Close()

			s, err := newShowcase(screen, a.deck, a.engine, cues, logger)
			if err != nil {
				return err
			}
			defer s.engine.Dispose()

			return s.run(cmd.Context())
		},
	}
}

// showcase binds engine, renderer and input on the event loop goroutine
type showcase struct {
	screen   tcell.Screen
	engine   *engine.Engine
	renderer *render.Renderer
	cues     *audio.Cues
	logger   *slog.Logger

	// Hooks fire on timer goroutines, selections cross to the loop here
	activated chan int

	hovered bool
	buttons tcell.ButtonMask
}

func newShowcase(screen tcell.Screen, d deck.Deck, cfg engine.Config, cues *audio.Cues, logger *slog.Logger, opts ...engine.Option) (*showcase, error) {
	screen.EnableMouse()
	screen.HideCursor()

	s := &showcase{
		screen:    screen,
		renderer:  render.New(screen, d, cfg),
		cues:      cues,
		logger:    logger,
		activated: make(chan int, 8),
	}

	hooks := engine.Hooks{
		OrderChanged: func(o stack.Order) {
			cues.Settle()
			logger.Debug("order committed", "front", d.Title(o.Front()))
		},
		CardActivated: func(id int) {
			select {
			case s.activated <- id:
			default:
			}
		},
		Phase: func(kind engine.Kind, name string) {
			switch {
			case kind == engine.KindCycle && name == engine.PhaseDrop:
				cues.Drop()
			case kind == engine.KindPromote && name == engine.PhasePromote:
				cues.Pop()
			}
		},
	}

	opts = append([]engine.Option{
		engine.WithLogger(logger),
		engine.WithStatus(status.NewRegistry()),
		engine.WithHooks(hooks),
	}, opts...)

	e, err := engine.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.engine = e
	return s, nil
}

// run drives frames at the frame interval until quit or ctx is done
func (s *showcase) run(ctx context.Context) error {
	events := make(chan tcell.Event, 256)
	done := make(chan struct{})
	defer close(done)

	core.Go(func() {
		for {
			ev := s.screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	})

	s.engine.Start()

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !s.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			s.draw()
		}
	}
}

// draw applies pending selections and paints the current frame
func (s *showcase) draw() {
drain:
	for {
		select {
		case id := <-s.activated:
			s.renderer.SetActive(id)
		default:
			break drain
		}
	}

	cfg := s.engine.Config()
	s.renderer.Draw(s.engine.Frame(), render.Status{
		Mode:   cfg.Mode(),
		State:  s.engine.State(),
		Paused: s.engine.Paused(),
		Order:  s.engine.Order(),
		Sound:  s.cues.Enabled(),
	})
}

// handleEvent maps one terminal event onto the engine, false quits
func (s *showcase) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		s.renderer.Resize()
		s.screen.Sync()
	}
	return true
}

func (s *showcase) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight, tcell.KeyDown:
		s.engine.Signal()
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == 'q':
			return false
		case r == ' ':
			s.engine.Tick()
		case r == 'n':
			s.engine.Signal()
		case r == 'p':
			if s.engine.Paused() {
				s.engine.Resume()
			} else {
				s.engine.Pause()
			}
		case r >= '1' && r <= '9':
			s.promote(int(r - '1'))
		}
	}
	return true
}

func (s *showcase) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons &^ s.buttons
	s.buttons = buttons

	over := s.renderer.Contains(x, y)
	if over != s.hovered {
		s.hovered = over
		if over {
			s.engine.PointerEnter()
		} else {
			s.engine.PointerLeave()
		}
	}

	if pressed&tcell.Button1 != 0 {
		if id, ok := s.renderer.HitTest(x, y); ok {
			s.promote(id)
		}
	}
	if buttons&(tcell.WheelUp|tcell.WheelDown) != 0 {
		s.engine.Signal()
	}
}

func (s *showcase) promote(id int) {
	if err := s.engine.RequestPromote(id); err != nil {
		s.logger.Debug("promote rejected", "card", id, "error", err)
	}
}
