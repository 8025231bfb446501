package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cardswap/config"
	"github.com/lixenwraith/cardswap/deck"
	"github.com/lixenwraith/cardswap/engine"
	"github.com/lixenwraith/cardswap/logging"
)

// options are the persistent flags shared by every subcommand
type options struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFile    string

	// config.File overrides, applied only when the flag is set
	deckPath     string
	cards        int
	easing       string
	delay        time.Duration
	scroll       bool
	pauseOnHover bool
	clickToFront bool
	sound        bool
}

// app is the resolved state handed to a subcommand
type app struct {
	file   config.File
	deck   deck.Deck
	engine engine.Config
	logger *slog.Logger
	level  logging.Level
	closer io.Closer
}

type appKey struct{}

// Execute builds the root command and runs it with args
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand(&options{})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cardswap",
		Short:         "cardswap animates a stack of project cards",
		Long:          "cardswap cycles a perspective stack of cards in the terminal, on a timer or on scroll, and brings clicked cards to the front.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			a.logger.Debug("configuration resolved",
				"cards", a.engine.CardCount,
				"mode", a.engine.Mode(),
				"easing", a.engine.Easing)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a := appFromContext(cmd.Context()); a != nil && a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	f.StringSliceVar(&opts.envFiles, "env-file", nil, "Load CARDSWAP_* variables from .env files (repeatable)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error), defaults to the config value")
	f.StringVar(&opts.logFile, "log-file", "", "Append logs to this file instead of stderr")

	f.StringVar(&opts.deckPath, "deck", "", "YAML deck file, defaults to the built-in project deck")
	f.IntVar(&opts.cards, "cards", 0, "Show only the first N cards")
	f.StringVar(&opts.easing, "easing", "", "Easing preset (elastic, linear)")
	f.DurationVar(&opts.delay, "delay", 0, "Autoplay delay between cycles")
	f.BoolVar(&opts.scroll, "scroll", false, "Advance on scroll or key instead of a timer")
	f.BoolVar(&opts.pauseOnHover, "pause-on-hover", false, "Pause autoplay while the pointer is over the stack")
	f.BoolVar(&opts.clickToFront, "click-to-front", true, "Bring clicked cards to the front")
	f.BoolVar(&opts.sound, "sound", true, "Play transition cues")

	cmd.AddCommand(
		newRunCommand(),
		newSimulateCommand(),
		newConfigCommand(),
	)
	return cmd
}

// loadApp layers config file, env and flags, then resolves the deck and engine config
func loadApp(cmd *cobra.Command, opts *options) (*app, error) {
	file, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, &file)

	a := &app{file: file}

	a.level = logging.ParseLevel(file.LogLevel)
	switch {
	case opts.logFile != "":
		logger, closer, err := logging.OpenFile(opts.logFile, a.level)
		if err != nil {
			return nil, err
		}
		a.logger, a.closer = logger, closer
	default:
		a.logger = logging.NewLogger(cmd.ErrOrStderr(), a.level)
	}

	d, err := deck.Load(file.Deck)
	if err != nil {
		return nil, err
	}
	a.deck = d.Truncate(file.Cards)

	a.engine, err = file.EngineConfig(a.deck.Len())
	if err != nil {
		return nil, fmt.Errorf("resolve engine config: %w", err)
	}
	return a, nil
}

// applyFlags copies explicitly set flags over the loaded file
func applyFlags(cmd *cobra.Command, opts *options, file *config.File) {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		file.LogLevel = opts.logLevel
	}
	if changed("deck") {
		file.Deck = opts.deckPath
	}
	if changed("cards") {
		file.Cards = opts.cards
	}
	if changed("easing") {
		file.Easing = opts.easing
	}
	if changed("delay") {
		file.Delay = opts.delay
	}
	if changed("scroll") {
		file.ScrollControlled = opts.scroll
	}
	if changed("pause-on-hover") {
		file.PauseOnHover = opts.pauseOnHover
	}
	if changed("click-to-front") {
		file.ClickToFront = opts.clickToFront
	}
	if changed("sound") {
		file.Sound = opts.sound
	}
}

// appFromContext returns the state resolved by the root pre-run hook
func appFromContext(ctx context.Context) *app {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(appKey{}).(*app)
	return a
}

// mustApp is used by subcommands, which always run after the pre-run hook
func mustApp(cmd *cobra.Command) (*app, error) {
	a := appFromContext(cmd.Context())
	if a == nil {
		return nil, fmt.Errorf("%s: configuration not resolved", cmd.Name())
	}
	return a, nil
}
