// Package config resolves the showcase configuration from defaults, a YAML file,
// .env files and CARDSWAP_* environment variables, in that order of precedence
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/engine"
	"github.com/lixenwraith/cardswap/parameter"
)

// EnvPrefix namespaces every environment override
const EnvPrefix = "CARDSWAP_"

// ErrInvalid marks a configuration value that cannot be converted
var ErrInvalid = errors.New("invalid config")

// File is the on-disk and environment shape of the configuration
type File struct {
	// Cards limits the deck, 0 shows every card
	Cards int    `yaml:"cards" env:"CARDS"`
	Deck  string `yaml:"deck,omitempty" env:"DECK"`

	Width            float64 `yaml:"width" env:"WIDTH"`
	Height           float64 `yaml:"height" env:"HEIGHT"`
	CardDistance     float64 `yaml:"card_distance" env:"CARD_DISTANCE"`
	VerticalDistance float64 `yaml:"vertical_distance" env:"VERTICAL_DISTANCE"`
	SkewAmount       float64 `yaml:"skew_amount" env:"SKEW_AMOUNT"`

	Easing             string        `yaml:"easing" env:"EASING"`
	Delay              time.Duration `yaml:"delay" env:"DELAY"`
	PauseOnHover       bool          `yaml:"pause_on_hover" env:"PAUSE_ON_HOVER"`
	ScrollControlled   bool          `yaml:"scroll_controlled" env:"SCROLL_CONTROLLED"`
	ScrollSwapDuration time.Duration `yaml:"scroll_swap_duration" env:"SCROLL_SWAP_DURATION"`
	ClickToFront       bool          `yaml:"click_to_front" env:"CLICK_TO_FRONT"`

	Sound    bool   `yaml:"sound" env:"SOUND"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default mirrors engine.DefaultConfig
func Default() File {
	return File{
		Width:              parameter.DefaultWidth,
		Height:             parameter.DefaultHeight,
		CardDistance:       parameter.DefaultCardDistance,
		VerticalDistance:   parameter.DefaultVerticalDistance,
		SkewAmount:         parameter.DefaultSkewAmount,
		Easing:             string(ease.PresetElastic),
		Delay:              parameter.DefaultDelay,
		ScrollSwapDuration: parameter.DefaultScrollSwapDuration,
		ClickToFront:       true,
		Sound:              true,
		LogLevel:           "info",
	}
}

// Load layers path (optional) and envFiles over the defaults, then applies the process environment
// Process variables win over .env entries with the same name
func Load(path string, envFiles ...string) (File, error) {
	f := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read config: %w", err)
		}
		if err := f.decodeYAML(bytes.NewReader(data)); err != nil {
			return File{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	vars := make(map[string]string)
	for _, name := range envFiles {
		if name == "" {
			continue
		}
		fileVars, err := godotenv.Read(name)
		if err != nil {
			return File{}, fmt.Errorf("load env file %q: %w", name, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	if err := f.applyEnv(vars); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f *File) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// applyEnv fills fields whose CARDSWAP_* key is present in vars
func (f *File) applyEnv(vars map[string]string) error {
	if err := envparse.ParseWithOptions(f, envparse.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
	}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// EngineConfig converts the file into an engine configuration for cardCount cards
func (f File) EngineConfig(cardCount int) (engine.Config, error) {
	preset, err := ease.ParsePreset(f.Easing)
	if err != nil {
		return engine.Config{}, fmt.Errorf("easing: %w", err)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return engine.Config{}, fmt.Errorf("%w: card size %gx%g", ErrInvalid, f.Width, f.Height)
	}
	if f.Cards < 0 {
		return engine.Config{}, fmt.Errorf("%w: cards %d", ErrInvalid, f.Cards)
	}

	return engine.Config{
		CardCount:          cardCount,
		Width:              f.Width,
		Height:             f.Height,
		CardDistance:       f.CardDistance,
		VerticalDistance:   f.VerticalDistance,
		SkewAmount:         f.SkewAmount,
		Easing:             preset,
		Delay:              f.Delay,
		PauseOnHover:       f.PauseOnHover,
		ScrollControlled:   f.ScrollControlled,
		ScrollSwapDuration: f.ScrollSwapDuration,
		ClickToFront:       f.ClickToFront,
	}, nil
}

// YAML renders the resolved configuration
func (f File) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
