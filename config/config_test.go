package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cardswap/ease"
	"github.com/lixenwraith/cardswap/engine"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesEngine(t *testing.T) {
	cfg, err := Default().EngineConfig(5)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(5), cfg)
}

func TestLoadLayers(t *testing.T) {
	yamlPath := writeFile(t, "cardswap.yaml", strings.Join([]string{
		"easing: linear",
		"delay: 2s",
		"card_distance: 80",
		"scroll_controlled: true",
		"",
	}, "\n"))
	envPath := writeFile(t, ".env", "CARDSWAP_DELAY=3s\nCARDSWAP_SKEW_AMOUNT=4\n")
	t.Setenv("CARDSWAP_SKEW_AMOUNT", "2.5")

	f, err := Load(yamlPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "linear", f.Easing)
	assert.Equal(t, 80.0, f.CardDistance)
	assert.True(t, f.ScrollControlled)
	assert.Equal(t, 3*time.Second, f.Delay, ".env overrides yaml")
	assert.Equal(t, 2.5, f.SkewAmount, "process env overrides .env")
	assert.Equal(t, 70.0, f.VerticalDistance, "unset keys keep defaults")

	cfg, err := f.EngineConfig(4)
	require.NoError(t, err)
	assert.Equal(t, ease.PresetLinear, cfg.Easing)
	assert.Equal(t, engine.ModeSignal, cfg.Mode())
}

func TestLoadEmptyYAML(t *testing.T) {
	f, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Delay, f.Delay)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "colour: red\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)

	t.Setenv("CARDSWAP_DELAY", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestEngineConfigRejects(t *testing.T) {
	f := Default()
	f.Easing = "bouncy"
	_, err := f.EngineConfig(3)
	assert.ErrorIs(t, err, ease.ErrUnknownPreset)

	f = Default()
	f.Width = 0
	_, err = f.EngineConfig(3)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestYAMLRoundTrip(t *testing.T) {
	f := Default()
	f.Delay = 1500 * time.Millisecond
	data, err := f.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "delay: 1.5s")

	got, err := Load(writeFile(t, "out.yaml", string(data)))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}
