// Package deck holds the project cards shown by the showcase
package deck

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty rejects a deck without cards
	ErrEmpty = errors.New("deck has no cards")
	// ErrUntitled rejects a card with a blank title
	ErrUntitled = errors.New("card has no title")
)

//go:embed default.yaml
var defaultDeck []byte

// Card is one project entry, its index in Deck.Cards is the engine card id
type Card struct {
	Title   string   `yaml:"title"`
	Badge   string   `yaml:"badge,omitempty"`
	Status  string   `yaml:"status,omitempty"`
	Summary string   `yaml:"summary,omitempty"`
	Outcome string   `yaml:"outcome,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Accent  string   `yaml:"accent,omitempty"` // W3C color name or #rrggbb
}

// Deck is an ordered card list
type Deck struct {
	Name  string `yaml:"name"`
	Cards []Card `yaml:"cards"`
}

// Default returns the embedded showcase deck
func Default() Deck {
	d, err := Parse(defaultDeck)
	if err != nil {
		panic(fmt.Sprintf("embedded deck: %v", err))
	}
	return d
}

// Load reads a deck from a YAML file, an empty path yields the default deck
func Load(path string) (Deck, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("read deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return Deck{}, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a YAML deck
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("parse deck: %w", err)
	}
	if len(d.Cards) == 0 {
		return Deck{}, ErrEmpty
	}
	for i := range d.Cards {
		d.Cards[i].Title = strings.TrimSpace(d.Cards[i].Title)
		if d.Cards[i].Title == "" {
			return Deck{}, fmt.Errorf("card %d: %w", i, ErrUntitled)
		}
	}
	return d, nil
}

// Len returns the card count
func (d Deck) Len() int { return len(d.Cards) }

// Card returns the card for id, ok is false when out of range
func (d Deck) Card(id int) (Card, bool) {
	if id < 0 || id >= len(d.Cards) {
		return Card{}, false
	}
	return d.Cards[id], true
}

// Title returns the card title or a numbered placeholder
func (d Deck) Title(id int) string {
	if c, ok := d.Card(id); ok {
		return c.Title
	}
	return fmt.Sprintf("card %d", id)
}

// Titles maps an order of ids to their titles
func (d Deck) Titles(order []int) []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[i] = d.Title(id)
	}
	return out
}

// Truncate keeps the first n cards, n outside (0, len) leaves the deck as is
func (d Deck) Truncate(n int) Deck {
	if n <= 0 || n >= len(d.Cards) {
		return d
	}
	d.Cards = append([]Card(nil), d.Cards[:n]...)
	return d
}
