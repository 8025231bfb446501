// Package render draws the card stack onto a tcell screen
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/cardswap/deck"
	"github.com/lixenwraith/cardswap/engine"
	"github.com/lixenwraith/cardswap/stack"
)

// Status is the host state shown in the bottom bar
type Status struct {
	Mode   engine.Mode
	State  engine.State
	Paused bool
	Order  stack.Order
	Sound  bool
}

// Renderer paints frames and answers hit tests against the last painted frame
// Not safe for concurrent use, call it from the event loop only
type Renderer struct {
	screen tcell.Screen
	deck   deck.Deck
	cfg    engine.Config

	view   Viewport
	quads  []Quad // last frame, back to front
	active int    // selected card, -1 for none
}

// New creates a renderer sized to the screen
func New(screen tcell.Screen, d deck.Deck, cfg engine.Config) *Renderer {
	r := &Renderer{
		screen: screen,
		deck:   d,
		cfg:    cfg,
		active: -1,
	}
	r.Resize()
	return r
}

// Resize refits the viewport after a terminal size change
func (r *Renderer) Resize() {
	cols, rows := r.screen.Size()
	r.view = Fit(cols, rows, r.cfg)
}

// Viewport returns the current projection
func (r *Renderer) Viewport() Viewport { return r.view }

// SetActive selects the card shown in the detail panel
func (r *Renderer) SetActive(id int) { r.active = id }

// Active returns the selected card or -1
func (r *Renderer) Active() int { return r.active }

// Quads returns the last painted footprints, back to front
func (r *Renderer) Quads() []Quad {
	return append([]Quad(nil), r.quads...)
}

// Draw paints one frame and shows it
func (r *Renderer) Draw(frame []engine.CardState, st Status) {
	r.screen.Clear()

	r.quads = r.quads[:0]
	for _, cs := range frame {
		r.quads = append(r.quads, r.view.Project(cs, r.cfg.Width, r.cfg.Height))
	}
	// Lower depth first, ties put deeper stack positions first
	sort.SliceStable(r.quads, func(i, j int) bool {
		if r.quads[i].Depth != r.quads[j].Depth {
			return r.quads[i].Depth < r.quads[j].Depth
		}
		return r.quads[i].Rank > r.quads[j].Rank
	})

	for _, q := range r.quads {
		r.drawCard(q)
	}
	if r.view.PanelCols > 0 {
		r.drawPanel()
	}
	r.drawStatus(st)

	r.screen.Show()
}

// HitTest returns the topmost card under cell (x, y)
func (r *Renderer) HitTest(x, y int) (int, bool) {
	for i := len(r.quads) - 1; i >= 0; i-- {
		if r.quads[i].Contains(x, y) {
			return r.quads[i].ID, true
		}
	}
	return -1, false
}

// Contains reports whether (x, y) is over any card, used for hover tracking
func (r *Renderer) Contains(x, y int) bool {
	_, ok := r.HitTest(x, y)
	return ok
}

// put draws ch at quad-relative (col, row), applying the column shear
func (r *Renderer) put(q Quad, col, row int, ch rune, style tcell.Style) {
	if col < 0 || col >= q.W || row < 0 || row >= q.H {
		return
	}
	x := q.Left + col
	r.screen.SetContent(x, q.Top+q.RowShift(x)+row, ch, nil, style)
}

// text writes s from quad-relative (col, row), clipped at maxCol
func (r *Renderer) text(q Quad, col, row, maxCol int, s string, style tcell.Style) {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if col+w > maxCol {
			return
		}
		r.put(q, col, row, ch, style)
		col += max(w, 1)
	}
}

func (r *Renderer) drawCard(q Quad) {
	card, _ := r.deck.Card(q.ID)
	border, fill := cardStyles(card.Accent, q.Rank)
	if q.ID == r.active {
		border = border.Foreground(selectedColor)
	}

	for row := 0; row < q.H; row++ {
		for col := 0; col < q.W; col++ {
			ch, style := ' ', fill
			switch {
			case row == 0 && col == 0:
				ch, style = '╭', border
			case row == 0 && col == q.W-1:
				ch, style = '╮', border
			case row == q.H-1 && col == 0:
				ch, style = '╰', border
			case row == q.H-1 && col == q.W-1:
				ch, style = '╯', border
			case row == 0 || row == q.H-1:
				ch, style = '─', border
			case col == 0 || col == q.W-1:
				ch, style = '│', border
			}
			r.put(q, col, row, ch, style)
		}
	}

	inner := q.W - 4
	if inner <= 0 || q.H < 3 {
		return
	}
	maxCol := q.W - 2
	muted := fill.Foreground(mutedColor)

	row := 1
	title := card.Title
	if title == "" {
		title = r.deck.Title(q.ID)
	}
	if q.H >= 6 {
		r.text(q, 2, row, maxCol, fit(strings.ToUpper(card.Badge), inner/2), muted)
		status := fit(card.Status, inner/2)
		r.text(q, maxCol-runewidth.StringWidth(status), row, maxCol, status, muted)
		row += 2
	}
	r.text(q, 2, row, maxCol, fit(title, inner), fill.Bold(true))
	row += 2

	last := q.H - 2
	for _, line := range wrap(card.Summary, inner) {
		if row >= last {
			break
		}
		r.text(q, 2, row, maxCol, line, fill)
		row++
	}
	if card.Outcome != "" && row+1 < last {
		row++
		r.text(q, 2, row, maxCol, "IMPACT", muted.Bold(true))
		row++
		for _, line := range wrap(card.Outcome, inner) {
			if row >= last {
				break
			}
			r.text(q, 2, row, maxCol, line, fill)
			row++
		}
	}
	if len(card.Tags) > 0 && row < last {
		r.text(q, 2, last, maxCol, fit("#"+strings.Join(card.Tags, " #"), inner), muted)
	}
}

type panelLine struct {
	s     string
	style tcell.Style
}

// drawPanel shows the selected card's details left of the stack
func (r *Renderer) drawPanel() {
	width := r.view.PanelCols - 2
	height := r.view.Rows - statusBarRows
	if width < 8 || height < 4 {
		return
	}
	frame := tcell.StyleDefault.Foreground(mutedColor).Background(panelColor)
	body := tcell.StyleDefault.Foreground(textColor).Background(panelColor)

	for y := 0; y < height; y++ {
		for x := 1; x <= width; x++ {
			ch := ' '
			switch {
			case y == 0 || y == height-1:
				ch = '─'
			case x == 1 || x == width:
				ch = '│'
			}
			r.screen.SetContent(x, y, ch, nil, frame)
		}
	}

	inner := width - 4
	r.print(3, 1, fit("SELECTED", inner), frame.Bold(true))

	card, ok := r.deck.Card(r.active)
	if !ok {
		for i, line := range wrap("Click a card to select it. Scroll or press space to advance the stack.", inner) {
			if 3+i >= height-1 {
				break
			}
			r.print(3, 3+i, line, frame)
		}
		return
	}

	y := 3
	lines := []panelLine{
		{card.Title, body.Bold(true).Foreground(accent(card.Accent))},
		{strings.TrimSpace(card.Badge + "  " + card.Status), frame},
		{"", body},
	}
	for _, l := range wrap(card.Summary, inner) {
		lines = append(lines, panelLine{l, body})
	}
	if card.Outcome != "" {
		lines = append(lines, panelLine{"", body}, panelLine{"IMPACT", frame.Bold(true)})
		for _, l := range wrap(card.Outcome, inner) {
			lines = append(lines, panelLine{l, body})
		}
	}
	if len(card.Tags) > 0 {
		lines = append(lines, panelLine{"", body}, panelLine{"#" + strings.Join(card.Tags, " #"), frame})
	}
	for _, l := range lines {
		if y >= height-1 {
			return
		}
		r.print(3, y, fit(l.s, inner), l.style)
		y++
	}
}

// drawStatus renders the bottom bar
func (r *Renderer) drawStatus(st Status) {
	y := r.view.Rows - 1
	style := tcell.StyleDefault.Foreground(mutedColor)

	state := st.State.String()
	if st.Paused {
		state += " (paused)"
	}
	front := "-"
	if len(st.Order) > 0 {
		front = r.deck.Title(st.Order.Front())
	}
	sound := "off"
	if st.Sound {
		sound = "on"
	}
	line := fmt.Sprintf(" %s | %s | front: %s | sound %s | q quit  p pause  space tick  click select",
		st.Mode, state, front, sound)
	r.print(0, y, fit(line, r.view.Cols), style)
}

// print writes s at absolute screen cells
func (r *Renderer) print(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x += max(runewidth.RuneWidth(ch), 1)
	}
}
