package render

import (
	"math"

	"github.com/lixenwraith/cardswap/engine"
	"github.com/lixenwraith/cardswap/parameter"
)

// Terminal cells are roughly twice as tall as they are wide
const cellAspect = 2.0

// Layout fractions of the screen
const (
	panelFraction = 0.4 // detail panel share of the width
	panelMinCols  = 72  // below this the panel is hidden
	stackFillCols = 0.9
	stackFillRows = 0.8
	statusBarRows = 1
	minCardCells  = 3
)

// Viewport maps card pixels to terminal cells
type Viewport struct {
	Cols, Rows int
	PanelCols  int // detail panel width, 0 when hidden

	// Cell position of the slot-0 card center
	OriginX, OriginY float64

	PxPerCol, PxPerRow float64
}

// Fit sizes the viewport so the resting stack fills the area right of the panel
func Fit(cols, rows int, cfg engine.Config) Viewport {
	v := Viewport{Cols: max(cols, 1), Rows: max(rows, 1)}
	if cols >= panelMinCols {
		v.PanelCols = int(float64(cols) * panelFraction)
	}

	stackCols := float64(max(v.Cols-v.PanelCols, 1))
	stackRows := float64(max(v.Rows-statusBarRows, 1))

	spread := float64(max(cfg.CardCount-1, 0))
	extentX := cfg.Width + spread*cfg.CardDistance
	extentY := cfg.Height + spread*cfg.VerticalDistance

	v.PxPerCol = math.Max(extentX/(stackCols*stackFillCols), extentY/(cellAspect*stackRows*stackFillRows))
	if v.PxPerCol <= 0 || math.IsInf(v.PxPerCol, 0) || math.IsNaN(v.PxPerCol) {
		v.PxPerCol = 1
	}
	v.PxPerRow = v.PxPerCol * cellAspect

	// Center the bundle: slot i sits right of and above slot 0
	v.OriginX = float64(v.PanelCols) + stackCols/2 - spread*cfg.CardDistance/2/v.PxPerCol
	v.OriginY = stackRows/2 + spread*cfg.VerticalDistance/2/v.PxPerRow
	return v
}

// Quad is a card's projected footprint, columns are sheared vertically by Shear rows per column
type Quad struct {
	ID     int
	Left   int
	Top    int
	W, H   int
	Shear  float64
	Center float64 // column the shear pivots on
	Depth  int
	Rank   int // committed stack index
}

// Project converts a card's visual state into a cell quad
func (v Viewport) Project(cs engine.CardState, width, height float64) Quad {
	scale := perspectiveScale(cs.Z)

	cx := v.OriginX + cs.X*scale/v.PxPerCol
	cy := v.OriginY + cs.Y*scale/v.PxPerRow
	w := max(int(math.Round(width*scale/v.PxPerCol)), minCardCells)
	h := max(int(math.Round(height*scale/v.PxPerRow)), minCardCells)

	return Quad{
		ID:     cs.ID,
		Left:   int(math.Round(cx - float64(w)/2)),
		Top:    int(math.Round(cy - float64(h)/2)),
		W:      w,
		H:      h,
		Shear:  math.Tan(cs.Skew*math.Pi/180) * v.PxPerCol / v.PxPerRow,
		Center: cx,
		Depth:  cs.Depth,
		Rank:   cs.StackIndex,
	}
}

// perspectiveScale shrinks cards pushed back along Z
func perspectiveScale(z float64) float64 {
	d := parameter.Perspective - z
	if d <= 0 {
		return 1
	}
	return parameter.Perspective / d
}

// RowShift is the vertical offset applied to column x
func (q Quad) RowShift(x int) int {
	return int(math.Round((float64(x) + 0.5 - q.Center) * q.Shear))
}

// Contains reports whether cell (x, y) lies on the sheared card
func (q Quad) Contains(x, y int) bool {
	if x < q.Left || x >= q.Left+q.W {
		return false
	}
	top := q.Top + q.RowShift(x)
	return y >= top && y < top+q.H
}
