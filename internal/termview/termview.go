// Package termview is the terminal host: the table drawn as glyphs on a tcell
// screen with the overlay painted into cell backgrounds.
package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/map-awareness/internal/awareness"
	"github.com/Garsondee/map-awareness/internal/session"
	"github.com/Garsondee/map-awareness/internal/surface/termsurface"
	"github.com/Garsondee/map-awareness/internal/tabletop"
)

const (
	// cellUnits is the canvas width of one cell at zoom 1.
	cellUnits = 25
	// panCells is how far one pan keypress moves the view.
	panCells  = 4
	frameTime = 16 * time.Millisecond
)

var (
	hudStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	tokenStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(235, 235, 220))
	hiddenStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 120, 110))
	gridStyle    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(60, 72, 56))
	controlStyle = tokenStyle.Reverse(true)
)

// Viewer drives a session from a tcell screen.
type Viewer struct {
	s       *session.Session
	surface *termsurface.Surface
	screen  tcell.Screen
	log     zerolog.Logger

	showHUD bool
}

// New creates a viewer on an initialized screen. surf must be the surface the
// session's table draws on.
func New(s *session.Session, surf *termsurface.Surface, screen tcell.Screen, log zerolog.Logger) *Viewer {
	screen.EnableMouse()
	return &Viewer{s: s, surface: surf, screen: screen, log: log, showHUD: true}
}

// View returns the cell mapping for the current camera and screen size.
func (v *Viewer) View() termsurface.View {
	cols, rows := v.screen.Size()
	cam := v.s.Table.Camera()
	return termsurface.Centered(cam.X, cam.Y, cam.Zoom, cellUnits, cols, rows)
}

// Run polls events and redraws at a fixed frame rate until ctx is done or the
// user quits.
func (v *Viewer) Run(ctx context.Context) {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.s.Tick()
			v.Draw()
		}
	}
}

// HandleEvent applies one input event. It returns false when the user quits.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	step := v.View().CellW * panCells
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		v.s.ReleaseAll()
	case tcell.KeyTab:
		v.report(v.s.NextUser())
	case tcell.KeyUp:
		v.s.Pan(0, -step)
	case tcell.KeyDown:
		v.s.Pan(0, step)
	case tcell.KeyLeft:
		v.s.Pan(-step, 0)
	case tcell.KeyRight:
		v.s.Pan(step, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'w':
			v.s.Pan(0, -step)
		case 's':
			v.s.Pan(0, step)
		case 'a':
			v.s.Pan(-step, 0)
		case 'd':
			v.s.Pan(step, 0)
		case '+', '=':
			v.s.Zoom(1.25)
		case '-':
			v.s.Zoom(1 / 1.25)
		case 'p':
			v.report(v.s.TogglePlayerColors())
		case '[':
			v.report(v.s.AdjustRadius(-session.RadiusStep))
		case ']':
			v.report(v.s.AdjustRadius(session.RadiusStep))
		case 'c':
			v.report(v.s.CopyReport())
		case 'h':
			v.showHUD = !v.showHUD
		}
	}
	return true
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		v.s.Zoom(1.12)
	case btn&tcell.WheelDown != 0:
		v.s.Zoom(1 / 1.12)
	case btn&tcell.Button1 != 0:
		col, row := ev.Position()
		view := v.View()
		x, y := view.ToCanvas(col, row)
		v.s.Click(x, y, view.CellW*1.5)
	}
}

func (v *Viewer) report(err error) {
	if err != nil {
		v.log.Warn().Err(err).Msg("action failed")
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	v.screen.Clear()
	view := v.View()
	v.drawGrid(view)
	v.drawTokens(view)
	v.surface.Paint(v.screen, view)
	if v.showHUD {
		v.drawHUD()
	}
	v.screen.Show()
}

func (v *Viewer) drawGrid(view termsurface.View) {
	cols, rows := v.screen.Size()
	grid := v.s.Table.GridSize()
	bw, bh := v.s.Table.Bounds()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x, y := view.ToCanvas(col, row)
			if x < 0 || y < 0 || x > bw || y > bh {
				continue
			}
			// A dot in the cell holding each grid intersection.
			gx, gy := view.ToCell(roundTo(x, grid), roundTo(y, grid))
			if gx == col && gy == row {
				v.screen.SetContent(col, row, '·', nil, gridStyle)
			}
		}
	}
}

func (v *Viewer) drawTokens(view termsurface.View) {
	cols, rows := v.screen.Size()
	for _, tok := range v.s.Table.Placed() {
		if !tok.Visible() {
			continue
		}
		c := tok.Center()
		col, row := view.ToCell(c.X, c.Y)
		if col < 0 || row < 0 || col >= cols || row >= rows {
			continue
		}
		style := tokenStyle
		switch {
		case tok.Controlled():
			style = controlStyle
		case tok.Hidden():
			style = hiddenStyle
		}
		v.screen.SetContent(col, row, glyph(tok), nil, style)
	}
}

// glyph picks a token symbol from its actor kind.
func glyph(tok *tabletop.Token) rune {
	a, ok := tok.Actor()
	if !ok {
		return '?'
	}
	switch a.Kind() {
	case awareness.KindCharacter:
		return '@'
	case awareness.KindNPC:
		return 'N'
	default:
		return '*'
	}
}

func (v *Viewer) drawHUD() {
	cols, rows := v.screen.Size()
	lines := v.s.HUDLines()
	top := rows - len(lines)
	for i, line := range lines {
		row := top + i
		if row < 0 {
			continue
		}
		col := 0
		for _, r := range line {
			if col >= cols {
				break
			}
			v.screen.SetContent(col, row, r, nil, hudStyle)
			col++
		}
		for ; col < cols; col++ {
			v.screen.SetContent(col, row, ' ', nil, hudStyle)
		}
	}
}

func roundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return float64(int(v/step+0.5)) * step
}
