// Package mapview is the Ebiten window host: it draws the table, forwards
// input to a session and lets the overlay paint on top.
package mapview

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/map-awareness/internal/session"
	"github.com/Garsondee/map-awareness/internal/surface/ebitensurface"
	"github.com/Garsondee/map-awareness/internal/tabletop"
)

const (
	// pickPixels is the click radius in screen pixels.
	pickPixels = 16
	// labelMinZoom hides token names when they would overlap.
	labelMinZoom = 0.45
	hudFontSize  = 14
	hudLineH     = 18
	hudPad       = 8
)

var (
	backgroundColor = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	groundColor     = color.RGBA{R: 46, G: 58, B: 42, A: 255}
	gridColor       = color.RGBA{R: 70, G: 86, B: 64, A: 120}
	tokenColor      = color.RGBA{R: 170, G: 160, B: 140, A: 255}
	hiddenColor     = color.RGBA{R: 170, G: 160, B: 140, A: 90}
	controlColor    = color.RGBA{R: 255, G: 255, B: 255, A: 230}
	labelColor      = color.RGBA{R: 235, G: 235, B: 220, A: 255}
)

// Viewer implements ebiten.Game over a session.
type Viewer struct {
	s       *session.Session
	surface *ebitensurface.Surface
	log     zerolog.Logger

	width, height int
	worldBuf      *ebiten.Image
	face          *text.GoTextFace

	showHUD       bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

// New creates a window viewer of w x h pixels. surf must be the surface the
// session's table draws on.
func New(s *session.Session, surf *ebitensurface.Surface, w, h int, log zerolog.Logger) (*Viewer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	bw, bh := s.Table.Bounds()
	return &Viewer{
		s:        s,
		surface:  surf,
		log:      log,
		width:    w,
		height:   h,
		worldBuf: ebiten.NewImage(int(math.Ceil(bw)), int(math.Ceil(bh))),
		face:     &text.GoTextFace{Source: src, Size: hudFontSize},
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}, nil
}

// Update handles input, then runs due overlay refreshes.
func (v *Viewer) Update() error {
	v.handleInput()
	v.s.Tick()
	return nil
}

// pressed reports a key going down this frame and records its state.
func (v *Viewer) pressed(cur map[ebiten.Key]bool, keys ...ebiten.Key) bool {
	down := false
	for _, k := range keys {
		cur[k] = ebiten.IsKeyPressed(k)
		if cur[k] && !v.prevKeys[k] {
			down = true
		}
	}
	return down
}

func (v *Viewer) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	zoom := v.s.Table.Zoom()

	// Camera pan: WASD or arrow keys, slower when zoomed in.
	panSpeed := 8.0 / zoom
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += panSpeed
	}
	v.s.Pan(dx, dy)

	// Camera zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		v.s.Zoom(math.Pow(1.12, wy))
	}
	if v.pressed(currentKeys, ebiten.KeyEqual) {
		v.s.Zoom(1.25)
	}
	if v.pressed(currentKeys, ebiten.KeyMinus) {
		v.s.Zoom(1 / 1.25)
	}

	if v.pressed(currentKeys, ebiten.KeyEscape) {
		v.s.ReleaseAll()
	}
	if v.pressed(currentKeys, ebiten.KeyP) {
		v.report(v.s.TogglePlayerColors())
	}
	if v.pressed(currentKeys, ebiten.KeyBracketLeft) {
		v.report(v.s.AdjustRadius(-session.RadiusStep))
	}
	if v.pressed(currentKeys, ebiten.KeyBracketRight) {
		v.report(v.s.AdjustRadius(session.RadiusStep))
	}
	if v.pressed(currentKeys, ebiten.KeyC) {
		v.report(v.s.CopyReport())
	}
	if v.pressed(currentKeys, ebiten.KeyTab) {
		v.report(v.s.NextUser())
	}
	if v.pressed(currentKeys, ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}

	// Left mouse click: toggle selection of the token under the cursor.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !v.prevMouseLeft {
		mx, my := ebiten.CursorPosition()
		cam := v.s.Table.Camera()
		wx, wy := cam.ToCanvas(float64(mx), float64(my), float64(v.width), float64(v.height))
		v.s.Click(wx, wy, pickPixels/cam.Zoom)
	}
	v.prevMouseLeft = left

	v.prevKeys = currentKeys
}

func (v *Viewer) report(err error) {
	if err != nil {
		v.log.Warn().Err(err).Msg("action failed")
	}
}

// cameraGeoM maps canvas coordinates to screen pixels: translate so the camera
// center is at the origin, scale, then move to the viewport center.
func cameraGeoM(cam tabletop.Camera, w, h int) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-cam.X, -cam.Y)
	g.Scale(cam.Zoom, cam.Zoom)
	g.Translate(float64(w)/2, float64(h)/2)
	return g
}

// Draw renders the world into worldBuf, blits it through the camera, then
// draws screen-space labels and the HUD.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	v.worldBuf.Clear()
	v.drawWorld(v.worldBuf)
	v.surface.Draw(v.worldBuf)

	cam := v.s.Table.Camera()
	var blit ebiten.DrawImageOptions
	blit.GeoM = cameraGeoM(cam, v.width, v.height)
	blit.Filter = ebiten.FilterLinear
	screen.DrawImage(v.worldBuf, &blit)

	if cam.Zoom >= labelMinZoom {
		v.drawLabels(screen, cam)
	}
	if v.showHUD {
		v.drawHUD(screen)
	}
}

func (v *Viewer) drawWorld(dst *ebiten.Image) {
	bw, bh := v.s.Table.Bounds()
	vector.DrawFilledRect(dst, 0, 0, float32(bw), float32(bh), groundColor, false)
	drawGrid(dst, float32(bw), float32(bh), float32(v.s.Table.GridSize()), gridColor)

	for _, tok := range v.s.Table.Placed() {
		if !tok.Visible() {
			continue
		}
		c := tok.Center()
		half := float32(tok.Size() / 2)
		x, y := float32(c.X)-half, float32(c.Y)-half
		fill := tokenColor
		if tok.Hidden() {
			fill = hiddenColor
		}
		vector.DrawFilledRect(dst, x+4, y+4, 2*half-8, 2*half-8, fill, false)
		if tok.Controlled() {
			vector.StrokeRect(dst, x, y, 2*half, 2*half, 4, controlColor, false)
		}
	}
}

func drawGrid(dst *ebiten.Image, w, h, spacing float32, c color.Color) {
	if spacing <= 0 {
		return
	}
	for x := float32(0); x <= w; x += spacing {
		vector.StrokeLine(dst, x, 0, x, h, 2, c, false)
	}
	for y := float32(0); y <= h; y += spacing {
		vector.StrokeLine(dst, 0, y, w, y, 2, c, false)
	}
}

func (v *Viewer) drawLabels(screen *ebiten.Image, cam tabletop.Camera) {
	for _, tok := range v.s.Table.Placed() {
		if !tok.Visible() || tok.Name() == "" {
			continue
		}
		c := tok.Center()
		sx, sy := cam.ToScreen(c.X, c.Y+tok.Size()/2, float64(v.width), float64(v.height))
		op := &text.DrawOptions{}
		op.GeoM.Translate(sx, sy+2)
		op.PrimaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(screen, tok.Name(), v.face, op)
	}
}

// drawHUD renders the session legend in the bottom-left corner.
func (v *Viewer) drawHUD(screen *ebiten.Image) {
	lines := v.s.HUDLines()
	maxW := 0.0
	for _, l := range lines {
		if w, _ := text.Measure(l, v.face, hudLineH); w > maxW {
			maxW = w
		}
	}
	boxW := float32(maxW + hudPad*2)
	boxH := float32(len(lines)*hudLineH + hudPad*2)
	bx := float32(8)
	by := float32(v.height) - boxH - 8

	vector.DrawFilledRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+hudPad, float64(by)+hudPad+float64(i*hudLineH))
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(screen, line, v.face, op)
	}
}

// Layout keeps a fixed logical screen size.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

// Title is the window title for the session.
func Title(s *session.Session) string {
	return fmt.Sprintf("Map Awareness - %s", s.Table.Name())
}
