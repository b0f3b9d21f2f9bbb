//go:build ebiten

package app

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pozyx/cae-go/internal/assemble"
	"github.com/pozyx/cae-go/internal/ca"
	"github.com/pozyx/cae-go/internal/config"
	"github.com/pozyx/cae-go/internal/engine"
	"github.com/pozyx/cae-go/internal/gpu"
	"github.com/pozyx/cae-go/internal/render"
	"github.com/pozyx/cae-go/internal/tile"
)

// Game adapts the compute-and-cache core to the ebiten.Game interface,
// grounded on mad-ca/internal/app.Game: pan/zoom input drives a Viewport,
// a Debouncer gates recomputation, and the assembled result is blitted
// every frame. Pan/zoom maths follow cuda/src/render.cpp's
// applyPan/applyZoomAtPoint/screenToWorld.
type Game struct {
	cfg   *config.Config
	dev   gpu.Device
	cache *tile.Cache

	viewport assemble.Viewport
	cellSize float64
	limits   assemble.Limits

	debouncer *Debouncer

	painter           *render.GridPainter
	onColor, offColor color.Color

	dragging               bool
	dragStartX, dragStartY float64
	dragViewportAtStart    assemble.Viewport

	current *ca.OutputBuffer
}

// New constructs a Game from cfg over dev. If cfg.CacheEnabled(), a tile
// cache of the configured size is created and owned by the Game; otherwise
// every frame takes the direct (uncached) path.
func New(cfg *config.Config, dev gpu.Device) *Game {
	var cache *tile.Cache
	if cfg.CacheEnabled() {
		cache = tile.NewCache(int(cfg.CacheTiles), uint32(cfg.TileSize))
	}

	g := &Game{
		cfg:       cfg,
		dev:       dev,
		cache:     cache,
		cellSize:  config.DefaultCellSize,
		limits:    assemble.DefaultLimits(),
		debouncer: NewDebouncer(cfg.DebounceMS),
		onColor:   color.White,
		offColor:  color.Black,
	}
	g.reset()
	return g
}

// Close releases the Game's owned resources: its tile cache (if any), the
// in-flight output buffer, and the compute device.
func (g *Game) Close() error {
	if g.cache != nil {
		g.cache.Close()
	}
	g.current.Release()
	return g.dev.Close()
}

func (g *Game) reset() {
	visibleCellsX := float64(g.cfg.Width) / config.DefaultCellSize
	g.cellSize = config.DefaultCellSize
	g.viewport = assemble.Viewport{OffsetX: -visibleCellsX / 2, OffsetY: 0, Zoom: 1}
	g.debouncer.MarkChanged()
}

func (g *Game) screenToWorld(sx, sy, windowW, windowH float64) (float64, float64) {
	visibleX := windowW / g.cellSize
	visibleY := windowH / g.cellSize
	worldX := g.viewport.OffsetX + (sx/windowW)*visibleX
	worldY := g.viewport.OffsetY + (sy/windowH)*visibleY
	return worldX, worldY
}

func (g *Game) applyPan(dx, dy, windowW, windowH float64) {
	visibleX := windowW / g.cellSize
	visibleY := windowH / g.cellSize
	g.viewport.OffsetX = g.dragViewportAtStart.OffsetX - dx/windowW*visibleX
	g.viewport.OffsetY = g.dragViewportAtStart.OffsetY - dy/windowH*visibleY
	if g.viewport.OffsetY < 0 {
		g.viewport.OffsetY = 0
	}
	g.debouncer.MarkChanged()
}

func (g *Game) applyZoomAtPoint(newCellSize, anchorX, anchorY, windowW, windowH float64) {
	worldX, worldY := g.screenToWorld(anchorX, anchorY, windowW, windowH)
	fracX := anchorX / windowW
	fracY := anchorY / windowH

	g.cellSize = newCellSize

	newVisibleX := windowW / newCellSize
	newVisibleY := windowH / newCellSize
	g.viewport.OffsetX = worldX - fracX*newVisibleX
	g.viewport.OffsetY = worldY - fracY*newVisibleY
	if g.viewport.OffsetY < 0 {
		g.viewport.OffsetY = 0
	}
	g.debouncer.MarkChanged()
}

// Update handles pan/zoom/reset input and, once the debounce window has
// elapsed since the most recent viewport change, recomputes the visible
// region.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}

	windowW, windowH := float64(g.cfg.Width), float64(g.cfg.Height)

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if !g.dragging {
			g.dragging = true
			g.dragStartX, g.dragStartY = float64(x), float64(y)
			g.dragViewportAtStart = g.viewport
		} else {
			g.applyPan(float64(x)-g.dragStartX, float64(y)-g.dragStartY, windowW, windowH)
		}
	} else {
		g.dragging = false
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		x, y := ebiten.CursorPosition()
		newCellSize := g.cellSize * 1.1
		if wheelY < 0 {
			newCellSize = g.cellSize / 1.1
		}
		if newCellSize < g.limits.MinCellSize {
			newCellSize = g.limits.MinCellSize
		}
		if maxCellSize := config.DefaultCellSize * config.ZoomMax; newCellSize > maxCellSize {
			newCellSize = maxCellSize
		}
		if newCellSize != g.cellSize {
			g.applyZoomAtPoint(newCellSize, float64(x), float64(y), windowW, windowH)
		}
	}

	if g.debouncer.ShouldRecompute() {
		g.recompute()
	}

	return nil
}

func (g *Game) recompute() {
	box, ok := g.viewport.Quantize(uint32(g.cfg.Width), uint32(g.cfg.Height), g.cellSize, g.limits)
	if !ok {
		log.Printf("app: viewport too large to compute at cell size %.2f, skipping", g.cellSize)
		return
	}

	p := engine.Params{
		Rule:             uint8(g.cfg.Rule),
		StartGeneration:  uint32(box.VY0),
		Iterations:       uint32(box.VY1 - box.VY0),
		VisibleWidth:     uint32(box.VX1 - box.VX0),
		HorizontalOffset: int32(box.VX0),
		Seed:             g.cfg.Seed(),
	}

	var out *ca.OutputBuffer
	var err error
	if g.cache != nil {
		out, err = engine.RunWithCache(g.dev, p, g.cache)
	} else {
		out, err = engine.Run(g.dev, p)
	}
	if err != nil {
		log.Fatalf("app: compute failed: %v", err)
	}

	g.current.Release()
	g.current = out

	if g.painter == nil {
		g.painter = render.NewGridPainter(int(out.VisibleWidth), int(out.Height))
	} else {
		g.painter.Resize(int(out.VisibleWidth), int(out.Height))
	}
}

// Draw blits the most recently computed viewport, if any, to screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.current == nil || g.painter == nil {
		return
	}
	cells, err := render.VisibleCells(g.dev, g.current)
	if err != nil {
		log.Printf("app: reading visible cells: %v", err)
		return
	}
	g.painter.Blit(screen, cells, g.onColor, g.offColor)
}

// Layout returns the configured logical window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.cfg.Width), int(g.cfg.Height)
}
