//go:build !ebiten

package app

import (
	"fmt"

	"github.com/pozyx/cae-go/internal/config"
	"github.com/pozyx/cae-go/internal/gpu"
)

// Game is a placeholder that satisfies the shape expected by the GUI build.
type Game struct{}

// New panics to indicate that the ebiten build tag is required for GUI
// support, matching mad-ca/internal/app.New's headless stub.
func New(*config.Config, gpu.Device) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// Close is a no-op placeholder.
func (g *Game) Close() error { return nil }

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
