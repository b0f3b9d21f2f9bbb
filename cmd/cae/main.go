//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pozyx/cae-go/internal/app"
	"github.com/pozyx/cae-go/internal/config"
	"github.com/pozyx/cae-go/internal/gpu/opencl"
)

func main() {
	cfg := config.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if errs := cfg.Validate(); len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "cae: "+e)
		}
		os.Exit(1)
	}

	printBanner(cfg)

	dev, err := opencl.New()
	if err != nil {
		log.Fatalf("cae: opening compute device: %v", err)
	}

	game := app.New(cfg, dev)
	defer game.Close()

	ebiten.SetWindowTitle(fmt.Sprintf("cae — rule %d", cfg.Rule))
	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowResizable(true)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func printBanner(cfg *config.Config) {
	initial := "1 (single cell)"
	if cfg.InitialState != "" {
		initial = cfg.InitialState
		if len(initial) > 30 {
			initial = initial[:27] + "..."
		}
	}

	cacheDesc := "disabled"
	if cfg.CacheEnabled() {
		cacheDesc = fmt.Sprintf("%d tiles of %dx%d cells", cfg.CacheTiles, cfg.TileSize, cfg.TileSize)
	}

	log.Printf("cae: rule=%d window=%dx%d initial_state=%s cache=%s debounce=%dms",
		cfg.Rule, cfg.Width, cfg.Height, initial, cacheDesc, cfg.DebounceMS)
}
