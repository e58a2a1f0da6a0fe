package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/platform/tui"
	"github.com/vovakirdan/gridplay/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start gridplay with a game picker menu",
	Long: `Start gridplay in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Episode history
  Q            - Quit

Examples:
  gridplay menu
  gridplay menu --db ./episodes.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(true)
	defer closeLog()

	store := openStore(cfg)
	rt := runtimeConfig()
	lastGame := ""

	for {
		menuResult, err := tui.RunMenu(store, rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		rt = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsHistory {
			goBack, histErr := tui.RunHistory(store, lastGame, rt.ScreenW, rt.ScreenH)
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		lastGame = game.ID()

		// A fresh seed per game unless --seed pins it
		if flagSeed == 0 {
			rt.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg, rt, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
