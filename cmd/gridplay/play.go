package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game. The board advances once per
action key, or also on its own when play.tick_delay_ms is set.

Controls:
  Arrows/WASD/HJKL - Move
  Space/.          - Wait a turn
  R                - Restart (after the episode ends)
  B/Esc            - Leave the game
  Q/Ctrl+C         - Quit

Examples:
  gridplay play hello
  gridplay play cliffwalk --seed 42
  gridplay play hello --config ./my-gridplay.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	game := mustGame(args[0])
	cfg := loadConfig()
	logger, closeLog := newLogger(true)
	defer closeLog()

	store := openStore(cfg)

	runErr := tui.Run(game, store, cfg, runtimeConfig(), logger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
