// gridplay plays tile-grid games in the terminal, headless, or over SSH.
//
// Usage:
//
//	gridplay list                 - List available games
//	gridplay play <game>          - Play a game
//	gridplay menu                 - Start menu to pick games interactively
//	gridplay run <game> --actions - Play a scripted episode without a terminal UI
//	gridplay episodes <game>      - Show recorded episodes for a game
//	gridplay serve                - Start SSH server for remote play
//	gridplay level <file>         - Check a level file and print its first board
//
// Global flags:
//
//	--seed <value>      - Set RNG seed for reproducible episodes
//	--db <path>         - Set database path (default from config)
//	--config <path>     - Use a custom config file
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Append logs to a file (interactive commands log nowhere otherwise)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridplay/internal/config"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/registry"
	"github.com/vovakirdan/gridplay/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/gridplay/internal/games/adventure"
	_ "github.com/vovakirdan/gridplay/internal/games/chainwalk"
	_ "github.com/vovakirdan/gridplay/internal/games/cliffwalk"
	_ "github.com/vovakirdan/gridplay/internal/games/hello"
	_ "github.com/vovakirdan/gridplay/internal/games/snake"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridplay",
	Short: "gridplay - tile-grid games for people and scripts",
	Long: `gridplay runs small tile-grid games: a board of characters updated
once per action. Play them in the terminal, over SSH, or drive them with a
scripted list of actions.

Available commands:
  list      - Show all available games
  play      - Play a specific game directly
  menu      - Interactive game picker menu
  run       - Play a scripted episode and print every board
  episodes  - View recorded episodes
  serve     - Start SSH server for remote play
  level     - Check a level file

Examples:
  gridplay list
  gridplay play hello
  gridplay run cliffwalk --actions wddddddddddds
  gridplay serve --ssh :2222
  gridplay episodes cliffwalk`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to episode database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(levelCmd)
}

// fail prints an error the way every command reports one and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the config file chosen by --config and the search path.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

// newLogger builds the command logger. Interactive commands own the
// terminal, so they only log when --log-file is given.
func newLogger(interactive bool) (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("--log-level: %v", err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			fail("cannot open log file: %v", openErr)
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridplay",
		Level:           level,
	})
	return logger, closeFn
}

// dbPath prefers --db over the configured path.
func dbPath(cfg config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.Storage.DBPath
}

// openStore opens the episode database, or returns nil with a warning so
// games still work without it.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episode database: %v\n", err)
		return nil
	}
	return store
}

// mustGame looks up a registered game or exits with a hint.
func mustGame(id string) registry.Game {
	if !registry.Exists(id) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'gridplay list' to see available games.")
		os.Exit(1)
	}
	game, err := registry.Create(id)
	if err != nil {
		fail("creating game: %v", err)
	}
	return game
}

// runtimeConfig sizes the front end from the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	return cfg
}
