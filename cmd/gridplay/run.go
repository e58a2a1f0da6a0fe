package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/episode"
)

var (
	flagActions  string
	flagMaxTicks int
	flagSave     bool
	flagQuiet    bool
)

var runCmd = &cobra.Command{
	Use:   "run <game>",
	Short: "Play a scripted episode without the terminal UI",
	Long: `Play one episode from a script of actions and print every board.

Actions are one character each:
  w/k  up      s/j  down
  a/h  left    d/l  right
  . or space   wait a turn

The episode stops when the script runs out, the game ends it, or
--max-ticks ticks have been taken.

Examples:
  gridplay run cliffwalk --actions wddddddddddds
  gridplay run chainwalk --actions dddddddd --seed 3 --save
  gridplay run hello --actions ddssaa --quiet`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagActions, "actions", "", "Action script, one character per tick")
	runCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 0, "Stop after this many ticks (0 = no limit)")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Record the episode in the database")
	runCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print the summary")
}

func runRun(_ *cobra.Command, args []string) {
	game := mustGame(args[0])
	cfg := loadConfig()
	logger, closeLog := newLogger(false)
	defer closeLog()

	actions, err := episode.ParseActions(flagActions)
	if err != nil {
		fail("%v", err)
	}
	occlusion, err := cfg.Occlusion()
	if err != nil {
		fail("%v", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	runner := episode.Runner{
		Game:         game,
		Logger:       logger,
		Occlusion:    occlusion,
		RecordBoards: !flagQuiet,
	}
	sum, runErr := runner.Run(seed, actions, flagMaxTicks)

	for i, board := range sum.Boards {
		fmt.Printf("frame %d\n%s\n\n", i, board)
	}
	fmt.Printf("game %s  seed %d  frames %d  return %g  terminated %v  discount %g\n",
		sum.GameID, sum.Seed, sum.Frames, sum.Return, sum.Terminated, sum.FinalDiscount)

	if runErr != nil {
		fail("%v", runErr)
	}

	if flagSave {
		store := openStore(cfg)
		if store == nil {
			os.Exit(1)
		}
		defer store.Close()
		if err := store.SaveEpisode(sum); err != nil {
			fail("%v", err)
		}
		fmt.Printf("saved episode %s\n", sum.ID)
	}
}
