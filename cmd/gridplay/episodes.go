package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/platform/tui"
	"github.com/vovakirdan/gridplay/internal/storage"
)

var (
	flagEpisodesTUI   bool
	flagEpisodesAll   bool
	flagEpisodesLimit int
	flagEpisodesClear bool
	flagEpisodeID     string
)

var episodesCmd = &cobra.Command{
	Use:   "episodes [game]",
	Short: "Show recorded episodes for a game",
	Long: `Display the best recorded episodes for the specified game.

Examples:
  gridplay episodes cliffwalk
  gridplay episodes hello --all
  gridplay episodes hello --tui
  gridplay episodes --id 0b6f3c2e-...
  gridplay episodes chainwalk --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEpisodes,
}

func init() {
	episodesCmd.Flags().BoolVar(&flagEpisodesTUI, "tui", false, "Browse episodes in the interactive table")
	episodesCmd.Flags().BoolVar(&flagEpisodesAll, "all", false, "List every episode, newest first")
	episodesCmd.Flags().IntVar(&flagEpisodesLimit, "limit", 10, "How many of the best episodes to show")
	episodesCmd.Flags().BoolVar(&flagEpisodesClear, "clear", false, "Delete every episode of the game")
	episodesCmd.Flags().StringVar(&flagEpisodeID, "id", "", "Show a single episode")
}

func runEpisodes(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fail("opening episode database: %v", err)
	}
	defer store.Close()

	if flagEpisodeID != "" {
		showEpisode(store, flagEpisodeID)
		return
	}

	if len(args) == 0 {
		fail("a game is required unless --id is given")
	}
	game := mustGame(args[0])

	switch {
	case flagEpisodesTUI:
		rt := runtimeConfig()
		if _, err := tui.RunHistory(store, game.ID(), rt.ScreenW, rt.ScreenH); err != nil {
			fail("%v", err)
		}
		return

	case flagEpisodesClear:
		if err := store.ClearEpisodes(game.ID()); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared episodes of %s.\n", game.Title())
		return
	}

	var entries []storage.EpisodeEntry
	if flagEpisodesAll {
		entries, err = store.AllEpisodes(game.ID())
	} else {
		entries, err = store.TopEpisodes(game.ID(), flagEpisodesLimit)
	}
	if err != nil {
		fail("retrieving episodes: %v", err)
	}

	fmt.Printf("Episodes - %s\n", game.Title())

	if len(entries) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'gridplay play %s' to record the first one!\n", game.ID())
		return
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		end := "cut"
		if e.Terminated {
			end = "done"
		}
		rows[i] = []string{
			fmt.Sprint(i + 1),
			fmt.Sprintf("%g", e.Return),
			fmt.Sprint(e.Frames),
			end,
			e.CreatedAt.Format("2006-01-02 15:04"),
			shortID(e.ID),
		}
	}
	printTable([]string{"#", "Return", "Frames", "End", "Played", "ID"}, rows)

	stats, err := store.GetGameStats(game.ID())
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %g  Average: %.2f  Episodes: %d (%d finished)  Frames: %d\n",
			stats.BestReturn, stats.AvgReturn, stats.Episodes, stats.Terminated, stats.TotalFrames)
	}
}

func showEpisode(store *storage.Store, id string) {
	e, err := store.Episode(id)
	if err != nil {
		fail("%v", err)
	}
	if e == nil {
		fmt.Fprintf(os.Stderr, "Error: no episode %q\n", id)
		os.Exit(1)
	}
	fmt.Printf("id          %s\n", e.ID)
	fmt.Printf("game        %s\n", e.GameID)
	fmt.Printf("seed        %d\n", e.Seed)
	fmt.Printf("frames      %d\n", e.Frames)
	fmt.Printf("return      %g\n", e.Return)
	fmt.Printf("terminated  %v\n", e.Terminated)
	fmt.Printf("discount    %g\n", e.Discount)
	fmt.Printf("played      %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
}

// shortID keeps enough of a UUID to find it again with --id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
