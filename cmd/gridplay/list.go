package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		games := registry.List()
		if len(games) == 0 {
			fmt.Println("No games are compiled in.")
			return
		}

		rows := make([][]string, len(games))
		for i, g := range games {
			rows[i] = []string{g.ID, g.Title, g.Keys}
		}
		printTable([]string{"ID", "Title", "Controls"}, rows)
		fmt.Println("Play one with 'gridplay play <id>', or script it with 'gridplay run <id> --actions ...'.")
	},
}
