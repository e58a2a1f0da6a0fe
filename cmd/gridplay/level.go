package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/level"
	"github.com/vovakirdan/gridplay/internal/platform/tui"
)

var levelCmd = &cobra.Command{
	Use:   "level <file>",
	Short: "Check a level file and print its first board",
	Long: `Load a YAML or TOML level, build it with painters that never move,
and print the opening board, update groups, depth order and mask sizes.
Useful while drawing a new level.

Examples:
  gridplay level internal/games/hello/level.yaml
  gridplay level ./my-level.toml`,
	Args: cobra.ExactArgs(1),
	Run:  runLevel,
}

func runLevel(_ *cobra.Command, args []string) {
	logger, closeLog := newLogger(false)
	defer closeLog()

	l, err := level.LoadFile(args[0])
	if err != nil {
		fail("%v", err)
	}

	e, err := level.Build(l, level.Behaviors{}, engine.WithLogger(logger))
	if err != nil {
		fail("%v", err)
	}
	res, err := e.Start()
	if err != nil {
		fail("%v", err)
	}

	rows, cols := l.Size()
	fmt.Printf("%s (%s)  %dx%d  occlusion %s\n\n", l.Name, l.ID, rows, cols, e.Occlusion())
	fmt.Println(res.Observation.Board.String())
	fmt.Println()
	fmt.Printf("groups       %q\n", e.Groups())
	fmt.Printf("depth order  %s\n", codeString(e.DepthOrder()))
	fmt.Printf("palette      %q\n", codeString(e.Background().Palette().Codes()))
	fmt.Println()
	fmt.Println(tui.RenderMasks(res.Observation))
}

func codeString(codes []core.Code) string {
	b := make([]byte, len(codes))
	for i, c := range codes {
		b[i] = byte(c)
	}
	return string(b)
}
