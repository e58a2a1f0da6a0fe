package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridplay/internal/config"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/render"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// BoardStyles holds the style of each board code.
type BoardStyles map[core.Code]lipgloss.Style

// NewBoardStyles resolves the configured colours. A value is either a
// colour name ("red", "bright_cyan") or anything lipgloss accepts as a
// colour ("208", "#ff8800").
func NewBoardStyles(cfg config.Config) BoardStyles {
	styles := make(BoardStyles, len(cfg.Colors))
	for key, value := range cfg.Colors {
		if len(key) != 1 {
			continue
		}
		styles[core.Code(key[0])] = styleFor(value)
	}
	return styles
}

func styleFor(value string) lipgloss.Style {
	if c, ok := core.ParseColor(value); ok {
		return colorStyles[c]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

// style returns the style for c, falling back to the terminal default.
func (s BoardStyles) style(c core.Code) lipgloss.Style {
	if st, ok := s[c]; ok {
		return st
	}
	return colorStyles[core.ColorDefault]
}

// RenderBoard converts a board to a styled string for display.
// Groups adjacent cells with the same code to minimize ANSI escape sequences.
func RenderBoard(b core.Board, styles BoardStyles) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(b.Rows()*b.Cols()*2 + b.Rows())

	for r := range b.Rows() {
		if r > 0 {
			sb.WriteRune('\n')
		}

		row := b[r]
		c := 0
		for c < len(row) {
			start := row[c]
			end := c
			for end < len(row) && row[end] == start {
				end++
			}
			sb.WriteString(styles.style(start).Render(strings.Repeat(string(rune(start)), end-c)))
			c = end
		}
	}
	return sb.String()
}

// RenderMasks lists how many cells each code covers, one code per line.
func RenderMasks(obs render.Observation) string {
	var sb strings.Builder
	for i, c := range obs.Codes() {
		if i > 0 {
			sb.WriteRune('\n')
		}
		fmt.Fprintf(&sb, "%c %4d", c, obs.Mask(c).Count())
	}
	return sb.String()
}
