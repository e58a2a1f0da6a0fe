package engine

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/gridplay/internal/core"
)

// Palette is the set of codes a background may paint. Besides direct
// membership tests it resolves human-friendly names, so game code can write
// palette.MustLookup("hash") instead of a bare '#'.
type Palette struct {
	codes map[core.Code]struct{}
}

// NewPalette builds a palette from a string of single-byte ASCII characters.
// Repeated characters are allowed and collapse.
func NewPalette(chars string) (Palette, error) {
	p := Palette{codes: make(map[core.Code]struct{}, len(chars))}
	for _, r := range chars {
		if r < 0 || r > 127 {
			return Palette{}, fmt.Errorf("%w: %q", ErrBadCode, r)
		}
		p.codes[core.Code(r)] = struct{}{}
	}
	return p, nil
}

// MustPalette is like NewPalette but panics on error. Intended for
// package-level palettes built from literals.
func MustPalette(chars string) Palette {
	p, err := NewPalette(chars)
	if err != nil {
		panic(err)
	}
	return p
}

// Contains reports whether c is legal in this palette.
func (p Palette) Contains(c core.Code) bool {
	_, ok := p.codes[c]
	return ok
}

// Len returns the number of legal codes.
func (p Palette) Len() int {
	return len(p.codes)
}

// Codes returns the legal codes, sorted.
func (p Palette) Codes() []core.Code {
	codes := make([]core.Code, 0, len(p.codes))
	for c := range p.codes {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Lookup resolves a single character or one of its names ("hash", "period",
// "space", ...) to a legal code.
func (p Palette) Lookup(name string) (core.Code, error) {
	if alias, ok := paletteAliases[name]; ok {
		name = alias
	}
	if len(name) == 1 && p.Contains(core.Code(name[0])) {
		return core.Code(name[0]), nil
	}
	return 0, fmt.Errorf("%w: %q (legal: %q)", ErrUnknownPalette, name, string(codeBytes(p.Codes())))
}

// MustLookup is like Lookup but panics when the name is not legal.
func (p Palette) MustLookup(name string) core.Code {
	c, err := p.Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

var paletteAliases = map[string]string{
	"space":        " ",
	"backtick":     "`",
	"tilde":        "~",
	"zero":         "0",
	"one":          "1",
	"two":          "2",
	"three":        "3",
	"four":         "4",
	"five":         "5",
	"six":          "6",
	"seven":        "7",
	"eight":        "8",
	"nine":         "9",
	"bang":         "!",
	"at":           "@",
	"hash":         "#",
	"pound":        "#",
	"dollar":       "$",
	"percent":      "%",
	"food":         "%",
	"caret":        "^",
	"trap":         "^",
	"ampersand":    "&",
	"star":         "*",
	"asterisk":     "*",
	"lparen":       "(",
	"rparen":       ")",
	"dash":         "-",
	"hyphen":       "-",
	"underscore":   "_",
	"plus":         "+",
	"equals":       "=",
	"lsquare":      "[",
	"rsquare":      "]",
	"lbrace":       "{",
	"rbrace":       "}",
	"pipe":         "|",
	"backslash":    "\\",
	"semicolon":    ";",
	"colon":        ":",
	"quote":        "'",
	"dquote":       "\"",
	"comma":        ",",
	"less_than":    "<",
	"period":       ".",
	"full_stop":    ".",
	"greater_than": ">",
	"question":     "?",
	"slash":        "/",
}

func codeBytes(codes []core.Code) []byte {
	b := make([]byte, len(codes))
	for i, c := range codes {
		b[i] = byte(c)
	}
	return b
}
