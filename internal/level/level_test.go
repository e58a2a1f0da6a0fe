package level

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/render"
)

func start(t *testing.T, l Level, b Behaviors, opts ...engine.Option) (*engine.Engine, render.Observation) {
	t.Helper()
	e, err := Build(l, b, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, err := e.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e, res.Observation
}

func TestBuildRoundTrip(t *testing.T) {
	l := Level{
		Art: []string{
			"#####",
			"#P.$#",
			"#$$.#",
			"#####",
		},
		Beneath: ".",
		Points:  []string{"P"},
		Regions: []string{"$"},
	}
	e, obs := start(t, l, Behaviors{})

	if got := obs.Board.Lines(); !reflect.DeepEqual(got, l.Art) {
		t.Errorf("board = %q, want %q", got, l.Art)
	}
	if got := e.Background().Curtain().Lines(); !reflect.DeepEqual(got, []string{"#####", "#...#", "#...#", "#####"}) {
		t.Errorf("curtain = %q", got)
	}
	if got := e.Background().Palette().Codes(); !reflect.DeepEqual(got, []core.Code{'#', '.'}) {
		t.Errorf("palette = %v, want #.", got)
	}
	if got := obs.Mask('$').Count(); got != 3 {
		t.Errorf("$ count = %d, want 3", got)
	}
	p, ok := e.Things().Point('P')
	if !ok || p.Position() != core.Pos(1, 1) {
		t.Errorf("P = %v, %v", p, ok)
	}
}

func TestBuildScheduleAndDepth(t *testing.T) {
	l := Level{
		Art:        []string{"ab.c"},
		Beneath:    ".",
		Points:     []string{"a", "b"},
		Regions:    []string{"c"},
		Schedule:   [][]string{{"c"}, {"b", "a"}},
		DepthOrder: "cab",
	}
	e, _ := start(t, l, Behaviors{})
	if got, want := e.Groups(), []string{"00000", "00001"}; !reflect.DeepEqual(got, want) {
		t.Errorf("groups = %v, want %v", got, want)
	}
	if got, want := e.DepthOrder(), []core.Code{'c', 'a', 'b'}; !reflect.DeepEqual(got, want) {
		t.Errorf("depth = %v, want %v", got, want)
	}

	l.DepthOrder = ""
	e, _ = start(t, l, Behaviors{})
	if got, want := e.DepthOrder(), []core.Code{'c', 'b', 'a'}; !reflect.DeepEqual(got, want) {
		t.Errorf("default depth = %v, want schedule order %v", got, want)
	}
}

func TestBuildBehaviorsAndOptions(t *testing.T) {
	var moved bool
	l := Level{
		Art:       []string{"P.."},
		Beneath:   ".",
		Points:    []string{"P"},
		Occlusion: "unoccluded",
	}
	b := Behaviors{Points: map[core.Code]engine.PointBehavior{
		'P': engine.PointFunc(func(p *engine.Point, ctx *engine.Context) error {
			if ctx.Blackboard.Frame() == 1 {
				moved = true
				return p.MoveTo(core.Pos(0, 2))
			}
			return nil
		}),
	}}

	e, obs := start(t, l, b)
	if e.Occlusion() != render.Unoccluded {
		t.Errorf("occlusion = %v, want unoccluded", e.Occlusion())
	}
	if got := obs.Mask('.').Count(); got != 3 {
		t.Errorf("unoccluded . count = %d, want 3", got)
	}
	res, err := e.Tick(core.NoInput)
	if err != nil {
		t.Fatal(err)
	}
	if !moved || res.Observation.Board.Row(0) != "..P" {
		t.Errorf("board = %q, moved = %v", res.Observation.Board.Row(0), moved)
	}

	e, _ = start(t, l, b, engine.WithOcclusion(render.Occluding))
	if e.Occlusion() != render.Occluding {
		t.Error("option did not override level occlusion")
	}
}

func TestBuildMissingPointStartsHidden(t *testing.T) {
	l := Level{Art: []string{"..."}, Beneath: ".", Points: []string{"P"}}
	e, obs := start(t, l, Behaviors{})
	p, _ := e.Things().Point('P')
	if p.Visible() {
		t.Error("P is visible")
	}
	if obs.Board.Row(0) != "..." {
		t.Errorf("board = %q", obs.Board.Row(0))
	}
}

func TestBackdropExtraCodes(t *testing.T) {
	l := Level{Art: []string{".."}, Beneath: ".", Backdrop: "#"}
	e, _ := start(t, l, Behaviors{})
	if !e.Background().Palette().Contains('#') {
		t.Error("# not in palette")
	}
}

func TestValidate(t *testing.T) {
	base := func() Level {
		return Level{Art: []string{"P.", ".c"}, Beneath: ".", Points: []string{"P"}, Regions: []string{"c"}}
	}
	tests := []struct {
		name    string
		mutate  func(l *Level)
		wantErr error
	}{
		{"ok", func(*Level) {}, nil},
		{"empty", func(l *Level) { l.Art = nil }, ErrEmptyArt},
		{"ragged", func(l *Level) { l.Art = []string{"P.", "."} }, ErrRaggedArt},
		{"non-ascii art", func(l *Level) { l.Art = []string{"Pé"} }, ErrBadChar},
		{"long point name", func(l *Level) { l.Points = []string{"PP"} }, ErrBadChar},
		{"beneath is a point", func(l *Level) { l.Beneath = "P" }, ErrBeneath},
		{"point twice", func(l *Level) { l.Art = []string{"P.", ".P"} }, ErrPointCount},
		{"schedule misses c", func(l *Level) { l.Schedule = [][]string{{"P"}} }, ErrSchedule},
		{"schedule repeats P", func(l *Level) { l.Schedule = [][]string{{"P"}, {"P", "c"}} }, ErrSchedule},
		{"depth misses c", func(l *Level) { l.DepthOrder = "P" }, ErrDepthOrder},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := base()
			tc.mutate(&l)
			if err := l.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	l := base()
	l.Occlusion = "sideways"
	if err := l.Validate(); err == nil {
		t.Error("unknown occlusion accepted")
	}
}

func TestBuildRejectsPaletteClash(t *testing.T) {
	l := Level{Art: []string{"P."}, Beneath: ".", Points: []string{"P"}, Backdrop: "P"}
	if _, err := Build(l, Behaviors{}); !errors.Is(err, engine.ErrDuplicateCode) {
		t.Errorf("err = %v, want ErrDuplicateCode", err)
	}
}

const yamlLevel = `
id: room
name: Small room
art:
  - "####"
  - "#P$#"
  - "####"
beneath: " "
points: [P]
regions: [$]
schedule:
  - [P]
  - [$]
occlusion: occluding
`

const tomlLevel = `
id = "room"
name = "Small room"
art = [
  "####",
  "#P$#",
  "####",
]
beneath = " "
points = ["P"]
regions = ["$"]
schedule = [["P"], ["$"]]
occlusion = "occluding"
`

func TestParseFormats(t *testing.T) {
	want := Level{
		ID:        "room",
		Name:      "Small room",
		Art:       []string{"####", "#P$#", "####"},
		Beneath:   " ",
		Points:    []string{"P"},
		Regions:   []string{"$"},
		Schedule:  [][]string{{"P"}, {"$"}},
		Occlusion: "occluding",
	}
	tests := []struct {
		ext  string
		data string
	}{
		{".yaml", yamlLevel},
		{"yml", yamlLevel},
		{".toml", tomlLevel},
	}
	for _, tc := range tests {
		t.Run(tc.ext, func(t *testing.T) {
			got, err := Parse([]byte(tc.data), tc.ext)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Parse = %+v, want %+v", got, want)
			}
		})
	}

	if _, err := Parse([]byte("{}"), ".json"); !errors.Is(err, ErrFormat) {
		t.Errorf("json: err = %v, want ErrFormat", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.toml")
	data := []byte("art = [\"P.\"]\nbeneath = \".\"\npoints = [\"P\"]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if l.ID != "arena" {
		t.Errorf("ID = %q, want arena", l.ID)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("art: [\"P.\", \".\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); !errors.Is(err, ErrRaggedArt) {
		t.Errorf("err = %v, want ErrRaggedArt", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}
