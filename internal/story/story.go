// Package story plays several games one after another as one episode.
//
// Each chapter is an ordinary engine. When a chapter terminates the story
// builds the next one, copies the free-form blackboard values across and
// starts it within the same tick, so a caller sees one continuous episode
// through the same Start/Tick API an engine has. The terminating chapter's
// last reward is added to the opening reward of its successor; its last
// observation and discount are dropped, except for the final chapter's.
//
// Chapters advance in order. A painter can redirect the story by setting
// KeyNext on its blackboard to another chapter's name, or end it with "".
package story

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridplay/internal/blackboard"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/engine"
	"github.com/vovakirdan/gridplay/internal/render"
)

// Blackboard keys the story maintains on every chapter's blackboard.
const (
	KeyChapter = "story.chapter" // name of the running chapter
	KeyPrior   = "story.prior"   // name of the chapter before it, if any
	KeyNext    = "story.next"    // chapter to play next; "" ends the story
)

var (
	ErrNoChapters       = errors.New("story: no chapters")
	ErrDuplicateChapter = errors.New("story: chapter name is already in use")
	ErrUnknownChapter   = errors.New("story: no chapter has this name")
	ErrShape            = errors.New("story: chapters render boards of different sizes")
	ErrKinds            = errors.New("story: chapters use a code for different kinds of painter")
	ErrStarted          = errors.New("story: Start called twice")
	ErrNotStarted       = errors.New("story: Tick called before Start")
	ErrGameOver         = errors.New("story: Tick called after the last chapter terminated")
)

// Chapter is one game in a story.
type Chapter struct {
	Name string
	// New builds the chapter's engine, ready for Start. It may be called
	// more than once.
	New func() (*engine.Engine, error)
	// Cropper, if set, crops the chapter's observations, e.g. to give every
	// chapter the same board size.
	Cropper render.Cropper
}

// Option configures a Story.
type Option func(*Story)

// WithFirst starts the story at the named chapter instead of the first.
func WithFirst(name string) Option {
	return func(s *Story) {
		s.first = name
	}
}

// WithLogger routes story diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Story) {
		if l != nil {
			s.logger = l
		}
	}
}

// Story is a running sequence of chapters. It is not safe for concurrent
// use.
type Story struct {
	chapters []Chapter
	byName   map[string]int
	first    string
	logger   *log.Logger

	rows, cols int
	kinds      map[core.Code]engine.Kind

	cur     *engine.Engine
	chapter int
	frame   int
	started bool
	over    bool
	failure error
	last    engine.StepResult
}

// New checks that the chapters fit together and returns a story ready for
// Start. Every chapter is built and started once, then thrown away, to
// learn its board size and painter kinds; nothing is copied between
// chapters during the check.
func New(chapters []Chapter, opts ...Option) (*Story, error) {
	if len(chapters) == 0 {
		return nil, ErrNoChapters
	}
	s := &Story{
		chapters: append([]Chapter(nil), chapters...),
		byName:   make(map[string]int, len(chapters)),
		logger:   log.New(io.Discard),
		kinds:    make(map[core.Code]engine.Kind),
		frame:    -1,
	}
	for i, ch := range s.chapters {
		if _, dup := s.byName[ch.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChapter, ch.Name)
		}
		s.byName[ch.Name] = i
	}
	s.first = s.chapters[0].Name
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := s.byName[s.first]; !ok {
		return nil, fmt.Errorf("%w: first chapter %q", ErrUnknownChapter, s.first)
	}

	for i := range s.chapters {
		if err := s.survey(i); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// survey builds and starts chapter i to check it against the others.
func (s *Story) survey(i int) error {
	ch := s.chapters[i]
	e, err := ch.New()
	if err != nil {
		return fmt.Errorf("story: build chapter %q: %w", ch.Name, err)
	}

	kinds := make(map[core.Code]engine.Kind)
	if bg := e.Background(); bg != nil {
		for _, c := range bg.Palette().Codes() {
			kinds[c] = engine.KindBackground
		}
	}
	things := e.Things()
	for _, c := range things.Codes() {
		t, _ := things.Get(c)
		kinds[c] = t.Kind()
	}
	for c, k := range kinds {
		if prev, ok := s.kinds[c]; ok && prev != k {
			return fmt.Errorf("%w: %q is a %v in chapter %q and a %v elsewhere", ErrKinds, c, k, ch.Name, prev)
		}
		s.kinds[c] = k
	}

	res, err := e.Start()
	if err != nil {
		return fmt.Errorf("story: start chapter %q: %w", ch.Name, err)
	}
	if ch.Cropper != nil {
		defer ch.Cropper.Reset()
	}
	obs, err := cropWith(ch, res.Observation)
	if err != nil {
		return err
	}
	rows, cols := obs.Board.Rows(), obs.Board.Cols()
	if i == 0 {
		s.rows, s.cols = rows, cols
	} else if rows != s.rows || cols != s.cols {
		return fmt.Errorf("%w: %q is %dx%d, %q is %dx%d",
			ErrShape, ch.Name, rows, cols, s.chapters[0].Name, s.rows, s.cols)
	}
	return nil
}

// Rows returns the height of every observation.
func (s *Story) Rows() int { return s.rows }

// Cols returns the width of every observation.
func (s *Story) Cols() int { return s.cols }

// Chapter returns the name of the running chapter.
func (s *Story) Chapter() string { return s.chapters[s.chapter].Name }

// Current returns the running chapter's engine, or nil before Start. It
// changes whenever a chapter ends.
func (s *Story) Current() *engine.Engine { return s.cur }

// Blackboard returns the running chapter's blackboard.
func (s *Story) Blackboard() *blackboard.Blackboard {
	if s.cur == nil {
		return nil
	}
	return s.cur.Blackboard()
}

// GameOver reports whether the last chapter has terminated.
func (s *Story) GameOver() bool { return s.over }

// Observation returns the latest observation. It is only available after
// Start.
func (s *Story) Observation() (render.Observation, bool) {
	if !s.started {
		return render.Observation{}, false
	}
	return s.last.Observation, true
}

// Start opens the first chapter and performs its opening tick. If chapters
// terminate as soon as they start, the story moves straight on.
func (s *Story) Start() (engine.StepResult, error) {
	if s.started {
		return engine.StepResult{}, ErrStarted
	}
	s.started = true
	if err := s.open(s.byName[s.first]); err != nil {
		return s.fail(err)
	}
	res, err := s.cur.Start()
	if err != nil {
		return s.fail(err)
	}
	return s.settle(res)
}

// Tick advances the running chapter by one step.
func (s *Story) Tick(input core.Input) (engine.StepResult, error) {
	switch {
	case !s.started:
		return engine.StepResult{}, ErrNotStarted
	case s.failure != nil:
		return engine.StepResult{}, fmt.Errorf("%w: %v", engine.ErrEpisodeFailed, s.failure)
	case s.over:
		return engine.StepResult{}, ErrGameOver
	}
	res, err := s.cur.Tick(input)
	if err != nil {
		return s.fail(err)
	}
	return s.settle(res)
}

// settle crops res and, if its chapter terminated, moves on to the next
// chapter that survives its opening tick.
func (s *Story) settle(res engine.StepResult) (engine.StepResult, error) {
	obs, err := s.crop(res.Observation)
	if err != nil {
		return s.fail(err)
	}
	res.Observation = obs

	for res.GameOver {
		next, ok, err := s.next()
		if err != nil {
			return s.fail(err)
		}
		if !ok {
			s.over = true
			s.logger.Debug("story finished", "chapter", s.Chapter())
			break
		}
		if err := s.open(next); err != nil {
			return s.fail(err)
		}
		first, err := s.cur.Start()
		if err != nil {
			return s.fail(err)
		}
		if first.Observation, err = s.crop(first.Observation); err != nil {
			return s.fail(err)
		}
		if v, ok := first.Reward.Value(); ok {
			res.Reward.Add(v)
		}
		res.Observation = first.Observation
		res.Discount = first.Discount
		res.GameOver = first.GameOver
	}

	s.frame++
	res.Frame = s.frame
	s.last = res
	return res, nil
}

// next resolves the chapter that follows the running one.
func (s *Story) next() (int, bool, error) {
	name, _ := blackboard.Lookup[string](s.cur.Blackboard(), KeyNext)
	if name == "" {
		return 0, false, nil
	}
	i, ok := s.byName[name]
	if !ok {
		return 0, false, fmt.Errorf("%w: %q, named by chapter %q", ErrUnknownChapter, name, s.Chapter())
	}
	return i, true, nil
}

// open builds chapter i and hands it the running chapter's blackboard
// values and unread log messages.
func (s *Story) open(i int) error {
	ch := s.chapters[i]
	e, err := ch.New()
	if err != nil {
		return fmt.Errorf("story: build chapter %q: %w", ch.Name, err)
	}
	bb := e.Blackboard()

	if prev := s.cur; prev != nil {
		old := prev.Blackboard()
		for _, k := range old.Keys() {
			v, _ := old.Get(k)
			bb.Set(k, v)
		}
		for _, msg := range old.ConsumeLog() {
			bb.Log(msg)
		}
		bb.Set(KeyPrior, s.Chapter())
	}
	bb.Set(KeyChapter, ch.Name)
	if i+1 < len(s.chapters) {
		bb.Set(KeyNext, s.chapters[i+1].Name)
	} else {
		bb.Set(KeyNext, "")
	}

	if ch.Cropper != nil {
		ch.Cropper.Reset()
	}
	s.cur, s.chapter = e, i
	s.logger.Debug("chapter opened", "chapter", ch.Name, "frame", s.frame+1)
	return nil
}

func (s *Story) crop(obs render.Observation) (render.Observation, error) {
	out, err := cropWith(s.chapters[s.chapter], obs)
	if err != nil {
		return render.Observation{}, err
	}
	if !out.Board.SameShape(s.rows, s.cols) {
		return render.Observation{}, fmt.Errorf("%w: %q rendered %dx%d, expected %dx%d",
			ErrShape, s.Chapter(), out.Board.Rows(), out.Board.Cols(), s.rows, s.cols)
	}
	return out, nil
}

func cropWith(ch Chapter, obs render.Observation) (render.Observation, error) {
	if ch.Cropper == nil {
		return obs, nil
	}
	out, err := ch.Cropper.Crop(obs)
	if err != nil {
		return render.Observation{}, fmt.Errorf("story: crop chapter %q: %w", ch.Name, err)
	}
	return out, nil
}

func (s *Story) fail(err error) (engine.StepResult, error) {
	s.failure = err
	s.logger.Error("story failed", "chapter", s.Chapter(), "error", err)
	return engine.StepResult{}, err
}
