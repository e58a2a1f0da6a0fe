package engine

import "errors"

// Configuration errors, returned while registering painters.
var (
	ErrBadDimensions  = errors.New("engine: board dimensions must be positive")
	ErrBadCode        = errors.New("engine: codes must be single ASCII characters")
	ErrDuplicateCode  = errors.New("engine: code is already in use")
	ErrOutOfBounds    = errors.New("engine: position outside the board")
	ErrShape          = errors.New("engine: buffer shape does not match the board")
	ErrNotInPalette   = errors.New("engine: background code is not in its palette")
	ErrBackgroundSet  = errors.New("engine: background already registered")
	ErrBadDepthOrder  = errors.New("engine: depth order is not a permutation of registered codes")
	ErrNoBackground   = errors.New("engine: no background registered")
	ErrUnknownPalette = errors.New("engine: name is not a legal palette character")
)

// State machine violations.
var (
	ErrRegistrationClosed = errors.New("engine: registration is closed once the episode has started")
	ErrNotStarted         = errors.New("engine: Tick called before Start")
	ErrGameOver           = errors.New("engine: Tick called after the episode terminated")
	ErrEpisodeFailed      = errors.New("engine: episode failed on an earlier tick")
)

// ErrUnknownCode is returned at runtime when a directive names a code that
// belongs to no registered painter.
var ErrUnknownCode = errors.New("engine: no painter has this code")
