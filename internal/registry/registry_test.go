package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/gridplay/internal/engine"
)

type stubGame struct{}

func (stubGame) ID() string    { return "zz-stub" }
func (stubGame) Title() string { return "Stub" }
func (stubGame) Keys() string  { return "none" }
func (stubGame) Launch(int64, ...engine.Option) (Playable, error) {
	return engine.New(1, 1)
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", func() Game { return stubGame{} })

	if !Exists("zz-stub") {
		t.Fatal("zz-stub not registered")
	}
	g, err := Create("zz-stub")
	if err != nil {
		t.Fatal(err)
	}
	if g.Title() != "Stub" {
		t.Errorf("Title() = %q", g.Title())
	}

	list := List()
	last := list[len(list)-1]
	if last != (GameInfo{ID: "zz-stub", Title: "Stub", Keys: "none"}) {
		t.Errorf("last info = %+v", last)
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("zz-stub", func() Game { return stubGame{} })
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-game"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Create() error = %v, want ErrUnknownGame", err)
	}
}

func TestRegisterMismatchedID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering under a different ID did not panic")
		}
	}()
	Register("zz-other", func() Game { return stubGame{} })
}
