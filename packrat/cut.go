package packrat

import "errors"

var errCutUnderflow = errors.New("cut stack underflow")

// Cut is a commit flag handed to a term by its enclosing choice. Once cut,
// the choice stops trying further alternatives after a failure.
type Cut interface {
	Cut()
	IsCut() bool
}

type cutter struct{ cut bool }

func (c *cutter) Cut()        { c.cut = true }
func (c *cutter) IsCut() bool { return c.cut }

type noCut struct{}

func (noCut) Cut()        {}
func (noCut) IsCut() bool { return false }

// NoCut is the handle a rule's top-level term runs with. Cutting it has no
// effect.
//
//nolint:gochecknoglobals
var NoCut Cut = noCut{}

// cutStack pools handles by nesting depth. A handle is reset, not
// reallocated, each time its depth is pushed again.
type cutStack struct {
	handles []*cutter
	top     int
}

func (s *cutStack) push() Cut {
	if s.top == len(s.handles) {
		s.handles = append(s.handles, &cutter{})
	}

	c := s.handles[s.top]
	c.cut = false
	s.top++

	return c
}

func (s *cutStack) pop() {
	if s.top == 0 {
		panic(ErrMalformedState.Wrap(errCutUnderflow))
	}

	s.top--
}

func (s *cutStack) depth() int { return s.top }
