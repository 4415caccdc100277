// Package wizard sequences N opaque steps and derives the indicator and
// transition state for whichever step is active. It holds no validation:
// gating and bounds checks belong to the caller.
package wizard

import (
	"fmt"
	"sync"
)

type Indicator string

const (
	IndicatorPending  Indicator = "pending"
	IndicatorActive   Indicator = "active"
	IndicatorComplete Indicator = "complete"
)

type Direction int

const (
	DirectionBackward Direction = -1
	DirectionNone     Direction = 0
	DirectionForward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	}
	return "none"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "forward":
		*d = DirectionForward
	case "backward":
		*d = DirectionBackward
	case "none":
		*d = DirectionNone
	default:
		return fmt.Errorf("wizard: unknown direction %q", text)
	}
	return nil
}

// Frame is one rendering of the wizard.
type Frame[T any] struct {
	Active     int         `json:"active"`
	Total      int         `json:"total"`
	Direction  Direction   `json:"direction"`
	Key        int         `json:"transition_key"`
	Indicators []Indicator `json:"indicators"`
	Connectors []bool      `json:"connectors"`
	Content    T           `json:"content"`
	InRange    bool        `json:"-"`
}

type Stepper[T any] struct {
	mu        sync.Mutex
	steps     []T
	prev      int
	direction Direction
}

func New[T any](steps ...T) *Stepper[T] {
	return &Stepper[T]{steps: steps}
}

func (s *Stepper[T]) Len() int {
	return len(s.steps)
}

func (s *Stepper[T]) Step(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.steps) {
		return zero, false
	}
	return s.steps[i], true
}

// Render produces the frame for activeStep. The direction is derived from the
// previously rendered index and kept until the index changes again.
func (s *Stepper[T]) Render(activeStep int) Frame[T] {
	s.mu.Lock()
	if activeStep != s.prev {
		if activeStep > s.prev {
			s.direction = DirectionForward
		} else {
			s.direction = DirectionBackward
		}
		s.prev = activeStep
	}
	direction := s.direction
	s.mu.Unlock()

	total := len(s.steps)
	frame := Frame[T]{
		Active:     activeStep,
		Total:      total,
		Direction:  direction,
		Key:        activeStep,
		Indicators: make([]Indicator, total),
		Connectors: make([]bool, 0, max(total-1, 0)),
	}

	for i := range s.steps {
		frame.Indicators[i] = IndicatorFor(i, activeStep)
		if i < total-1 {
			frame.Connectors = append(frame.Connectors, activeStep > i)
		}
	}

	frame.Content, frame.InRange = s.Step(activeStep)
	return frame
}

func IndicatorFor(index, activeStep int) Indicator {
	switch {
	case index == activeStep:
		return IndicatorActive
	case index < activeStep:
		return IndicatorComplete
	default:
		return IndicatorPending
	}
}
