package roster

import "fmt"

// Signal is a person's request for a standard shift on a given day
type Signal int

const (
	Forbid  Signal = -1
	Neutral Signal = 0
	Prefer  Signal = 1
)

// ParseSignal converts the raw -1/0/1 encoding into a Signal
func ParseSignal(v int) (Signal, error) {
	switch Signal(v) {
	case Forbid, Neutral, Prefer:
		return Signal(v), nil
	}
	return Neutral, fmt.Errorf("request signal must be -1, 0 or 1, got %d", v)
}

func (s Signal) Valid() bool {
	return s == Forbid || s == Neutral || s == Prefer
}

func (s Signal) String() string {
	switch s {
	case Forbid:
		return "forbid"
	case Neutral:
		return "neutral"
	case Prefer:
		return "prefer"
	}
	return fmt.Sprintf("Signal(%d)", int(s))
}

// SignalCube builds a request cube of the given shape with every entry Neutral
func SignalCube(people, days, standardShifts int) [][][]Signal {
	cube := make([][][]Signal, people)
	for p := range cube {
		cube[p] = make([][]Signal, days)
		for d := range cube[p] {
			cube[p][d] = make([]Signal, standardShifts)
		}
	}
	return cube
}
