package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRoll is returned for pips outside 1-6 or malformed roll strings.
var ErrInvalidRoll = errors.New("invalid roll")

// Die is one die of a roll and whether it has been played.
type Die struct {
	Pip  int  `json:"pip"`
	Used bool `json:"used"`
}

// Roll is a pair of dice in the order they were thrown.
type Roll struct {
	First  int
	Second int
}

// NewRoll validates both pips.
func NewRoll(first, second int) (Roll, error) {
	if first < 1 || first > 6 || second < 1 || second > 6 {
		return Roll{}, fmt.Errorf("%w: %d-%d", ErrInvalidRoll, first, second)
	}
	return Roll{First: first, Second: second}, nil
}

// ParseRoll accepts "3,1", "3-1" or "31".
func ParseRoll(s string) (Roll, error) {
	s = strings.TrimSpace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '-' || r == ' ' })
	if len(parts) == 1 && len(parts[0]) == 2 {
		parts = []string{parts[0][:1], parts[0][1:]}
	}
	if len(parts) != 2 {
		return Roll{}, fmt.Errorf("%w: %q", ErrInvalidRoll, s)
	}
	d1, err1 := strconv.Atoi(parts[0])
	d2, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Roll{}, fmt.Errorf("%w: %q", ErrInvalidRoll, s)
	}
	return NewRoll(d1, d2)
}

// IsDoublet reports whether both dice show the same pip.
func (r Roll) IsDoublet() bool { return r.First == r.Second }

// Major returns the larger pip.
func (r Roll) Major() int { return max(r.First, r.Second) }

// Minor returns the smaller pip.
func (r Roll) Minor() int { return min(r.First, r.Second) }

func (r Roll) String() string { return fmt.Sprintf("%d-%d", r.First, r.Second) }

// newDice returns unused dice with the given pips in order.
func newDice(pips ...int) []Die {
	dice := make([]Die, len(pips))
	for i, pip := range pips {
		dice[i] = Die{Pip: pip}
	}
	return dice
}

// repeatDice returns count unused dice showing pip.
func repeatDice(pip, count int) []Die {
	dice := make([]Die, count)
	for i := range dice {
		dice[i] = Die{Pip: pip}
	}
	return dice
}

// nextUnused returns the index of the first unplayed die.
func nextUnused(dice []Die) (int, bool) {
	for i, d := range dice {
		if !d.Used {
			return i, true
		}
	}
	return 0, false
}

// remaining counts the unplayed dice.
func remaining(dice []Die) int {
	n := 0
	for _, d := range dice {
		if !d.Used {
			n++
		}
	}
	return n
}

// withUsed copies dice with index i marked used.
func withUsed(dice []Die, i int) []Die {
	out := append([]Die(nil), dice...)
	out[i].Used = true
	return out
}

// allUsed copies dice with every die marked used.
func allUsed(dice []Die) []Die {
	out := append([]Die(nil), dice...)
	for i := range out {
		out[i].Used = true
	}
	return out
}
