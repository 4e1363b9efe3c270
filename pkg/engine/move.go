package engine

import (
	"fmt"
	"strings"
)

// Move is a single checker movement produced by a legality function.
type Move struct {
	From    int  // Origin slot
	To      int  // Destination slot, capped at the terminal slot
	Pip     int  // Die value played
	Hit     bool // Destination held a lone opponent checker
	BearOff bool // Checker left the board
	Overrun bool // Die was larger than needed to bear off
}

// LegalityFunc decides whether the checker at from may move by pip and
// describes the resulting move. It must be pure.
type LegalityFunc func(p Position, from, pip int) (Move, bool)

// IsLegalMove is the standard legality oracle.
func IsLegalMove(p Position, from, pip int) (Move, bool) {
	terminal := p.Terminal()
	if from < BarIndex || from >= terminal || pip < 1 {
		return Move{}, false
	}
	if p.points[from] <= 0 {
		return Move{}, false
	}
	// Checkers on the bar must re-enter first
	if p.OnBar() && from != BarIndex {
		return Move{}, false
	}

	dest := from + pip
	if dest < terminal {
		if p.points[dest] <= -2 {
			return Move{}, false
		}
		return Move{From: from, To: dest, Pip: pip, Hit: p.points[dest] == -1}, true
	}

	if !p.bearable {
		return Move{}, false
	}
	if dest != terminal && from != p.rear {
		return Move{}, false
	}
	return Move{
		From:    from,
		To:      terminal,
		Pip:     pip,
		BearOff: true,
		Overrun: dest > terminal,
	}, true
}

// Notation formats the move using slot numbers, e.g. "bar/3", "13/17*" or
// "22/off".
func (m Move) Notation() string {
	from := "bar"
	if m.From != BarIndex {
		from = fmt.Sprint(m.From)
	}
	to := fmt.Sprint(m.To)
	if m.BearOff {
		to = "off"
	}
	if m.Hit {
		to += "*"
	}
	return from + "/" + to
}

func (m Move) String() string {
	return fmt.Sprintf("%s(%d)", m.Notation(), m.Pip)
}

// FormatPlay renders a sequence of moves, e.g. "13/14 14/16".
func FormatPlay(moves []Move) string {
	if len(moves) == 0 {
		return "(no move)"
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}
	return strings.Join(parts, " ")
}
