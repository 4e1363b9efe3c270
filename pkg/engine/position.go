// Package engine provides the move-generation tree engine for backgammon-family games.
package engine

import (
	"errors"
	"fmt"

	"github.com/yourusername/bgplaytree/internal/positionid"
)

// Board geometry defaults
const (
	NumPoints        = 24 // Playable points on a standard board
	DefaultInnerZone = 6  // Points in the home board
	BarIndex         = 0  // Mover's re-entry slot
)

// Position validation errors
var (
	ErrTooFewSlots   = errors.New("position needs at least one point plus bar and terminal slots")
	ErrBadBar        = errors.New("bar slot may only hold mover checkers")
	ErrBadTerminal   = errors.New("terminal slot may only hold opponent checkers")
	ErrBadInnerZone  = errors.New("inner zone must cover between 1 and all points")
	ErrNegativeCount = errors.New("born-off counts must not be negative")
)

// EOG classifies how a game has ended, independent of any scoring convention.
type EOG int

const (
	NotEnded EOG = iota
	Single
	Gammon
	Backgammon
)

func (e EOG) String() string {
	switch e {
	case NotEnded:
		return "not ended"
	case Single:
		return "single"
	case Gammon:
		return "gammon"
	case Backgammon:
		return "backgammon"
	}
	return fmt.Sprintf("EOG(%d)", int(e))
}

// Side identifies a player relative to the position's perspective.
type Side int

const (
	Nobody Side = iota
	Mover
	Opponent
)

// Position is an immutable snapshot of a board from the perspective of the
// side about to move.
//
// Slot 0 is the mover's bar, slots 1..N are the playable points and slot N+1
// is the terminal slot: the mover bears off into it and the opponent's bar
// lives there. Positive counts are mover checkers, negative counts are
// opponent checkers. The mover travels towards higher indices.
type Position struct {
	points []int
	off    int // Mover checkers borne off
	oppOff int // Opponent checkers borne off
	zone   int // Size of the inner zone

	rear     int  // Lowest slot holding a mover checker, terminal if none
	oppRear  int  // Highest slot holding an opponent checker, 0 if none
	bearable bool // Mover may bear off
}

// NewPosition creates a position with the default inner zone.
// points must hold N+2 slots for an N point board.
func NewPosition(points []int, off, oppOff int) (Position, error) {
	return NewPositionWithZone(points, off, oppOff, DefaultInnerZone)
}

// NewPositionWithZone creates a position with an explicit inner zone size.
func NewPositionWithZone(points []int, off, oppOff, zone int) (Position, error) {
	if len(points) < 3 {
		return Position{}, ErrTooFewSlots
	}
	n := len(points) - 2
	if zone < 1 || zone > n {
		return Position{}, fmt.Errorf("%w: got %d for %d points", ErrBadInnerZone, zone, n)
	}
	if points[BarIndex] < 0 {
		return Position{}, ErrBadBar
	}
	if points[n+1] > 0 {
		return Position{}, ErrBadTerminal
	}
	if off < 0 || oppOff < 0 {
		return Position{}, ErrNegativeCount
	}

	p := Position{
		points: append([]int(nil), points...),
		off:    off,
		oppOff: oppOff,
		zone:   zone,
	}
	p.refresh()
	return p, nil
}

// MustPosition is like NewPosition but panics on invalid input.
// Intended for fixtures and package-level variables.
func MustPosition(points []int, off, oppOff int) Position {
	p, err := NewPosition(points, off, oppOff)
	if err != nil {
		panic(err)
	}
	return p
}

// StartingPosition returns the standard 24 point starting position.
func StartingPosition() Position {
	return MustPosition(positionid.StartingPoints(), 0, 0)
}

// PositionFromID decodes a position identifier produced by Position.ID.
func PositionFromID(id string) (Position, error) {
	points, off, oppOff, err := positionid.Decode(id)
	if err != nil {
		return Position{}, err
	}
	return NewPosition(points, off, oppOff)
}

// refresh recomputes every cached field from points.
func (p *Position) refresh() {
	p.rear = p.scanRear(BarIndex)
	p.oppRear = 0
	for i := p.Terminal(); i > 0; i-- {
		if p.points[i] < 0 {
			p.oppRear = i
			break
		}
	}
	p.bearable = p.rear >= p.Terminal()-p.zone
}

// scanRear finds the lowest slot at or after from holding a mover checker.
func (p *Position) scanRear(from int) int {
	for i := from; i < p.Terminal(); i++ {
		if p.points[i] > 0 {
			return i
		}
	}
	return p.Terminal()
}

// NumPoints returns the number of playable points.
func (p Position) NumPoints() int { return len(p.points) - 2 }

// Terminal returns the index of the terminal slot.
func (p Position) Terminal() int { return len(p.points) - 1 }

// InnerZone returns the size of the mover's home board.
func (p Position) InnerZone() int { return p.zone }

// PiecesAt returns the signed checker count at index.
// Indices outside the board hold nothing.
func (p Position) PiecesAt(index int) int {
	if index < 0 || index >= len(p.points) {
		return 0
	}
	return p.points[index]
}

// Points returns a copy of the slot array.
func (p Position) Points() []int {
	return append([]int(nil), p.points...)
}

// Off returns the number of mover checkers borne off.
func (p Position) Off() int { return p.off }

// OpponentOff returns the number of opponent checkers borne off.
func (p Position) OpponentOff() int { return p.oppOff }

// Rearmost returns the lowest slot holding a mover checker, or the terminal
// slot when the mover has no checkers left in play.
func (p Position) Rearmost() int { return p.rear }

// OpponentRearmost returns the highest slot holding an opponent checker, or
// 0 when the opponent has no checkers left in play.
func (p Position) OpponentRearmost() int { return p.oppRear }

// IsBearable reports whether the mover may bear off.
func (p Position) IsBearable() bool { return p.bearable }

// OnBar reports whether the mover has checkers waiting to re-enter.
func (p Position) OnBar() bool { return p.points[BarIndex] > 0 }

// PipCount returns the mover's total distance to bear off every checker.
func (p Position) PipCount() int {
	total := 0
	for i := BarIndex; i < p.Terminal(); i++ {
		if p.points[i] > 0 {
			total += p.points[i] * (p.Terminal() - i)
		}
	}
	return total
}

// OpponentPipCount returns the opponent's total distance to bear off.
func (p Position) OpponentPipCount() int {
	total := 0
	for i := 1; i <= p.Terminal(); i++ {
		if p.points[i] < 0 {
			total += -p.points[i] * i
		}
	}
	return total
}

// Equal reports whether two positions hold the same checkers.
func (p Position) Equal(o Position) bool {
	if len(p.points) != len(o.points) || p.off != o.off || p.oppOff != o.oppOff {
		return false
	}
	for i := range p.points {
		if p.points[i] != o.points[i] {
			return false
		}
	}
	return true
}

// Key returns a 64-bit hash of the position.
func (p Position) Key() uint64 {
	return positionid.Key(p.points, p.off, p.oppOff)
}

// ID returns the GNU Backgammon position ID. Only 24 point boards have one.
func (p Position) ID() (string, error) {
	return positionid.Encode(p.points)
}

// MovePiece moves one checker from the given index by pip under the standard
// legality rules. An illegal request returns p unchanged.
func (p Position) MovePiece(from, pip int) Position {
	m, ok := IsLegalMove(p, from, pip)
	if !ok {
		return p
	}
	return p.apply(m)
}

// apply relocates one checker as described by a move the legality oracle
// produced for this position.
func (p Position) apply(m Move) Position {
	q := p
	q.points = append([]int(nil), p.points...)

	q.points[m.From]--
	if m.BearOff {
		q.off++
	} else {
		if q.points[m.To] == -1 {
			// Hit: the blot goes to the opponent's bar
			q.points[m.To] = 0
			q.points[q.Terminal()]--
			q.oppRear = q.Terminal()
		}
		q.points[m.To]++
	}

	if m.From == q.rear && q.points[m.From] == 0 {
		q.rear = q.scanRear(m.From + 1)
		q.bearable = q.rear >= q.Terminal()-q.zone
	}
	return q
}

// Revert returns the same position seen from the opponent's side.
// Revert(Revert(p)) equals p.
func (p Position) Revert() Position {
	n := len(p.points)
	q := Position{
		points: make([]int, n),
		off:    p.oppOff,
		oppOff: p.off,
		zone:   p.zone,
	}
	for i := 0; i < n; i++ {
		q.points[i] = -p.points[n-1-i]
	}
	q.refresh()
	return q
}

// Winner reports which side, if any, has no checkers left in play.
func (p Position) Winner() Side {
	switch {
	case p.rear == p.Terminal():
		return Mover
	case p.oppRear == 0:
		return Opponent
	}
	return Nobody
}

// EOGStatus classifies the end of game from checker placement alone.
func (p Position) EOGStatus() EOG {
	switch p.Winner() {
	case Mover:
		return p.loserStatus(p.oppOff, p.oppRear >= p.Terminal()-p.zone)
	case Opponent:
		return p.loserStatus(p.off, p.rear <= p.zone)
	}
	return NotEnded
}

func (p Position) loserStatus(loserOff int, stuckInWinnerHome bool) EOG {
	switch {
	case loserOff > 0:
		return Single
	case stuckInWinnerHome:
		return Backgammon
	}
	return Gammon
}

// String renders the slot array with the born-off counts.
func (p Position) String() string {
	return fmt.Sprintf("%v off=%d/%d", p.points, p.off, p.oppOff)
}
