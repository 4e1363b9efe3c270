package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgplaytree/internal/positionid"
)

func TestNewPositionValidation(t *testing.T) {
	_, err := NewPosition([]int{0, 1}, 0, 0)
	require.ErrorIs(t, err, ErrTooFewSlots)

	_, err = NewPositionWithZone(slots(map[int]int{3: 1}), 0, 0, 0)
	require.ErrorIs(t, err, ErrBadInnerZone)

	_, err = NewPosition(slots(map[int]int{0: -1}), 0, 0)
	require.ErrorIs(t, err, ErrBadBar)

	_, err = NewPosition(slots(map[int]int{25: 1}), 0, 0)
	require.ErrorIs(t, err, ErrBadTerminal)

	_, err = NewPosition(slots(map[int]int{3: 1}), -1, 0)
	require.ErrorIs(t, err, ErrNegativeCount)
}

func TestNewPositionCopiesInput(t *testing.T) {
	points := slots(map[int]int{3: 1, 20: -1})
	p, err := NewPosition(points, 0, 0)
	require.NoError(t, err)

	points[3] = 7
	assert.Equal(t, 1, p.PiecesAt(3))

	out := p.Points()
	out[20] = 0
	assert.Equal(t, -1, p.PiecesAt(20))
}

func TestStartingPositionDerivedFields(t *testing.T) {
	p := StartingPosition()

	assert.Equal(t, 24, p.NumPoints())
	assert.Equal(t, 25, p.Terminal())
	assert.Equal(t, 1, p.Rearmost())
	assert.Equal(t, 24, p.OpponentRearmost())
	assert.False(t, p.IsBearable())
	assert.False(t, p.OnBar())
	assert.Equal(t, 167, p.PipCount())
	assert.Equal(t, 167, p.OpponentPipCount())
	assert.Equal(t, NotEnded, p.EOGStatus())
	assert.Equal(t, 0, p.PiecesAt(-1))
	assert.Equal(t, 0, p.PiecesAt(26))
}

func TestMovePieceIllegalReturnsInput(t *testing.T) {
	tests := []struct {
		name   string
		points map[int]int
		from   int
		pip    int
	}{
		{"empty origin", map[int]int{5: 1, 20: -2}, 6, 1},
		{"opponent origin", map[int]int{5: 1, 20: -2}, 20, 1},
		{"blocked destination", map[int]int{5: 1, 8: -2}, 5, 3},
		{"origin below board", map[int]int{5: 1, 20: -2}, -1, 3},
		{"origin on terminal", map[int]int{5: 1, 25: -1}, 25, 1},
		{"origin beyond board", map[int]int{5: 1, 20: -2}, 40, 1},
		{"bar not cleared", map[int]int{0: 1, 5: 1, 20: -2}, 5, 2},
		{"bear off while outside", map[int]int{5: 1, 24: 1, 3: -2}, 24, 3},
		{"zero pip", map[int]int{5: 1, 20: -2}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPosition(slots(tt.points), 0, 0)
			require.NoError(t, err)

			q := p.MovePiece(tt.from, tt.pip)
			require.True(t, q.Equal(p))
			require.Equal(t, slots(tt.points), q.Points())

			_, ok := IsLegalMove(p, tt.from, tt.pip)
			require.False(t, ok)
		})
	}
}

func TestMovePieceLeavesOriginalUntouched(t *testing.T) {
	p := StartingPosition()
	q := p.MovePiece(12, 4)

	assert.Equal(t, positionid.StartingPoints(), p.Points())
	assert.Equal(t, 4, q.PiecesAt(12))
	assert.Equal(t, 1, q.PiecesAt(16))
	assert.False(t, q.Equal(p))
}

func TestMovePieceHitSendsBlotToBar(t *testing.T) {
	p := MustPosition(slots(map[int]int{12: 1, 15: -1, 3: -2}), 0, 0)

	m, ok := IsLegalMove(p, 12, 3)
	require.True(t, ok)
	assert.True(t, m.Hit)
	assert.Equal(t, 15, m.To)

	q := p.MovePiece(12, 3)
	assert.Equal(t, 0, q.PiecesAt(12))
	assert.Equal(t, 1, q.PiecesAt(15))
	assert.Equal(t, -1, q.PiecesAt(25))
	assert.Equal(t, 25, q.OpponentRearmost())
	assert.Equal(t, 15, q.Rearmost())
}

func TestMovePieceUpdatesRearmost(t *testing.T) {
	p := MustPosition(slots(map[int]int{5: 2, 21: 1, 3: -2}), 0, 0)
	require.Equal(t, 5, p.Rearmost())

	q := p.MovePiece(5, 1)
	assert.Equal(t, 5, q.Rearmost(), "another checker remains on the rear point")
	assert.False(t, q.IsBearable())

	r := q.MovePiece(5, 2)
	assert.Equal(t, 6, r.Rearmost())

	// Bring everything home and the position becomes bearable
	s := r.MovePiece(6, 13).MovePiece(7, 12)
	assert.Equal(t, 19, s.Rearmost())
	assert.True(t, s.IsBearable())

	fresh := MustPosition(s.Points(), s.Off(), s.OpponentOff())
	assert.Equal(t, fresh.Rearmost(), s.Rearmost())
	assert.Equal(t, fresh.IsBearable(), s.IsBearable())
}

func TestMovePieceBearOff(t *testing.T) {
	p := MustPosition(slots(map[int]int{22: 1, 24: 2, 3: -2}), 12, 0)

	q := p.MovePiece(24, 1)
	assert.Equal(t, 1, q.PiecesAt(24))
	assert.Equal(t, 13, q.Off())
	assert.Equal(t, 0, q.PiecesAt(25), "terminal slot only holds the opponent's bar")
}

func TestRevertInvolution(t *testing.T) {
	positions := []Position{
		StartingPosition(),
		StartingPosition().MovePiece(1, 3),
		MustPosition(slots(map[int]int{0: 2, 4: 3, 25: -1, 10: -4}), 3, 7),
	}
	for _, p := range positions {
		r := p.Revert()
		for i := 0; i <= p.Terminal(); i++ {
			require.Equal(t, -p.PiecesAt(p.Terminal()-i), r.PiecesAt(i))
		}
		require.Equal(t, p.Off(), r.OpponentOff())
		require.Equal(t, p.OpponentOff(), r.Off())

		rr := r.Revert()
		require.True(t, rr.Equal(p))
		require.Equal(t, p.Points(), rr.Points())
		require.Equal(t, p.Rearmost(), rr.Rearmost())
		require.Equal(t, p.OpponentRearmost(), rr.OpponentRearmost())
		require.Equal(t, p.IsBearable(), rr.IsBearable())
	}
}

func TestRevertMatchesSwappedBoard(t *testing.T) {
	p := StartingPosition().MovePiece(1, 3).MovePiece(12, 5)

	board, err := positionid.ToBoard(p.Points())
	require.NoError(t, err)
	points, off, oppOff := positionid.FromBoard(positionid.SwapSides(board))

	r := p.Revert()
	assert.Equal(t, points, r.Points())
	assert.Equal(t, off, r.Off())
	assert.Equal(t, oppOff, r.OpponentOff())
}

func TestEOGStatus(t *testing.T) {
	tests := []struct {
		name   string
		points map[int]int
		off    int
		oppOff int
		want   EOG
		winner Side
	}{
		{"in play", map[int]int{5: 1, 20: -1}, 0, 0, NotEnded, Nobody},
		{"single", map[int]int{5: -13}, 15, 2, Single, Mover},
		{"gammon", map[int]int{5: -15}, 15, 0, Gammon, Mover},
		{"backgammon in home board", map[int]int{5: -14, 22: -1}, 15, 0, Backgammon, Mover},
		{"backgammon on the bar", map[int]int{5: -14, 25: -1}, 15, 0, Backgammon, Mover},
		{"opponent wins a gammon", map[int]int{12: 15}, 0, 15, Gammon, Opponent},
		{"opponent wins a backgammon", map[int]int{12: 14, 0: 1}, 0, 15, Backgammon, Opponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPosition(slots(tt.points), tt.off, tt.oppOff)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.EOGStatus())
			assert.Equal(t, tt.winner, p.Winner())
			// Pure: asking twice changes nothing
			assert.Equal(t, tt.want, p.EOGStatus())
			assert.Equal(t, slots(tt.points), p.Points())
		})
	}
}

func TestPositionIDRoundTrip(t *testing.T) {
	p := StartingPosition()
	id, err := p.ID()
	require.NoError(t, err)
	assert.Equal(t, "4HPwATDgc/ABMA", id)

	back, err := PositionFromID(id)
	require.NoError(t, err)
	assert.True(t, back.Equal(p))

	small, err := NewPositionWithZone([]int{0, 1, 0, -1, 0}, 0, 0, 1)
	require.NoError(t, err)
	_, err = small.ID()
	assert.ErrorIs(t, err, positionid.ErrNotStandardBoard)
}
