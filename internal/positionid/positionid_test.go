package positionid

import (
	"errors"
	"testing"
)

// startingBoard is the standard starting position in gnubg's two-sided
// layout. Each side counts points 0-23 from its own home board.
func startingBoard() Board {
	var board Board
	board[0][5] = 5  // 6-point
	board[0][7] = 3  // 8-point
	board[0][12] = 5 // 13-point
	board[0][23] = 2 // 24-point

	board[1][5] = 5
	board[1][7] = 3
	board[1][12] = 5
	board[1][23] = 2

	return board
}

// Known position ID for starting position from gnubg
const startingPositionID = "4HPwATDgc/ABMA"

func TestPositionIDStartingPosition(t *testing.T) {
	if posID := PositionID(startingBoard()); posID != startingPositionID {
		t.Errorf("PositionID mismatch: got %s, want %s", posID, startingPositionID)
	}
}

func TestEncodeStartingPoints(t *testing.T) {
	posID, err := Encode(StartingPoints())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if posID != startingPositionID {
		t.Errorf("Encode mismatch: got %s, want %s", posID, startingPositionID)
	}
}

func TestToBoardMatchesGnubgLayout(t *testing.T) {
	board, err := ToBoard(StartingPoints())
	if err != nil {
		t.Fatalf("ToBoard failed: %v", err)
	}
	if board != startingBoard() {
		t.Errorf("ToBoard mismatch:\ngot  %v\nwant %v", board, startingBoard())
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	points := make([]int, NumPoints+2)
	points[0] = 1   // Mover on the bar
	points[4] = 2
	points[20] = 9
	points[25] = -1 // Opponent on the bar
	points[2] = -3
	points[18] = -4

	posID, err := Encode(points)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, off, oppOff, err := Decode(posID)
	if err != nil {
		t.Fatalf("Decode(%s) failed: %v", posID, err)
	}
	for i := range points {
		if got[i] != points[i] {
			t.Errorf("slot %d: got %d, want %d", i, got[i], points[i])
		}
	}
	if off != 3 || oppOff != 7 {
		t.Errorf("born off: got %d/%d, want 3/7", off, oppOff)
	}
}

func TestDecodeWithMatchID(t *testing.T) {
	points, off, oppOff, err := Decode(startingPositionID + ":cAkAAAAAAAAA")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if off != 0 || oppOff != 0 {
		t.Errorf("born off: got %d/%d, want 0/0", off, oppOff)
	}
	want := StartingPoints()
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("slot %d: got %d, want %d", i, points[i], want[i])
		}
	}
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		name   string
		points func() []int
		want   error
	}{
		{"short board", func() []int { return make([]int, 14) }, ErrNotStandardBoard},
		{"opponent on mover bar", func() []int {
			p := make([]int, NumPoints+2)
			p[0] = -1
			return p
		}, ErrMisplacedChecker},
		{"mover on opponent bar", func() []int {
			p := make([]int, NumPoints+2)
			p[25] = 1
			return p
		}, ErrMisplacedChecker},
		{"sixteen checkers", func() []int {
			p := make([]int, NumPoints+2)
			p[3] = 16
			return p
		}, ErrTooManyCheckers},
	}

	for _, tt := range tests {
		if _, err := Encode(tt.points()); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestInvalidPositionIDs(t *testing.T) {
	invalid := []string{
		"",
		"4HPwATDgc",
		"4HPwATDgc/AB!A",
		"//////////////", // Far too many checkers
	}
	for _, posID := range invalid {
		if _, _, _, err := Decode(posID); !errors.Is(err, ErrInvalidPositionID) {
			t.Errorf("Decode(%q): got %v, want ErrInvalidPositionID", posID, err)
		}
	}
}

func TestKey(t *testing.T) {
	a := StartingPoints()
	b := StartingPoints()

	if Key(a, 0, 0) != Key(b, 0, 0) {
		t.Error("Equal positions produced different keys")
	}
	if Key(a, 0, 0) == Key(a, 1, 0) {
		t.Error("Born-off count not part of the key")
	}
	b[1], b[2] = 1, 1
	if Key(a, 0, 0) == Key(b, 0, 0) {
		t.Error("Different points produced the same key")
	}
}

func TestCheckPosition(t *testing.T) {
	if !CheckPosition(startingBoard()) {
		t.Error("Starting position should be valid")
	}

	var both Board
	both[0][0] = 1
	both[1][23] = 1
	if CheckPosition(both) {
		t.Error("Both sides on the same point should be invalid")
	}

	var closed Board
	for i := 0; i < 6; i++ {
		closed[0][i] = 2
		closed[1][i] = 2
	}
	closed[0][24] = 1
	closed[1][24] = 1
	if CheckPosition(closed) {
		t.Error("Both sides on the bar against closed boards should be invalid")
	}
}

func TestSwapSides(t *testing.T) {
	board := startingBoard()
	board[0][24] = 1
	board[0][5] = 4

	swapped := SwapSides(board)
	if swapped[1][24] != 1 || swapped[1][5] != 4 {
		t.Errorf("SwapSides did not exchange the sides: %v", swapped)
	}
	if SwapSides(swapped) != board {
		t.Error("SwapSides twice should restore the board")
	}
}
