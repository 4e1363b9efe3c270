// Package positionid converts between slot arrays and GNU Backgammon
// position IDs, and computes hash keys for positions.
//
// Position IDs are 14-character base64 strings that uniquely identify the
// checkers in play on a 24 point board.
package positionid

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	// PositionIDLength is the length of a position ID string
	PositionIDLength = 14
	// NumPoints is the number of playable points a position ID describes
	NumPoints = 24
	// MaxCheckers is the number of checkers each side plays with
	MaxCheckers = 15
)

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Board is gnubg's two-sided board: [player][point], point 24 is the bar.
// Player 1 is the side on roll and each side counts points from its own
// home board.
type Board [2][25]uint8

// idKey is the 80-bit packed form behind a position ID
type idKey struct {
	Data [10]uint8
}

// Errors returned when converting positions
var (
	ErrInvalidPositionID = errors.New("invalid position ID")
	ErrNotStandardBoard  = errors.New("position IDs describe 24 point boards only")
	ErrTooManyCheckers   = errors.New("more than 15 checkers for one side")
	ErrMisplacedChecker  = errors.New("checker on the wrong side's bar")
)

// StartingPoints returns the standard starting position as a slot array.
func StartingPoints() []int {
	points := make([]int, NumPoints+2)
	points[1] = 2
	points[12] = 5
	points[17] = 3
	points[19] = 5

	points[6] = -5
	points[8] = -3
	points[13] = -5
	points[24] = -2
	return points
}

// FromBoard converts a gnubg board to a slot array with born-off counts.
// Slot 0 is the mover's bar and slot 25 the opponent's.
func FromBoard(board Board) (points []int, off, oppOff int) {
	points = make([]int, NumPoints+2)
	var onBoard [2]int
	for j := 0; j < 25; j++ {
		// Mover's point j is slot 24-j; the bar (j=24) lands on slot 0
		points[24-j] += int(board[1][j])
		// Opponent's point j is slot j+1; the bar lands on slot 25
		points[j+1] -= int(board[0][j])
		onBoard[0] += int(board[0][j])
		onBoard[1] += int(board[1][j])
	}
	return points, MaxCheckers - onBoard[1], MaxCheckers - onBoard[0]
}

// ToBoard converts a 26 slot array to a gnubg board.
// Born-off counts are implied by gnubg and not needed.
func ToBoard(points []int) (Board, error) {
	var board Board
	if len(points) != NumPoints+2 {
		return board, fmt.Errorf("%w: got %d slots", ErrNotStandardBoard, len(points))
	}
	if points[0] < 0 || points[NumPoints+1] > 0 {
		return board, ErrMisplacedChecker
	}
	var count [2]int
	for slot, n := range points {
		switch {
		case n > 0:
			board[1][24-slot] = uint8(n)
			count[1] += n
		case n < 0:
			board[0][slot-1] = uint8(-n)
			count[0] -= n
		}
	}
	if count[0] > MaxCheckers || count[1] > MaxCheckers {
		return board, ErrTooManyCheckers
	}
	return board, nil
}

// Encode returns the position ID of a 26 slot array.
func Encode(points []int) (string, error) {
	board, err := ToBoard(points)
	if err != nil {
		return "", err
	}
	return PositionID(board), nil
}

// Decode parses a position ID into a slot array with born-off counts.
func Decode(posID string) (points []int, off, oppOff int, err error) {
	board, err := BoardFromPositionID(posID)
	if err != nil {
		return nil, 0, 0, err
	}
	points, off, oppOff = FromBoard(board)
	return points, off, oppOff, nil
}

// Key hashes a slot array and born-off counts. Equal positions have equal keys.
func Key(points []int, off, oppOff int) uint64 {
	buf := make([]byte, 0, 4*(len(points)+2))
	for _, n := range points {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(n)))
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(off))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(oppOff))
	return xxhash.Sum64(buf)
}

// addBits adds nBits 1-bits to the key starting at bitPos
func addBits(key *idKey, bitPos, nBits uint32) {
	k := bitPos / 8
	r := bitPos & 0x7
	b := ((uint32(1) << nBits) - 1) << r

	key.Data[k] |= uint8(b)

	if k < 8 {
		key.Data[k+1] |= uint8(b >> 8)
		key.Data[k+2] |= uint8(b >> 16)
	} else if k == 8 {
		key.Data[k+1] |= uint8(b >> 8)
	}
}

// makeKey packs a board: for each side and point, one 1-bit per checker
// followed by a 0-bit.
func makeKey(board Board) idKey {
	var key idKey
	var bitPos uint32

	for i := 0; i < 2; i++ {
		for j := 0; j < 25; j++ {
			nc := uint32(board[i][j])
			if nc > 0 {
				addBits(&key, bitPos, nc)
				bitPos += nc + 1
			} else {
				bitPos++
			}
		}
	}

	return key
}

// boardFromKey unpacks a key
func boardFromKey(key idKey) Board {
	var board Board
	i, j := 0, 0

	for a := 0; a < 10; a++ {
		cur := key.Data[a]

		for k := 0; k < 8; k++ {
			if cur&0x1 != 0 {
				if i >= 2 || j >= 25 {
					return board
				}
				board[i][j]++
			} else {
				j++
				if j == 25 {
					i++
					j = 0
				}
			}
			cur >>= 1
		}
	}

	return board
}

// PositionID generates the base64 position ID string of a board
func PositionID(board Board) string {
	key := makeKey(board)
	result := make([]byte, PositionIDLength)
	puch := key.Data[:]

	for i := 0; i < 3; i++ {
		result[i*4] = base64Chars[puch[0]>>2]
		result[i*4+1] = base64Chars[((puch[0]&0x03)<<4)|(puch[1]>>4)]
		result[i*4+2] = base64Chars[((puch[1]&0x0F)<<2)|(puch[2]>>6)]
		result[i*4+3] = base64Chars[puch[2]&0x3F]
		puch = puch[3:]
	}

	result[12] = base64Chars[puch[0]>>2]
	result[13] = base64Chars[(puch[0]&0x03)<<4]

	return string(result)
}

// base64Decode decodes a base64 character to its value
func base64Decode(ch byte) uint8 {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A'
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 26
	case ch >= '0' && ch <= '9':
		return ch - '0' + 52
	case ch == '+':
		return 62
	case ch == '/':
		return 63
	}
	return 255
}

// BoardFromPositionID decodes a base64 position ID string to a board.
// A trailing ":matchID" part is ignored.
func BoardFromPositionID(posID string) (Board, error) {
	var key idKey
	var board Board

	if len(posID) < PositionIDLength {
		return board, ErrInvalidPositionID
	}

	ach := make([]uint8, PositionIDLength)
	for i := 0; i < PositionIDLength; i++ {
		ach[i] = base64Decode(posID[i])
		if ach[i] == 255 {
			return board, ErrInvalidPositionID
		}
	}

	pch := ach
	idx := 0
	for i := 0; i < 3; i++ {
		key.Data[idx] = (pch[0] << 2) | (pch[1] >> 4)
		key.Data[idx+1] = (pch[1] << 4) | (pch[2] >> 2)
		key.Data[idx+2] = (pch[2] << 6) | pch[3]
		idx += 3
		pch = pch[4:]
	}
	key.Data[9] = (pch[0] << 2) | (pch[1] >> 4)

	board = boardFromKey(key)

	if !CheckPosition(board) {
		return board, ErrInvalidPositionID
	}

	return board, nil
}

// CheckPosition validates that a board position is legal
func CheckPosition(board Board) bool {
	var ac [2]uint32

	for i := 0; i < 25; i++ {
		ac[0] += uint32(board[0][i])
		ac[1] += uint32(board[1][i])
		if ac[0] > MaxCheckers || ac[1] > MaxCheckers {
			return false
		}
	}

	// Both players on the same point
	for i := 0; i < 24; i++ {
		if board[0][i] > 0 && board[1][23-i] > 0 {
			return false
		}
	}

	// Both players on the bar against closed boards
	for i := 0; i < 6; i++ {
		if board[0][i] < 2 || board[1][i] < 2 {
			return true
		}
	}

	return board[0][24] == 0 || board[1][24] == 0
}

// SwapSides swaps the two sides of the board
func SwapSides(board Board) Board {
	var result Board
	for i := 0; i < 25; i++ {
		result[0][i] = board[1][i]
		result[1][i] = board[0][i]
	}
	return result
}
