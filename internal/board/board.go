// internal/board/board.go
//
// N×N grid storage for the Queens game.
// Responsibilities:
//   - Allocate an empty size×size grid (size must be positive).
//   - Place, read, and remove pieces with strict bounds checks (0 <= row,col < size).
//   - Enumerate occupied cells in row-major order as a detached snapshot.
//
// Notes:
//   - A Board is not safe for concurrent mutation; callers serialize access.
//   - Size is fixed at construction. Changing size means building a new Board.

package board

import (
	"encoding/json"
	"fmt"
)

// DefaultSize is used when no explicit size has been chosen yet.
const DefaultSize = 8

// Board holds at most one piece per cell.
type Board struct {
	size  int
	cells [][]*Piece // nil = empty
}

// New allocates an empty size×size board.
// Returns ErrInvalidSize if size <= 0.
func New(size int) (*Board, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	cells := make([][]*Piece, size)
	for i := range cells {
		cells[i] = make([]*Piece, size)
	}
	return &Board{size: size, cells: cells}, nil
}

// Size returns the side length N.
func (b *Board) Size() int { return b.size }

// Contains reports whether pos lies on the board.
func (b *Board) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.size && pos.Column >= 0 && pos.Column < b.size
}

func (b *Board) check(pos Position) error {
	if !b.Contains(pos) {
		return fmt.Errorf("%w: board size %d, row %d, column %d", ErrOutOfBounds, b.size, pos.Row, pos.Column)
	}
	return nil
}

// SetPiece writes piece at pos, overwriting any occupant.
func (b *Board) SetPiece(piece Piece, pos Position) error {
	if err := b.check(pos); err != nil {
		return err
	}
	p := piece
	b.cells[pos.Row][pos.Column] = &p
	return nil
}

// GetPiece returns the occupant at pos; ok is false for an empty cell.
func (b *Board) GetPiece(pos Position) (piece Piece, ok bool, err error) {
	if err := b.check(pos); err != nil {
		return Piece{}, false, err
	}
	if p := b.cells[pos.Row][pos.Column]; p != nil {
		return *p, true, nil
	}
	return Piece{}, false, nil
}

// Occupied is GetPiece without the piece, for callers that only care about
// occupancy. Out-of-board positions are reported as empty.
func (b *Board) Occupied(pos Position) bool {
	return b.Contains(pos) && b.cells[pos.Row][pos.Column] != nil
}

// RemovePiece clears the cell at pos. Clearing an empty cell is a no-op.
func (b *Board) RemovePiece(pos Position) error {
	if err := b.check(pos); err != nil {
		return err
	}
	b.cells[pos.Row][pos.Column] = nil
	return nil
}

// AllPieces returns every occupied cell, row ascending then column ascending.
// The result does not alias the board.
func (b *Board) AllPieces() []PieceWithPosition {
	out := make([]PieceWithPosition, 0, b.size)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if p := b.cells[r][c]; p != nil {
				out = append(out, PieceWithPosition{Piece: *p, Position: Position{Row: r, Column: c}})
			}
		}
	}
	return out
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, row := range b.cells {
		for _, p := range row {
			if p != nil {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	cp, _ := New(b.size)
	for r, row := range b.cells {
		for c, p := range row {
			if p != nil {
				v := *p
				cp.cells[r][c] = &v
			}
		}
	}
	return cp
}

// MarshalJSON renders the board as its size plus the occupied cells.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Size   int                 `json:"size"`
		Pieces []PieceWithPosition `json:"pieces"`
	}{Size: b.size, Pieces: b.AllPieces()})
}
