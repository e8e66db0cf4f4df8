// internal/rules/engine.go
//
// Conflict and win rules for the Queens game.
// Responsibilities:
//   - FindConflicts: every occupied cell sharing a row, column, or diagonal with a target cell.
//   - IsWin: exactly N mutually non-attacking queens on an N×N board.
//
// The engine is stateless and never mutates the board.

package rules

import "github.com/hamomel/queens/server/internal/board"

//go:generate mockgen -package mockrules -source=engine.go -destination=mock/mockrules.go

// Engine finds the pieces a queen at pos would attack and decides whether a
// board is solved.
type Engine interface {
	FindConflicts(b *board.Board, pos board.Position) []board.Position
	IsWin(b *board.Board) bool
}

// QueensEngine applies queen movement rules.
type QueensEngine struct{}

// New returns the stateless queens engine.
func New() *QueensEngine { return &QueensEngine{} }

// FindConflicts returns the occupied positions that attack pos.
// pos itself is never reported, whether or not it is occupied.
//
// Order:
//   - Row/column pass, i ascending: (pos.Row, i) then (i, pos.Column).
//   - Diagonal pass, d ascending over [-size, size), d != 0:
//     (pos.Row+d, pos.Column+d) then (pos.Row+d, pos.Column-d).
func (e *QueensEngine) FindConflicts(b *board.Board, pos board.Position) []board.Position {
	n := b.Size()
	conflicts := make([]board.Position, 0, 4)

	for i := 0; i < n; i++ {
		if i != pos.Column {
			if p := board.Pos(pos.Row, i); b.Occupied(p) {
				conflicts = append(conflicts, p)
			}
		}
		if i != pos.Row {
			if p := board.Pos(i, pos.Column); b.Occupied(p) {
				conflicts = append(conflicts, p)
			}
		}
	}

	for d := -n; d < n; d++ {
		if d == 0 {
			continue
		}
		// Occupied is false off-board, which doubles as the bounds check.
		if p := board.Pos(pos.Row+d, pos.Column+d); b.Occupied(p) {
			conflicts = append(conflicts, p)
		}
		if p := board.Pos(pos.Row+d, pos.Column-d); b.Occupied(p) {
			conflicts = append(conflicts, p)
		}
	}
	return conflicts
}

// IsWin reports whether no placed piece is attacked and exactly Size()
// pieces are on the board.
func (e *QueensEngine) IsWin(b *board.Board) bool {
	pieces := b.AllPieces()
	for _, p := range pieces {
		if len(e.FindConflicts(b, p.Position)) > 0 {
			return false
		}
	}
	return len(pieces) == b.Size()
}
