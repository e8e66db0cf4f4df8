// internal/board/types.go
//
// Value types shared by the board and the rule engine.
// Defines:
//   - Position: zero-indexed (row, column) coordinate.
//   - Color / Kind / Piece: the closed set of placeable pieces.
//   - PieceWithPosition: read projection produced by Board.AllPieces.

package board

import "fmt"

// Position is a zero-indexed cell coordinate. Compared by value.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Pos is shorthand for Position{Row: row, Column: column}.
func Pos(row, column int) Position { return Position{Row: row, Column: column} }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Column) }

// Color is carried by a piece but never consulted by the rules.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Kind enumerates piece variants. Queen is the only one.
type Kind uint8

const (
	Queen Kind = iota
)

func (k Kind) String() string {
	switch k {
	case Queen:
		return "queen"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Piece is an immutable value: two pieces with the same kind and color are
// indistinguishable.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

var (
	WhiteQueen = Piece{Kind: Queen, Color: White}
	BlackQueen = Piece{Kind: Queen, Color: Black}
)

func (p Piece) String() string { return p.Color.String() + " " + p.Kind.String() }

// PieceWithPosition pairs an occupant with its cell.
type PieceWithPosition struct {
	Piece    Piece    `json:"piece"`
	Position Position `json:"position"`
}
