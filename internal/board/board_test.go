package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -8} {
		b, err := New(size)
		require.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, b)
	}
}

func TestNewBoardIsEmpty(t *testing.T) {
	b, err := New(DefaultSize)
	require.NoError(t, err)
	assert.Equal(t, 8, b.Size())
	assert.Empty(t, b.AllPieces())
	assert.Zero(t, b.Count())
}

func TestBoundsAreStrict(t *testing.T) {
	const n = 5
	b, err := New(n)
	require.NoError(t, err)

	for r := -1; r <= n; r++ {
		for c := -1; c <= n; c++ {
			pos := Pos(r, c)
			inside := r >= 0 && r < n && c >= 0 && c < n

			setErr := b.SetPiece(WhiteQueen, pos)
			_, _, getErr := b.GetPiece(pos)
			rmErr := b.RemovePiece(pos)

			if inside {
				assert.NoError(t, setErr, pos.String())
				assert.NoError(t, getErr, pos.String())
				assert.NoError(t, rmErr, pos.String())
			} else {
				assert.ErrorIs(t, setErr, ErrOutOfBounds, pos.String())
				assert.ErrorIs(t, getErr, ErrOutOfBounds, pos.String())
				assert.ErrorIs(t, rmErr, ErrOutOfBounds, pos.String())
			}
		}
	}
	assert.Zero(t, b.Count())
}

func TestSetPieceOverwrites(t *testing.T) {
	b, _ := New(4)
	require.NoError(t, b.SetPiece(WhiteQueen, Pos(1, 2)))
	require.NoError(t, b.SetPiece(BlackQueen, Pos(1, 2)))

	p, ok, err := b.GetPiece(Pos(1, 2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, BlackQueen, p)
	assert.Equal(t, 1, b.Count())
}

func TestRemovePieceIsIdempotent(t *testing.T) {
	b, _ := New(4)
	require.NoError(t, b.SetPiece(WhiteQueen, Pos(0, 0)))

	require.NoError(t, b.RemovePiece(Pos(3, 3)))
	assert.Equal(t, []PieceWithPosition{{Piece: WhiteQueen, Position: Pos(0, 0)}}, b.AllPieces())

	require.NoError(t, b.RemovePiece(Pos(0, 0)))
	require.NoError(t, b.RemovePiece(Pos(0, 0)))
	_, ok, err := b.GetPiece(Pos(0, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllPiecesRowMajorSnapshot(t *testing.T) {
	b, _ := New(4)
	for _, p := range []Position{Pos(3, 1), Pos(0, 2), Pos(2, 0), Pos(0, 1)} {
		require.NoError(t, b.SetPiece(WhiteQueen, p))
	}

	snap := b.AllPieces()
	got := make([]Position, 0, len(snap))
	for _, pp := range snap {
		got = append(got, pp.Position)
	}
	assert.Equal(t, []Position{Pos(0, 1), Pos(0, 2), Pos(2, 0), Pos(3, 1)}, got)

	require.NoError(t, b.RemovePiece(Pos(0, 1)))
	assert.Len(t, snap, 4, "snapshot must not follow later mutation")
}

func TestCloneIsIndependent(t *testing.T) {
	b, _ := New(4)
	require.NoError(t, b.SetPiece(WhiteQueen, Pos(1, 1)))

	cp := b.Clone()
	require.NoError(t, cp.SetPiece(WhiteQueen, Pos(2, 3)))

	assert.Equal(t, 1, b.Count())
	assert.Equal(t, 2, cp.Count())
	assert.False(t, b.Occupied(Pos(2, 3)))
}

func TestMarshalJSON(t *testing.T) {
	b, _ := New(4)
	require.NoError(t, b.SetPiece(WhiteQueen, Pos(0, 1)))

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"size":4,"pieces":[{"piece":{"kind":0,"color":0},"position":{"row":0,"column":1}}]}`,
		string(raw))
}
