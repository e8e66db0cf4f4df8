package board

import "errors"

var (
	ErrInvalidSize = errors.New("invalid board size")
	ErrOutOfBounds = errors.New("position out of board")
)
