// internal/game/types.go
//
// Core type definitions for a Queens game session.
// Defines:
//   - Feedback: one-shot cue the client plays after a click (confirm/reject/reset).
//   - Event: navigation notifications (win, choose board size).
//   - ViewState: immutable snapshot of a session for rendering.

package game

import (
	"errors"

	"github.com/hamomel/queens/server/internal/board"
)

// Board size bounds offered to players.
const (
	MinBoardSize     = 4
	MaxBoardSize     = 32
	DefaultBoardSize = board.DefaultSize

	// minSquareDp is the smallest accessible touch target per cell.
	minSquareDp = 48
)

var ErrBoardSize = errors.New("board size out of range")

// Feedback is a one-shot cue consumed by the client.
// Possible values:
//   - "":           nothing pending.
//   - "confirm":    a queen was placed.
//   - "reject":     the placement was refused; see ViewState.Conflicts.
//   - "long_press": the board was reset.
type Feedback string

const (
	FeedbackNone      Feedback = ""
	FeedbackConfirm   Feedback = "confirm"
	FeedbackReject    Feedback = "reject"
	FeedbackLongPress Feedback = "long_press"
)

// EventKind names a navigation event.
type EventKind string

const (
	EventWin             EventKind = "win"
	EventChooseBoardSize EventKind = "choose_board_size"
)

// Event is emitted by the session and drained by the caller.
//   - EventWin carries the size of the solved board.
//   - EventChooseBoardSize carries the currently selected size.
type Event struct {
	Kind EventKind `json:"kind"`
	Size int       `json:"size"`
}

// ViewState is a snapshot of a session. Board is a clone and safe to share.
type ViewState struct {
	Board     *board.Board     `json:"board"`
	Conflicts []board.Position `json:"conflicts"`
	Feedback  Feedback         `json:"feedback,omitempty"`
	Won       bool             `json:"won"`
	Moves     int              `json:"moves"`
}
