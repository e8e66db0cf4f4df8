// internal/game/session.go
//
// Session controller for a single Queens game.
// Responsibilities:
//   - Own one board and drive it through a rules.Engine.
//   - Toggle queens on click: place when unattacked, reject with conflicts otherwise,
//     remove when the cell is occupied.
//   - Detect the win and stop accepting clicks afterwards.
//   - Reset, resize, and one-shot acknowledgements (conflicts shown, feedback consumed).
//   - Queue navigation events for the caller to drain.
//
// Notes:
//   - A Session is not goroutine-safe; store.Store serializes access.
//   - The board is replaced wholesale on reset and resize.

package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hamomel/queens/server/internal/board"
	"github.com/hamomel/queens/server/internal/rules"
)

// Session holds the state of one game in progress.
type Session struct {
	ID        string
	StartedAt time.Time

	engine    rules.Engine
	size      int // selected size; survives resets
	board     *board.Board
	conflicts []board.Position
	feedback  Feedback
	won       bool
	moves     int
	round     int // bumped by every reset and resize
	events    []Event
}

// New constructs a session with an empty board.
// A non-positive size selects DefaultBoardSize.
func New(engine rules.Engine, size int) (*Session, error) {
	if size <= 0 {
		size = DefaultBoardSize
	}
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	b, err := board.New(size)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		engine:    engine,
		size:      size,
		board:     b,
	}, nil
}

// ValidateSize checks size against [MinBoardSize, MaxBoardSize].
func ValidateSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBoardSize, size, MinBoardSize, MaxBoardSize)
	}
	return nil
}

// Size returns the side length of the current board.
func (s *Session) Size() int { return s.board.Size() }

// Won reports whether the current board is solved.
func (s *Session) Won() bool { return s.won }

// Queens returns the number of queens on the board.
func (s *Session) Queens() int { return s.board.Count() }

// Moves counts accepted placements and removals since the last reset.
func (s *Session) Moves() int { return s.moves }

// Round counts restarts of this session. Each round is recorded as its own game.
func (s *Session) Round() int { return s.round }

// State returns a snapshot safe to hand to other goroutines.
func (s *Session) State() ViewState {
	conflicts := make([]board.Position, len(s.conflicts))
	copy(conflicts, s.conflicts)
	return ViewState{
		Board:     s.board.Clone(),
		Conflicts: conflicts,
		Feedback:  s.feedback,
		Won:       s.won,
		Moves:     s.moves,
	}
}

// Click toggles a queen at pos.
//
// Behavior:
//   - Won game → ignored.
//   - Empty cell, attacked → board unchanged, Conflicts set, FeedbackReject.
//   - Empty cell, free → WhiteQueen placed, FeedbackConfirm; a win queues EventWin.
//   - Occupied cell → queen removed.
func (s *Session) Click(pos board.Position) error {
	if s.won {
		return nil
	}
	_, occupied, err := s.board.GetPiece(pos)
	if err != nil {
		return err
	}
	if occupied {
		if err := s.board.RemovePiece(pos); err != nil {
			return err
		}
		s.moves++
		return nil
	}
	return s.trySetQueen(pos)
}

func (s *Session) trySetQueen(pos board.Position) error {
	if conflicts := s.engine.FindConflicts(s.board, pos); len(conflicts) > 0 {
		s.conflicts = conflicts
		s.feedback = FeedbackReject
		return nil
	}
	if err := s.board.SetPiece(board.WhiteQueen, pos); err != nil {
		return err
	}
	s.moves++
	s.conflicts = nil
	s.feedback = FeedbackConfirm
	s.won = s.engine.IsWin(s.board)
	if s.won {
		s.events = append(s.events, Event{Kind: EventWin, Size: s.board.Size()})
	}
	return nil
}

// ChangeSize replaces the board with an empty one of the new size.
// Selecting the current size is a no-op.
func (s *Session) ChangeSize(size int) error {
	if err := ValidateSize(size); err != nil {
		return err
	}
	if size == s.board.Size() {
		return nil
	}
	b, err := board.New(size)
	if err != nil {
		return err
	}
	s.size = size
	s.restart(b, FeedbackNone)
	return nil
}

// Reset discards the board and starts over at the selected size.
func (s *Session) Reset() {
	b, _ := board.New(s.size)
	s.restart(b, FeedbackLongPress)
}

func (s *Session) restart(b *board.Board, fb Feedback) {
	s.board = b
	s.conflicts = nil
	s.feedback = fb
	s.won = false
	s.moves = 0
	s.round++
	s.StartedAt = time.Now()
}

// ConflictsShown clears the conflicts reported by the last rejected click.
func (s *Session) ConflictsShown() { s.conflicts = nil }

// FeedbackConsumed clears the pending feedback cue.
func (s *Session) FeedbackConsumed() { s.feedback = FeedbackNone }

// ChooseBoardSize queues a request to open size selection.
func (s *Session) ChooseBoardSize() {
	s.events = append(s.events, Event{Kind: EventChooseBoardSize, Size: s.size})
}

// DrainEvents returns queued events in emission order and clears the queue.
func (s *Session) DrainEvents() []Event {
	out := s.events
	s.events = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

// MaxBoardSizeFor returns the largest board that fits a display of the given
// pixel dimensions with cells no smaller than 48dp. The result is clamped to
// [MinBoardSize, MaxBoardSize].
func MaxBoardSizeFor(widthPx, heightPx int, density float64) int {
	if density <= 0 {
		density = 1
	}
	side := min(widthPx, heightPx)
	n := int(float64(side) / density / minSquareDp)
	return max(MinBoardSize, min(n, MaxBoardSize))
}
