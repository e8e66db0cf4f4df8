// internal/results/store.go
//
// Game history and per-user stats backed by SQLite.
// Responsibilities:
//   - Record a game row when a session starts (owned by a user or an anonymous cookie).
//   - Mark games finished (won/abandoned) with their move count.
//   - Bump users.games_played / wins / streak in one transaction.
//   - Transfer anonymous games to an account after signup/login.
//   - List a user's recent games.
//
// Queries are built with goqu (sqlite3 dialect).

package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Game statuses stored in games.status.
const (
	StatusPlaying   = "playing"
	StatusWon       = "won"
	StatusAbandoned = "abandoned"
)

// Owner identifies who a game belongs to. Exactly one field is set.
type Owner struct {
	UserID      string
	AnonymousID string
}

// GameRow is a single entry of a user's history.
type GameRow struct {
	ID         string         `db:"id" json:"id"`
	BoardSize  int            `db:"board_size" json:"boardSize"`
	Status     string         `db:"status" json:"status"`
	Moves      int            `db:"moves" json:"moves"`
	StartedAt  string         `db:"started_at" json:"startedAt"`
	FinishedAt sql.NullString `db:"finished_at" json:"-"`
	Finished   string         `db:"-" json:"finishedAt,omitempty"`
}

// Store wraps the goqu database handle.
type Store struct {
	db *goqu.Database
}

// NewStore builds a Store over an open SQLite handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: goqu.New("sqlite3", db)}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (o Owner) where() goqu.Ex {
	if o.UserID != "" {
		return goqu.Ex{"user_id": o.UserID}
	}
	return goqu.Ex{"anonymous_id": o.AnonymousID}
}

// StartGame inserts a "playing" row for a new session.
func (s *Store) StartGame(ctx context.Context, id string, owner Owner, boardSize int, startedAt time.Time) error {
	_, err := s.db.Insert("games").Rows(goqu.Record{
		"id":           id,
		"user_id":      nullable(owner.UserID),
		"anonymous_id": nullable(owner.AnonymousID),
		"board_size":   boardSize,
		"status":       StatusPlaying,
		"moves":        0,
		"started_at":   startedAt.UTC().Format(time.RFC3339),
	}).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", id, err)
	}
	return nil
}

// FinishGame records the final status and move count of a game owned by owner.
// It reports whether a row changed: already-finished games and games of
// another owner are left untouched.
func (s *Store) FinishGame(ctx context.Context, id string, owner Owner, status string, moves int) (bool, error) {
	res, err := s.db.Update("games").
		Set(goqu.Record{
			"status":      status,
			"moves":       moves,
			"finished_at": time.Now().UTC().Format(time.RFC3339),
		}).
		Where(goqu.Ex{"id": id, "status": StatusPlaying}, owner.where()).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("finish game %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finish game %s: %w", id, err)
	}
	return n == 1, nil
}

// BumpStats increments games played; updates wins and streak based on the result.
func (s *Store) BumpStats(ctx context.Context, userID string, won bool) error {
	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		var st struct {
			GamesPlayed int `db:"games_played"`
			Wins        int `db:"wins"`
			Streak      int `db:"streak"`
		}
		found, err := tx.From("users").Where(goqu.Ex{"id": userID}).ScanStructContext(ctx, &st)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("bump stats: user %s: %w", userID, sql.ErrNoRows)
		}
		st.GamesPlayed++
		if won {
			st.Wins++
			st.Streak++
		} else {
			st.Streak = 0
		}
		_, err = tx.Update("users").
			Set(goqu.Record{"games_played": st.GamesPlayed, "wins": st.Wins, "streak": st.Streak}).
			Where(goqu.Ex{"id": userID}).
			Executor().ExecContext(ctx)
		return err
	})
}

// ClaimAnonGames transfers anonymous games to a user account.
func (s *Store) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.Update("games").
		Set(goqu.Record{"user_id": userID, "anonymous_id": nil}).
		Where(goqu.Ex{"anonymous_id": anonID}).
		Executor().ExecContext(ctx)
	return err
}

// RecentGames lists a user's games, newest first. limit <= 0 means 50.
func (s *Store) RecentGames(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	out := []GameRow{}
	err := s.db.From("games").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.C("started_at").Desc(), goqu.C("id").Asc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Finished = out[i].FinishedAt.String
	}
	return out, nil
}
