package daily

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

const table = "daily_results"

// Result is one player's solved daily board.
type Result struct {
	UserID    string `db:"user_id" json:"userId"`
	Date      string `db:"date" json:"date"`
	BoardSize int    `db:"board_size" json:"boardSize"`
	Moves     int    `db:"moves" json:"moves"`
	ElapsedMs int    `db:"elapsed_ms" json:"elapsedMs"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	UserID    string `db:"user_id" json:"userId"`
	Moves     int    `db:"moves" json:"moves"`
	ElapsedMs int    `db:"elapsed_ms" json:"elapsedMs"`
}

type Store struct{ db *goqu.Database }

func NewStore(db *sql.DB) *Store { return &Store{db: goqu.New("sqlite3", db)} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	n, err := s.db.From(table).Where(goqu.Ex{"user_id": userID, "date": date}).CountContext(ctx)
	return n > 0, err
}

// InsertResult stores r; a second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.Insert(table).
		Rows(r).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx)
	return err
}

// ClaimAnon moves an anonymous player's results to userID. Days the user
// already has a result for keep the user's own row.
func (s *Store) ClaimAnon(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	owned := s.db.From(table).Select("date").Where(goqu.Ex{"user_id": userID})
	_, err := s.db.Update(table).
		Set(goqu.Record{"user_id": userID}).
		Where(goqu.Ex{"user_id": anonID}, goqu.C("date").NotIn(owned)).
		Executor().ExecContext(ctx)
	return err
}

// Leaderboard returns the fastest solves for date: elapsed, then moves, then
// submission time. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	out := []LBRow{}
	err := s.db.From(table).
		Where(goqu.C("date").Eq(date)).
		Order(goqu.C("elapsed_ms").Asc(), goqu.C("moves").Asc(), goqu.C("created_at").Asc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
