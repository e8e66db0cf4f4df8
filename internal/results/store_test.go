package results

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamomel/queens/server/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func insertUser(t *testing.T, db *sql.DB, id, username string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, "x", time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)
}

func userStats(t *testing.T, db *sql.DB, id string) (played, wins, streak int) {
	t.Helper()
	require.NoError(t, db.QueryRow(`SELECT games_played, wins, streak FROM users WHERE id=?`, id).
		Scan(&played, &wins, &streak))
	return
}

func TestFinishGameOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	s := NewStore(db)
	owner := Owner{UserID: "u1"}

	require.NoError(t, s.StartGame(ctx, "g1", owner, 8, time.Now()))
	finished, err := s.FinishGame(ctx, "g1", owner, StatusWon, 12)
	require.NoError(t, err)
	assert.True(t, finished)
	finished, err = s.FinishGame(ctx, "g1", owner, StatusAbandoned, 99)
	require.NoError(t, err)
	assert.False(t, finished)

	games, err := s.RecentGames(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, StatusWon, games[0].Status)
	assert.Equal(t, 12, games[0].Moves)
	assert.Equal(t, 8, games[0].BoardSize)
	assert.NotEmpty(t, games[0].Finished)
}

func TestFinishGameChecksOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	s := NewStore(db)

	require.NoError(t, s.StartGame(ctx, "g1", Owner{AnonymousID: "anon-a"}, 6, time.Now()))
	finished, err := s.FinishGame(ctx, "g1", Owner{AnonymousID: "anon-b"}, StatusWon, 6)
	require.NoError(t, err)
	assert.False(t, finished)

	// empty ids are ignored
	require.NoError(t, s.ClaimAnonGames(ctx, "anon-a", ""))
	require.NoError(t, s.ClaimAnonGames(ctx, "anon-a", "u1"))

	games, err := s.RecentGames(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, StatusPlaying, games[0].Status)
	assert.Equal(t, 0, games[0].Moves)
}

func TestBumpStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	s := NewStore(db)

	require.NoError(t, s.BumpStats(ctx, "u1", true))
	require.NoError(t, s.BumpStats(ctx, "u1", true))
	played, wins, streak := userStats(t, db, "u1")
	assert.Equal(t, 2, played)
	assert.Equal(t, 2, wins)
	assert.Equal(t, 2, streak)

	require.NoError(t, s.BumpStats(ctx, "u1", false))
	played, wins, streak = userStats(t, db, "u1")
	assert.Equal(t, 3, played)
	assert.Equal(t, 2, wins)
	assert.Equal(t, 0, streak)

	err := s.BumpStats(ctx, "ghost", true)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClaimAnonGamesAndRecentOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	s := NewStore(db)

	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.StartGame(ctx, "old", Owner{AnonymousID: "anon"}, 5, base))
	require.NoError(t, s.StartGame(ctx, "new", Owner{AnonymousID: "anon"}, 7, base.Add(time.Hour)))
	require.NoError(t, s.StartGame(ctx, "someone-else", Owner{AnonymousID: "other"}, 8, base))

	games, err := s.RecentGames(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, games)

	require.NoError(t, s.ClaimAnonGames(ctx, "anon", "u1"))

	games, err = s.RecentGames(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "new", games[0].ID)
	assert.Equal(t, "old", games[1].ID)
	assert.Equal(t, StatusPlaying, games[0].Status)
	assert.Empty(t, games[0].Finished)

	games, err = s.RecentGames(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}
