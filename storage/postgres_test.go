package storage_test

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
	"github.com/rerolab/9-life/migrations"
	"github.com/rerolab/9-life/room"
	"github.com/rerolab/9-life/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var repo *storage.PostgresRepo

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}
	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}
	// A second run must be a no-op.
	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	repo, err = storage.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	repo.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func result(roomID string, finished time.Time, names ...string) room.GameResult {
	rankings := make([]engine.Ranking, len(names))
	for i, name := range names {
		rankings[i] = engine.Ranking{PlayerID: "id-" + name, PlayerName: name, TotalAssets: int64(1000 * (len(names) - i)), Rank: uint32(i + 1)}
	}
	return room.GameResult{RoomID: roomID, MapID: "classic", FinishedAt: finished, Rankings: rankings}
}

func TestPostgresRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := repo.GetPool().Exec(ctx, "TRUNCATE game_results")
	require.NoError(t, err)

	t.Run("RecentResults_Empty", func(t *testing.T) {
		results, err := repo.RecentResults(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	})

	t.Run("RecordResult", func(t *testing.T) {
		require.NoError(t, repo.RecordResult(ctx, result("AAAAAA", base, "Alice", "Bob")))
		require.NoError(t, repo.RecordResult(ctx, result("BBBBBB", base.Add(time.Hour), "Carol")))
		require.NoError(t, repo.RecordResult(ctx, result("CCCCCC", base.Add(2*time.Hour), "Dan", "Eve", "Fay")))

		var count int
		require.NoError(t, repo.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM game_results").Scan(&count))
		assert.Equal(t, 3, count)
	})

	t.Run("RecentResults_NewestFirst", func(t *testing.T) {
		results, err := repo.RecentResults(ctx, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, result("CCCCCC", base.Add(2*time.Hour), "Dan", "Eve", "Fay"), results[0])
		assert.Equal(t, "BBBBBB", results[1].RoomID)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.RecentResults(canceled, 5)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.UnexpectedDatabaseError)
	})
}
