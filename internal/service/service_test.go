package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/starrate/internal/database"
	"github.com/jask/starrate/internal/database/repository"
	"github.com/jask/starrate/rating"
)

func newTestService(t *testing.T) (*RatingService, *sql.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := &RatingService{
		Subjects: repository.NewSubjectRepo(db),
		Ratings:  repository.NewRatingRepo(db),
		Defaults: rating.DefaultConfig(),
	}
	return svc, db
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
