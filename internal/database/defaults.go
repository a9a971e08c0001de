package database

import (
	"context"
	"database/sql"

	"github.com/jask/starrate/internal/database/repository"
)

// SeedDefaults ensures a new database has something to rate.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, maxStars int, allowHalf bool) error {
	subjects := repository.NewSubjectRepo(db)
	existing, err := subjects.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	defaults := []string{
		"Coffee",
		"Documentation",
		"Onboarding",
		"Release notes",
		"Support",
	}
	for _, name := range defaults {
		s := repository.Subject{ID: repository.SubjectID(name), Name: name, MaxStars: maxStars, AllowHalf: allowHalf}
		if err := subjects.Upsert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
