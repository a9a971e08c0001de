package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/starrate/internal/database"
	"github.com/jask/starrate/internal/database/repository"
)

// MaintenanceService houses destructive actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all rating history. Subjects and the schema stay.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	ratings := repository.NewRatingRepo(s.DB)
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := ratings.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("reset ratings: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
