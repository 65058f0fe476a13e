package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/jask/globalstate/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB     *sql.DB
	Logger *log.Logger
}

// Reset wipes saved snapshots and the journal. It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"journal", "snapshots"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	// the data is already gone; a failed VACUUM only leaves the file large
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil {
		s.logger().Printf("maintenance: vacuum: %v", err)
	}
	return nil
}

func (s *MaintenanceService) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}
