package store

import (
	"context"
	"time"

	"netbank/internal/models"
)

type ApprovalStore struct {
	db DB
}

func NewApprovalStore(db DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

func (s *ApprovalStore) Schedule(ctx context.Context, tx Execer, id, transactionID, userID string, dueAt time.Time) error {
	query := `
		INSERT INTO approvals (id, transaction_id, user_id, due_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, transactionID, userID, dueAt)
	return err
}

// Due returns unprocessed jobs whose due time has passed, oldest first.
func (s *ApprovalStore) Due(ctx context.Context, now time.Time, limit int) ([]models.ApprovalJob, error) {
	var rows []models.ApprovalJob
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, transaction_id, user_id, due_at, processed_at
		FROM approvals
		WHERE processed_at IS NULL AND due_at <= $1
		ORDER BY due_at
		LIMIT $2
	`, now, limit)
	return rows, err
}

// MarkProcessed stamps the job; zero rows affected means another worker
// already claimed it.
func (s *ApprovalStore) MarkProcessed(ctx context.Context, tx Execer, jobID string, processedAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE approvals
		SET processed_at = $1
		WHERE id = $2 AND processed_at IS NULL
	`, processedAt, jobID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
