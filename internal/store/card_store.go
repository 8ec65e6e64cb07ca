package store

import (
	"context"

	"netbank/internal/models"
)

type CardStore struct {
	db DB
}

func NewCardStore(db DB) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Create(ctx context.Context, tx Execer, card models.Card) error {
	query := `
		INSERT INTO cards (id, user_id, type, number, cvv, expiry, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query, card.ID, card.UserID, card.Type, card.Number, card.CVV, card.Expiry, card.Status)
	return err
}

func (s *CardStore) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	var row models.Card
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, type, number, cvv, expiry, status, created_at
		FROM cards
		WHERE id = $1
	`, cardID)
	return row, err
}

func (s *CardStore) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	var rows []models.Card
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, number, cvv, expiry, status, created_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return rows, err
}

// HasType is the pre-flight duplicate check; the UNIQUE(user_id, type)
// constraint backstops the race between two concurrent generates.
func (s *CardStore) HasType(ctx context.Context, userID, cardType string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM cards
		WHERE user_id = $1 AND type = $2
	`, userID, cardType)
	return count > 0, err
}

func (s *CardStore) Delete(ctx context.Context, tx Execer, cardID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
