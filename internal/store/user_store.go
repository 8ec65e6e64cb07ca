package store

import (
	"context"

	"netbank/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash, role string) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, 'active')
	`
	_, err := tx.ExecContext(ctx, query, id, username, email, passwordHash, role)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, role, status, profile_image_url, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	return row, err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, role, status, profile_image_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	return row, err
}

func (s *UserStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var rows []models.User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, email, password_hash, role, status, profile_image_url, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

func (s *UserStore) Update(ctx context.Context, tx Execer, userID, username, email string, profileImageURL *string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET username = $1, email = $2, profile_image_url = COALESCE($3, profile_image_url), updated_at = NOW()
		WHERE id = $4
	`, username, email, profileImageURL, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UserStore) SetStatus(ctx context.Context, tx Execer, userID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the user; accounts and cards go with it via FK cascade.
// Transaction records reference account numbers by value and survive.
func (s *UserStore) Delete(ctx context.Context, tx Execer, userID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UserStore) HasAny(ctx context.Context) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`)
	return count > 0, err
}
