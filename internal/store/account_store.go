package store

import (
	"context"

	"netbank/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, id, userID, accountType, number string, balance int64) error {
	query := `
		INSERT INTO accounts (id, user_id, type, number, balance)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, accountType, number, balance)
	return err
}

func (s *AccountStore) GetByUser(ctx context.Context, userID string) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, number, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY type
	`, userID)
	return rows, err
}

// GetByUserAndType matches the account type case-insensitively, so an admin
// funding "checking" hits the Checking account.
func (s *AccountStore) GetByUserAndType(ctx context.Context, userID, accountType string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, type, number, balance, created_at
		FROM accounts
		WHERE user_id = $1 AND LOWER(type) = LOWER($2)
	`, userID, accountType)
	return row, err
}

func (s *AccountStore) NumbersByUser(ctx context.Context, userID string) ([]string, error) {
	var numbers []string
	err := s.db.SelectContext(ctx, &numbers, `
		SELECT number
		FROM accounts
		WHERE user_id = $1
	`, userID)
	return numbers, err
}

// Debit decrements the balance only when funds cover the amount. Zero rows
// affected means insufficient funds; two concurrent debits cannot both pass
// the check.
func (s *AccountStore) Debit(ctx context.Context, tx Execer, accountID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`, amount, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) Credit(ctx context.Context, tx Execer, accountID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`, amount, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) GetBalance(ctx context.Context, tx Getter, accountID string) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		SELECT balance
		FROM accounts
		WHERE id = $1
	`, accountID)
	return balance, err
}
