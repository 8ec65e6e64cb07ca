package store

import (
	"context"
	"time"

	"netbank/internal/models"

	"github.com/jmoiron/sqlx"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID               string
	Kind             string
	SenderAccount    string
	RecipientName    string
	RecipientAccount string
	RecipientBank    string
	SwiftCode        *string
	IBAN             *string
	Country          *string
	BillCategory     *string
	Amount           int64
	Currency         string
	TransferType     string
	TransferDate     time.Time
	Reference        string
	Status           string
	Direction        string
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, kind, sender_account, recipient_name, recipient_account, recipient_bank,
		                          swift_code, iban, country, bill_category, amount, currency, transfer_type,
		                          transfer_date, reference, status, direction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Kind, input.SenderAccount, input.RecipientName, input.RecipientAccount, input.RecipientBank,
		input.SwiftCode, input.IBAN, input.Country, input.BillCategory, input.Amount, input.Currency,
		input.TransferType, input.TransferDate, input.Reference, input.Status, input.Direction,
	)
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (models.TransactionRecord, error) {
	var row models.TransactionRecord
	err := s.db.GetContext(ctx, &row, `
		SELECT id, kind, sender_account, recipient_name, recipient_account, recipient_bank,
		       swift_code, iban, country, bill_category, amount, currency, transfer_type,
		       transfer_date, reference, status, direction, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, transactionID)
	return row, err
}

func (s *TransactionStore) UpdateStatus(ctx context.Context, tx Execer, transactionID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByAccounts returns records where any of the given account numbers is the
// sender or the recipient, newest first.
func (s *TransactionStore) ListByAccounts(ctx context.Context, numbers []string, limit, offset int) ([]models.TransactionRecord, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT id, kind, sender_account, recipient_name, recipient_account, recipient_bank,
		       swift_code, iban, country, bill_category, amount, currency, transfer_type,
		       transfer_date, reference, status, direction, created_at, updated_at
		FROM transactions
		WHERE sender_account IN (?) OR recipient_account IN (?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, numbers, numbers, limit, offset)
	if err != nil {
		return nil, err
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var rows []models.TransactionRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) CountByAccounts(ctx context.Context, numbers []string) (int, error) {
	if len(numbers) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		SELECT COUNT(1)
		FROM transactions
		WHERE sender_account IN (?) OR recipient_account IN (?)
	`, numbers, numbers)
	if err != nil {
		return 0, err
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]models.TransactionRecord, error) {
	var rows []models.TransactionRecord
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, kind, sender_account, recipient_name, recipient_account, recipient_bank,
		       swift_code, iban, country, bill_category, amount, currency, transfer_type,
		       transfer_date, reference, status, direction, created_at, updated_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
