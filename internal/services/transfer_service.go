package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"netbank/internal/db"
	"netbank/internal/models"
	"netbank/internal/money"
	"netbank/internal/store"
	"netbank/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
	ErrUserNotFound      = errors.New("user not found")
)

type AccountStore interface {
	GetByUserAndType(ctx context.Context, userID, accountType string) (models.Account, error)
	Debit(ctx context.Context, tx store.Execer, accountID string, amount int64) (int64, error)
	Credit(ctx context.Context, tx store.Execer, accountID string, amount int64) (int64, error)
	GetBalance(ctx context.Context, tx store.Getter, accountID string) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type ApprovalStore interface {
	Schedule(ctx context.Context, tx store.Execer, id, transactionID, userID string, dueAt time.Time) error
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type EventHub interface {
	Broadcast(userID string, event websocket.Event)
}

// TransferService owns the funds-movement flows. Debit, record insert, and
// approval scheduling commit or roll back together; a crash cannot leave a
// debited account without a record.
type TransferService struct {
	txRunner      db.TxRunner
	users         UserStore
	accounts      AccountStore
	transactions  TransactionStore
	approvals     ApprovalStore
	audit         AuditStore
	hub           EventHub
	approvalDelay time.Duration
}

func NewTransferService(txRunner db.TxRunner, users UserStore, accounts AccountStore, transactions TransactionStore, approvals ApprovalStore, audit AuditStore, hub EventHub, approvalDelay time.Duration) *TransferService {
	return &TransferService{
		txRunner:      txRunner,
		users:         users,
		accounts:      accounts,
		transactions:  transactions,
		approvals:     approvals,
		audit:         audit,
		hub:           hub,
		approvalDelay: approvalDelay,
	}
}

type TransferRequest struct {
	UserID           string
	Kind             string
	RecipientName    string
	RecipientAccount string
	RecipientBank    string
	SwiftCode        *string
	IBAN             *string
	Country          *string
	BillCategory     *string
	AmountMinor      int64
	Currency         string
	TransferType     string
	TransferDate     time.Time
	Reference        string
}

// Transfer debits the caller's Checking account and writes a pending record.
// The record stays pending until the approval worker picks up the scheduled
// job; callers re-fetch or listen on the hub to observe the flip.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) (models.TransactionRecord, error) {
	if req.AmountMinor <= 0 {
		return models.TransactionRecord{}, ErrInvalidAmount
	}
	account, err := s.accounts.GetByUserAndType(ctx, req.UserID, models.AccountChecking)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TransactionRecord{}, ErrAccountNotFound
		}
		return models.TransactionRecord{}, err
	}

	now := time.Now()
	record := models.TransactionRecord{
		ID:               uuid.NewString(),
		Kind:             req.Kind,
		SenderAccount:    account.Number,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		RecipientBank:    req.RecipientBank,
		SwiftCode:        req.SwiftCode,
		IBAN:             req.IBAN,
		Country:          req.Country,
		BillCategory:     req.BillCategory,
		Amount:           req.AmountMinor,
		Currency:         req.Currency,
		TransferType:     req.TransferType,
		TransferDate:     req.TransferDate,
		Reference:        req.Reference,
		Status:           models.TxPending,
		Direction:        models.DirectionDebit,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var balanceAfter int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.accounts.Debit(ctx, tx, account.ID, req.AmountMinor)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientFunds
		}
		if err := s.transactions.Create(ctx, tx, transactionInput(record)); err != nil {
			return err
		}
		if err := s.approvals.Schedule(ctx, tx, uuid.NewString(), record.ID, req.UserID, now.Add(s.approvalDelay)); err != nil {
			return err
		}
		balanceAfter, err = s.accounts.GetBalance(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"transaction_id": record.ID,
			"kind":           req.Kind,
		})
		return s.audit.Log(ctx, tx, req.UserID, "transfer", "transaction", record.ID, string(data))
	})
	if err != nil {
		return models.TransactionRecord{}, err
	}

	s.hub.Broadcast(req.UserID, websocket.Event{
		Type:          websocket.EventBalance,
		AccountNumber: account.Number,
		Balance:       money.FormatMinor(balanceAfter),
	})
	return record, nil
}

type FundRequest struct {
	ActorID       string
	TargetUserID  string
	AccountName   string
	AmountMinor   int64
	SenderAccount string
	RecipientBank string
	Reference     string
	TransferDate  time.Time
}

// AdminFund credits the named account on the target user. Admin credits are
// immediate: the record is written approved and no approval job is scheduled.
func (s *TransferService) AdminFund(ctx context.Context, req FundRequest) (models.TransactionRecord, error) {
	if req.AmountMinor <= 0 {
		return models.TransactionRecord{}, ErrInvalidAmount
	}
	target, err := s.users.GetByID(ctx, req.TargetUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TransactionRecord{}, ErrUserNotFound
		}
		return models.TransactionRecord{}, err
	}
	account, err := s.accounts.GetByUserAndType(ctx, req.TargetUserID, req.AccountName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TransactionRecord{}, ErrAccountNotFound
		}
		return models.TransactionRecord{}, err
	}

	now := time.Now()
	record := models.TransactionRecord{
		ID:               uuid.NewString(),
		Kind:             models.TransferFund,
		SenderAccount:    req.SenderAccount,
		RecipientName:    target.Username,
		RecipientAccount: account.Number,
		RecipientBank:    req.RecipientBank,
		Amount:           req.AmountMinor,
		Currency:         "USD",
		TransferType:     "Business",
		TransferDate:     req.TransferDate,
		Reference:        req.Reference,
		Status:           models.TxApproved,
		Direction:        models.DirectionCredit,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var balanceAfter int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.accounts.Credit(ctx, tx, account.ID, req.AmountMinor)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAccountNotFound
		}
		if err := s.transactions.Create(ctx, tx, transactionInput(record)); err != nil {
			return err
		}
		balanceAfter, err = s.accounts.GetBalance(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"transaction_id": record.ID,
			"target_user_id": req.TargetUserID,
			"account":        account.Type,
		})
		return s.audit.Log(ctx, tx, req.ActorID, "admin_fund", "transaction", record.ID, string(data))
	})
	if err != nil {
		return models.TransactionRecord{}, err
	}

	s.hub.Broadcast(req.TargetUserID, websocket.Event{
		Type:          websocket.EventBalance,
		AccountNumber: account.Number,
		Balance:       money.FormatMinor(balanceAfter),
	})
	return record, nil
}

func transactionInput(record models.TransactionRecord) store.TransactionInput {
	return store.TransactionInput{
		ID:               record.ID,
		Kind:             record.Kind,
		SenderAccount:    record.SenderAccount,
		RecipientName:    record.RecipientName,
		RecipientAccount: record.RecipientAccount,
		RecipientBank:    record.RecipientBank,
		SwiftCode:        record.SwiftCode,
		IBAN:             record.IBAN,
		Country:          record.Country,
		BillCategory:     record.BillCategory,
		Amount:           record.Amount,
		Currency:         record.Currency,
		TransferType:     record.TransferType,
		TransferDate:     record.TransferDate,
		Reference:        record.Reference,
		Status:           record.Status,
		Direction:        record.Direction,
	}
}
