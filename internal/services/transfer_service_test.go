package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"netbank/internal/models"
	"netbank/internal/store"
	"netbank/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	getByIDFn func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAccountStore struct {
	getByUserAndTypeFn func(ctx context.Context, userID, accountType string) (models.Account, error)
	debitFn            func(ctx context.Context, tx store.Execer, accountID string, amount int64) (int64, error)
	creditFn           func(ctx context.Context, tx store.Execer, accountID string, amount int64) (int64, error)
	getBalanceFn       func(ctx context.Context, tx store.Getter, accountID string) (int64, error)
}

func (s stubAccountStore) GetByUserAndType(ctx context.Context, userID, accountType string) (models.Account, error) {
	if s.getByUserAndTypeFn == nil {
		return models.Account{}, nil
	}
	return s.getByUserAndTypeFn(ctx, userID, accountType)
}

func (s stubAccountStore) Debit(ctx context.Context, tx store.Execer, accountID string, amount int64) (int64, error) {
	if s.debitFn == nil {
		return 1, nil
	}
	return s.debitFn(ctx, tx, accountID, amount)
}

func (s stubAccountStore) Credit(ctx context.Context, tx store.Execer, accountID string, amount int64) (int64, error) {
	if s.creditFn == nil {
		return 1, nil
	}
	return s.creditFn(ctx, tx, accountID, amount)
}

func (s stubAccountStore) GetBalance(ctx context.Context, tx store.Getter, accountID string) (int64, error) {
	if s.getBalanceFn == nil {
		return 0, nil
	}
	return s.getBalanceFn(ctx, tx, accountID)
}

type stubTransactionStore struct {
	createFn func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

type stubApprovalStore struct {
	scheduleFn func(ctx context.Context, tx store.Execer, id, transactionID, userID string, dueAt time.Time) error
}

func (s stubApprovalStore) Schedule(ctx context.Context, tx store.Execer, id, transactionID, userID string, dueAt time.Time) error {
	if s.scheduleFn == nil {
		return nil
	}
	return s.scheduleFn(ctx, tx, id, transactionID, userID, dueAt)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubHub struct {
	events []websocket.Event
}

func (s *stubHub) Broadcast(_ string, event websocket.Event) {
	s.events = append(s.events, event)
}

func checkingAccount(userID string) models.Account {
	return models.Account{ID: "acc-1", UserID: userID, Type: models.AccountChecking, Number: "1012345678", Balance: 10000}
}

func newService(accounts AccountStore, transactions TransactionStore, approvalStore ApprovalStore, users UserStore, audit AuditStore, hub EventHub) *TransferService {
	return NewTransferService(fakeTxRunner{}, users, accounts, transactions, approvalStore, audit, hub, 5*time.Second)
}

func TestTransferInvalidAmount(t *testing.T) {
	service := newService(stubAccountStore{
		getByUserAndTypeFn: func(context.Context, string, string) (models.Account, error) {
			t.Fatalf("unexpected store call")
			return models.Account{}, nil
		},
	}, stubTransactionStore{}, stubApprovalStore{}, stubUserStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Transfer(context.Background(), TransferRequest{UserID: "user-1", AmountMinor: 0})
	if err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransferMissingCheckingAccount(t *testing.T) {
	service := newService(stubAccountStore{
		getByUserAndTypeFn: func(context.Context, string, string) (models.Account, error) {
			return models.Account{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubApprovalStore{}, stubUserStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Transfer(context.Background(), TransferRequest{UserID: "user-1", AmountMinor: 1000})
	if err != ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	created := false
	service := newService(stubAccountStore{
		getByUserAndTypeFn: func(_ context.Context, userID, accountType string) (models.Account, error) {
			if accountType != models.AccountChecking {
				t.Fatalf("expected Checking lookup, got %q", accountType)
			}
			return checkingAccount(userID), nil
		},
		debitFn: func(context.Context, store.Execer, string, int64) (int64, error) {
			return 0, nil
		},
	}, stubTransactionStore{
		createFn: func(context.Context, store.Execer, store.TransactionInput) error {
			created = true
			return nil
		},
	}, stubApprovalStore{}, stubUserStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Transfer(context.Background(), TransferRequest{UserID: "user-1", AmountMinor: 5000})
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if created {
		t.Fatalf("no record should be created on insufficient funds")
	}
}

func TestTransferSuccess(t *testing.T) {
	var debited int64
	var input store.TransactionInput
	var scheduledDue time.Time
	hub := &stubHub{}
	start := time.Now()
	service := newService(stubAccountStore{
		getByUserAndTypeFn: func(_ context.Context, userID, _ string) (models.Account, error) {
			return checkingAccount(userID), nil
		},
		debitFn: func(_ context.Context, _ store.Execer, accountID string, amount int64) (int64, error) {
			if accountID != "acc-1" {
				t.Fatalf("unexpected account: %q", accountID)
			}
			debited = amount
			return 1, nil
		},
		getBalanceFn: func(context.Context, store.Getter, string) (int64, error) {
			return 7000, nil
		},
	}, stubTransactionStore{
		createFn: func(_ context.Context, _ store.Execer, in store.TransactionInput) error {
			input = in
			return nil
		},
	}, stubApprovalStore{
		scheduleFn: func(_ context.Context, _ store.Execer, _, transactionID, userID string, dueAt time.Time) error {
			if userID != "user-1" {
				t.Fatalf("unexpected user: %q", userID)
			}
			scheduledDue = dueAt
			return nil
		},
	}, stubUserStore{}, stubAuditStore{}, hub)

	record, err := service.Transfer(context.Background(), TransferRequest{
		UserID:           "user-1",
		Kind:             models.TransferLocal,
		RecipientName:    "Jane Roe",
		RecipientAccount: "2098765432",
		RecipientBank:    "Acme Bank",
		AmountMinor:      3000,
		Currency:         "USD",
		TransferType:     "Personal",
		TransferDate:     start,
		Reference:        "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if debited != 3000 {
		t.Fatalf("expected debit of 3000, got %d", debited)
	}
	if record.Status != models.TxPending || record.Direction != models.DirectionDebit {
		t.Fatalf("unexpected record state: %s/%s", record.Status, record.Direction)
	}
	if record.SenderAccount != "1012345678" {
		t.Fatalf("expected sender to be the checking number, got %q", record.SenderAccount)
	}
	if input.ID != record.ID || input.Status != models.TxPending {
		t.Fatalf("stored input mismatch: %#v", input)
	}
	if due := scheduledDue.Sub(start); due < 4*time.Second || due > 7*time.Second {
		t.Fatalf("approval due in %v, want ~5s", due)
	}
	if len(hub.events) != 1 || hub.events[0].Type != websocket.EventBalance || hub.events[0].Balance != "70.00" {
		t.Fatalf("unexpected hub events: %#v", hub.events)
	}
}

func TestAdminFundUserNotFound(t *testing.T) {
	service := newService(stubAccountStore{}, stubTransactionStore{}, stubApprovalStore{}, stubUserStore{
		getByIDFn: func(context.Context, string) (models.User, error) {
			return models.User{}, sql.ErrNoRows
		},
	}, stubAuditStore{}, &stubHub{})
	_, err := service.AdminFund(context.Background(), FundRequest{ActorID: "admin-1", TargetUserID: "ghost", AccountName: "Savings", AmountMinor: 1000})
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminFundAccountNotFound(t *testing.T) {
	service := newService(stubAccountStore{
		getByUserAndTypeFn: func(context.Context, string, string) (models.Account, error) {
			return models.Account{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubApprovalStore{}, stubUserStore{
		getByIDFn: func(context.Context, string) (models.User, error) {
			return models.User{ID: "user-2", Username: "bob"}, nil
		},
	}, stubAuditStore{}, &stubHub{})
	_, err := service.AdminFund(context.Background(), FundRequest{ActorID: "admin-1", TargetUserID: "user-2", AccountName: "Margin", AmountMinor: 1000})
	if err != ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAdminFundSuccess(t *testing.T) {
	var credited int64
	var input store.TransactionInput
	scheduled := false
	hub := &stubHub{}
	service := newService(stubAccountStore{
		getByUserAndTypeFn: func(_ context.Context, _, accountType string) (models.Account, error) {
			if accountType != "savings" {
				t.Fatalf("expected case-insensitive name passthrough, got %q", accountType)
			}
			return models.Account{ID: "acc-2", UserID: "user-2", Type: models.AccountSavings, Number: "2055556666", Balance: 0}, nil
		},
		creditFn: func(_ context.Context, _ store.Execer, _ string, amount int64) (int64, error) {
			credited = amount
			return 1, nil
		},
		getBalanceFn: func(context.Context, store.Getter, string) (int64, error) {
			return 2500, nil
		},
	}, stubTransactionStore{
		createFn: func(_ context.Context, _ store.Execer, in store.TransactionInput) error {
			input = in
			return nil
		},
	}, stubApprovalStore{
		scheduleFn: func(context.Context, store.Execer, string, string, string, time.Time) error {
			scheduled = true
			return nil
		},
	}, stubUserStore{
		getByIDFn: func(context.Context, string) (models.User, error) {
			return models.User{ID: "user-2", Username: "bob"}, nil
		},
	}, stubAuditStore{}, hub)

	record, err := service.AdminFund(context.Background(), FundRequest{
		ActorID:       "admin-1",
		TargetUserID:  "user-2",
		AccountName:   "savings",
		AmountMinor:   2500,
		SenderAccount: "HQ-001",
		RecipientBank: "netbank",
		Reference:     "promo credit",
		TransferDate:  time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if credited != 2500 {
		t.Fatalf("expected credit of 2500, got %d", credited)
	}
	if record.Status != models.TxApproved || record.Direction != models.DirectionCredit {
		t.Fatalf("admin credits are immediate, got %s/%s", record.Status, record.Direction)
	}
	if scheduled {
		t.Fatalf("admin fund must not schedule an approval job")
	}
	if input.Status != models.TxApproved {
		t.Fatalf("stored record not approved: %#v", input)
	}
	if len(hub.events) != 1 || hub.events[0].Balance != "25.00" {
		t.Fatalf("unexpected hub events: %#v", hub.events)
	}
}
