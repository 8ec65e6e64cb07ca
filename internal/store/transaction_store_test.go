package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"netbank/internal/models"
)

func TestTransactionStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 17 {
				t.Fatalf("expected 17 args, got %d", len(args))
			}
			if args[0] != "tx-1" || args[15] != models.TxPending || args[16] != models.DirectionDebit {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTransactionStore(stubDB{})
	err := store.Create(ctx, execer, TransactionInput{
		ID:               "tx-1",
		Kind:             models.TransferLocal,
		SenderAccount:    "1011112222",
		RecipientName:    "Jane Roe",
		RecipientAccount: "2011112222",
		RecipientBank:    "Acme Bank",
		Amount:           3000,
		Currency:         "USD",
		TransferType:     "Personal",
		TransferDate:     time.Now(),
		Status:           models.TxPending,
		Direction:        models.DirectionDebit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactionStoreUpdateStatus(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE transactions") || !strings.Contains(query, "SET status = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != models.TxApproved || args[1] != "tx-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTransactionStore(stubDB{})
	rows, err := store.UpdateStatus(ctx, execer, "tx-1", models.TxApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestTransactionStoreListByAccounts(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if strings.Contains(query, "?") {
				t.Fatalf("query not rebound to dollar placeholders: %s", query)
			}
			if !strings.Contains(query, "sender_account IN") || !strings.Contains(query, "recipient_account IN") {
				t.Fatalf("unexpected query: %s", query)
			}
			// two numbers on each side of the OR, plus limit and offset
			if len(args) != 6 {
				t.Fatalf("expected 6 args, got %d: %#v", len(args), args)
			}
			*dest.(*[]models.TransactionRecord) = []models.TransactionRecord{{ID: "tx-1"}}
			return nil
		},
	})
	rows, err := store.ListByAccounts(ctx, []string{"1011112222", "2011112222"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "tx-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestTransactionStoreListByAccountsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		selectFn: func(context.Context, any, string, ...any) error {
			t.Fatalf("must not query with no account numbers")
			return nil
		},
	})
	rows, err := store.ListByAccounts(ctx, nil, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows, got %#v", rows)
	}
}

func TestTransactionStoreCountByAccounts(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COUNT(1)") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 {
				t.Fatalf("expected 2 args, got %d", len(args))
			}
			*dest.(*int) = 7
			return nil
		},
	})
	count, err := store.CountByAccounts(ctx, []string{"1011112222"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Fatalf("unexpected count: %d", count)
	}
}

func TestTransactionStoreCountByAccountsEmpty(t *testing.T) {
	store := NewTransactionStore(stubDB{})
	count, err := store.CountByAccounts(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for no accounts, got %d", count)
	}
}
