package handlers

import (
	"context"

	"netbank/internal/models"
	"netbank/internal/services"
	"netbank/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, tx store.Execer, userID, username, email string, profileImageURL *string) (int64, error)
	SetStatus(ctx context.Context, tx store.Execer, userID, status string) (int64, error)
	Delete(ctx context.Context, tx store.Execer, userID string) (int64, error)
	HasAny(ctx context.Context) (bool, error)
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, accountType, number string, balance int64) error
	GetByUser(ctx context.Context, userID string) ([]models.Account, error)
	NumbersByUser(ctx context.Context, userID string) ([]string, error)
}

type TransactionStore interface {
	ListByAccounts(ctx context.Context, numbers []string, limit, offset int) ([]models.TransactionRecord, error)
	CountByAccounts(ctx context.Context, numbers []string) (int, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.TransactionRecord, error)
}

type CardStore interface {
	Create(ctx context.Context, tx store.Execer, card models.Card) error
	GetByID(ctx context.Context, cardID string) (models.Card, error)
	ListByUser(ctx context.Context, userID string) ([]models.Card, error)
	HasType(ctx context.Context, userID, cardType string) (bool, error)
	Delete(ctx context.Context, tx store.Execer, cardID string) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type TransferService interface {
	Transfer(ctx context.Context, req services.TransferRequest) (models.TransactionRecord, error)
	AdminFund(ctx context.Context, req services.FundRequest) (models.TransactionRecord, error)
}
