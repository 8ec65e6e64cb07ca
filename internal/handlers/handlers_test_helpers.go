package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"netbank/internal/auth"
	"netbank/internal/config"
	"netbank/internal/middleware"
	"netbank/internal/models"
	"netbank/internal/services"
	"netbank/internal/store"
	"netbank/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
	listFn       func(ctx context.Context, limit, offset int) ([]models.User, error)
	updateFn     func(ctx context.Context, tx store.Execer, userID, username, email string, profileImageURL *string) (int64, error)
	setStatusFn  func(ctx context.Context, tx store.Execer, userID, status string) (int64, error)
	deleteFn     func(ctx context.Context, tx store.Execer, userID string) (int64, error)
	hasAnyFn     func(ctx context.Context) (bool, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash, role)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s stubUserStore) Update(ctx context.Context, tx store.Execer, userID, username, email string, profileImageURL *string) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, userID, username, email, profileImageURL)
}

func (s stubUserStore) SetStatus(ctx context.Context, tx store.Execer, userID, status string) (int64, error) {
	if s.setStatusFn == nil {
		return 1, nil
	}
	return s.setStatusFn(ctx, tx, userID, status)
}

func (s stubUserStore) Delete(ctx context.Context, tx store.Execer, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID)
}

func (s stubUserStore) HasAny(ctx context.Context) (bool, error) {
	if s.hasAnyFn == nil {
		return true, nil
	}
	return s.hasAnyFn(ctx)
}

type stubAccountStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, userID, accountType, number string, balance int64) error
	getByUserFn     func(ctx context.Context, userID string) ([]models.Account, error)
	numbersByUserFn func(ctx context.Context, userID string) ([]string, error)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, id, userID, accountType, number string, balance int64) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, accountType, number, balance)
}

func (s stubAccountStore) GetByUser(ctx context.Context, userID string) ([]models.Account, error) {
	if s.getByUserFn == nil {
		return nil, nil
	}
	return s.getByUserFn(ctx, userID)
}

func (s stubAccountStore) NumbersByUser(ctx context.Context, userID string) ([]string, error) {
	if s.numbersByUserFn == nil {
		return nil, nil
	}
	return s.numbersByUserFn(ctx, userID)
}

type stubTransactionStore struct {
	listByAccountsFn  func(ctx context.Context, numbers []string, limit, offset int) ([]models.TransactionRecord, error)
	countByAccountsFn func(ctx context.Context, numbers []string) (int, error)
	listAllFn         func(ctx context.Context, limit, offset int) ([]models.TransactionRecord, error)
}

func (s stubTransactionStore) ListByAccounts(ctx context.Context, numbers []string, limit, offset int) ([]models.TransactionRecord, error) {
	if s.listByAccountsFn == nil {
		return nil, nil
	}
	return s.listByAccountsFn(ctx, numbers, limit, offset)
}

func (s stubTransactionStore) CountByAccounts(ctx context.Context, numbers []string) (int, error) {
	if s.countByAccountsFn == nil {
		return 0, nil
	}
	return s.countByAccountsFn(ctx, numbers)
}

func (s stubTransactionStore) ListAll(ctx context.Context, limit, offset int) ([]models.TransactionRecord, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubCardStore struct {
	createFn     func(ctx context.Context, tx store.Execer, card models.Card) error
	getByIDFn    func(ctx context.Context, cardID string) (models.Card, error)
	listByUserFn func(ctx context.Context, userID string) ([]models.Card, error)
	hasTypeFn    func(ctx context.Context, userID, cardType string) (bool, error)
	deleteFn     func(ctx context.Context, tx store.Execer, cardID string) (int64, error)
}

func (s stubCardStore) Create(ctx context.Context, tx store.Execer, card models.Card) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, card)
}

func (s stubCardStore) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	if s.getByIDFn == nil {
		return models.Card{}, nil
	}
	return s.getByIDFn(ctx, cardID)
}

func (s stubCardStore) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubCardStore) HasType(ctx context.Context, userID, cardType string) (bool, error) {
	if s.hasTypeFn == nil {
		return false, nil
	}
	return s.hasTypeFn(ctx, userID, cardType)
}

func (s stubCardStore) Delete(ctx context.Context, tx store.Execer, cardID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, cardID)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubService struct {
	transferFn  func(ctx context.Context, req services.TransferRequest) (models.TransactionRecord, error)
	adminFundFn func(ctx context.Context, req services.FundRequest) (models.TransactionRecord, error)
}

func (s stubService) Transfer(ctx context.Context, req services.TransferRequest) (models.TransactionRecord, error) {
	if s.transferFn == nil {
		return models.TransactionRecord{}, nil
	}
	return s.transferFn(ctx, req)
}

func (s stubService) AdminFund(ctx context.Context, req services.FundRequest) (models.TransactionRecord, error) {
	if s.adminFundFn == nil {
		return models.TransactionRecord{}, nil
	}
	return s.adminFundFn(ctx, req)
}

func newTestHandler(txRunner fakeTxRunner, users UserStore, accounts AccountStore, transactions TransactionStore, cards CardStore, audit AuditStore, service TransferService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		ApprovalDelay:  5 * time.Second,
		ApprovalPoll:   time.Second,
	}
	return New(txRunner, cfg, users, accounts, transactions, cards, audit, service, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body []byte, userID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}
