package handlers

import (
	"net/http"

	"netbank/internal/config"
	"netbank/internal/db"
	"netbank/internal/middleware"
	"netbank/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	accounts     AccountStore
	transactions TransactionStore
	cards        CardStore
	audit        AuditStore
	service      TransferService
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, accounts AccountStore, transactions TransactionStore, cards CardStore, audit AuditStore, service TransferService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		cards:        cards,
		audit:        audit,
		service:      service,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authOnly := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authOnly).Post("/logout", h.Logout)
		r.With(authOnly).Get("/user", h.Me)
		r.With(authOnly).Get("/accounts", h.ListAccounts)
	})

	router.Route("/transfers", func(r chi.Router) {
		r.Use(authOnly)
		r.Post("/local", h.TransferLocal)
		r.Post("/international", h.TransferInternational)
		r.Post("/paybill", h.PayBill)
		r.Get("/transactions", h.ListTransactions)
	})

	router.Route("/card", func(r chi.Router) {
		r.Use(authOnly)
		r.Post("/generate", h.GenerateCard)
		r.Delete("/delete/{cardId}", h.DeleteCard)
		r.Get("/details/{cardId}", h.CardDetails)
		r.Get("/all", h.ListCards)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authOnly)
		r.Use(middleware.RequireAdmin(h.users))
		r.Get("/users", h.AdminListUsers)
		r.Get("/users/{id}", h.AdminGetUser)
		r.Put("/users/{id}", h.AdminUpdateUser)
		r.Delete("/users/{id}", h.AdminDeleteUser)
		r.Put("/users/suspend/{id}", h.AdminSuspendUser)
		r.Put("/users/unsuspend/{id}", h.AdminUnsuspendUser)
		r.Put("/users/{userId}/accounts/fund", h.AdminFundAccount)
		r.Get("/transactions", h.AdminListTransactions)
		r.Get("/audit", h.ListAuditLogs)
	})

	router.Get("/ws/updates", h.WSUpdates)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
