package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"netbank/internal/auth"
	"netbank/internal/cards"
	"netbank/internal/db"
	"netbank/internal/middleware"
	"netbank/internal/models"
	"netbank/internal/validator"
	"netbank/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type generateCardRequest struct {
	Type string `json:"type"`
}

func (h *Handler) GenerateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req generateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateCardType(req.Type); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := h.cards.HasType(r.Context(), userID, req.Type)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check cards")
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "duplicate_card")
		return
	}
	details := cards.Generate(req.Type, time.Now())
	card := models.Card{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   req.Type,
		Number: details.Number,
		CVV:    details.CVV,
		Expiry: details.Expiry,
		Status: models.CardActive,
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.cards.Create(r.Context(), tx, card); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"card_type": req.Type})
		return h.audit.Log(r.Context(), tx, userID, "generate_card", "card", card.ID, string(data))
	})
	if err != nil {
		// Two concurrent generates race past HasType; the unique
		// constraint rejects the second insert.
		if db.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "duplicate_card")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to generate card")
		return
	}
	card.CreatedAt = time.Now()
	respondJSON(w, http.StatusCreated, cardResponse(card))
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardID := chi.URLParam(r, "cardId")
	card, err := h.cards.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "card not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load card")
		return
	}
	if card.UserID != userID {
		respondError(w, http.StatusForbidden, "not card owner")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if _, err := h.cards.Delete(r.Context(), tx, cardID); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"card_type": card.Type})
		return h.audit.Log(r.Context(), tx, userID, "delete_card", "card", cardID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete card")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) CardDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardID := chi.URLParam(r, "cardId")
	card, err := h.cards.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "card not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load card")
		return
	}
	if card.UserID != userID {
		respondError(w, http.StatusForbidden, "not card owner")
		return
	}
	respondJSON(w, http.StatusOK, cardResponse(card))
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	list, err := h.cards.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load cards")
		return
	}
	normalized := make([]map[string]any, 0, len(list))
	for _, card := range list {
		normalized = append(normalized, cardResponse(card))
	}
	respondJSON(w, http.StatusOK, normalized)
}

// WSUpdates upgrades an authenticated connection for balance and status pushes.
func (h *Handler) WSUpdates(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
