package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"netbank/internal/db"
	"netbank/internal/middleware"
	"netbank/internal/models"
	"netbank/internal/services"
	"netbank/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type fundRequest struct {
	AccountName   string `json:"accountName"`
	Amount        string `json:"amount"`
	SenderAccount string `json:"senderAccount"`
	RecipientBank string `json:"recipientBank"`
	Reference     string `json:"reference"`
	TransferDate  string `json:"transferDate"`
}

// AdminFundAccount validates every descriptive field before any state moves.
func (h *Handler) AdminFundAccount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetUserID := chi.URLParam(r, "userId")
	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.Required(req.AccountName, req.SenderAccount, req.RecipientBank, req.Reference); err != nil {
		respondError(w, http.StatusBadRequest, "all fund fields are required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transferDate, err := validator.ParseTransferDate(req.TransferDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transferDate")
		return
	}
	record, err := h.service.AdminFund(r.Context(), services.FundRequest{
		ActorID:       actorID,
		TargetUserID:  targetUserID,
		AccountName:   req.AccountName,
		AmountMinor:   amountMinor,
		SenderAccount: req.SenderAccount,
		RecipientBank: req.RecipientBank,
		Reference:     req.Reference,
		TransferDate:  transferDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "account not found")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			respondError(w, http.StatusInternalServerError, "fund_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, recordResponse(record))
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parsePositiveInt(query.Get("limit"), 50)
	page := parsePositiveInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	normalized := make([]map[string]any, 0, len(users))
	for _, user := range users {
		normalized = append(normalized, userResponse(user))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	accounts, err := h.accounts.GetByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	normalized := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		normalized = append(normalized, accountResponse(account))
	}
	response := userResponse(user)
	response["accounts"] = normalized
	respondJSON(w, http.StatusOK, response)
}

type updateUserRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profile_image_url"`
}

func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	userID := chi.URLParam(r, "id")
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateUsername(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var updated int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err := h.users.Update(r.Context(), tx, userID, req.Username, req.Email, req.ProfileImageURL)
		if err != nil {
			return err
		}
		updated = rows
		if rows == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"target_user_id": userID})
		return h.audit.Log(r.Context(), tx, actorID, "update_user", "user", userID, string(data))
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "username or email already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update user")
		return
	}
	if updated == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	userID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err := h.users.Delete(r.Context(), tx, userID)
		if err != nil {
			return err
		}
		deleted = rows
		if rows == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"target_user_id": userID})
		return h.audit.Log(r.Context(), tx, actorID, "delete_user", "user", userID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminSuspendUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, models.StatusSuspended, "suspend_user")
}

func (h *Handler) AdminUnsuspendUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, models.StatusActive, "unsuspend_user")
}

func (h *Handler) setUserStatus(w http.ResponseWriter, r *http.Request, status, action string) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	userID := chi.URLParam(r, "id")
	var updated int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err := h.users.SetStatus(r.Context(), tx, userID, status)
		if err != nil {
			return err
		}
		updated = rows
		if rows == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"target_user_id": userID, "status": status})
		return h.audit.Log(r.Context(), tx, actorID, action, "user", userID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update status")
		return
	}
	if updated == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parsePositiveInt(query.Get("limit"), 50)
	page := parsePositiveInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	records, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(records))
	for _, record := range records {
		normalized = append(normalized, recordResponse(record))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parsePositiveInt(query.Get("limit"), 50)
	page := parsePositiveInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
