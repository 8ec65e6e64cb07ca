package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"netbank/internal/middleware"
	"netbank/internal/models"
	"netbank/internal/services"
	"netbank/internal/validator"
)

type transferRequest struct {
	RecipientName    string `json:"recipient_name"`
	RecipientAccount string `json:"recipient_account"`
	RecipientBank    string `json:"recipient_bank"`
	SwiftCode        string `json:"swift_code"`
	IBAN             string `json:"iban"`
	Country          string `json:"country"`
	BillCategory     string `json:"bill_category"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	TransferType     string `json:"transfer_type"`
	TransferDate     string `json:"transfer_date"`
	Reference        string `json:"reference"`
}

func (h *Handler) TransferLocal(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, models.TransferLocal)
}

func (h *Handler) TransferInternational(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, models.TransferInternational)
}

func (h *Handler) PayBill(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, models.TransferBill)
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request, kind string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	// Recipient fields are opaque text; nobody verifies the account exists.
	if err := validator.Required(req.RecipientName, req.RecipientAccount, req.RecipientBank); err != nil {
		respondError(w, http.StatusBadRequest, "recipient details are required")
		return
	}
	if kind == models.TransferBill && req.BillCategory == "" {
		respondError(w, http.StatusBadRequest, "bill_category is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transferDate, err := validator.ParseTransferDate(req.TransferDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transfer_date")
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	transferType := req.TransferType
	if transferType == "" {
		transferType = "Personal"
	}

	serviceReq := services.TransferRequest{
		UserID:           userID,
		Kind:             kind,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		RecipientBank:    req.RecipientBank,
		AmountMinor:      amountMinor,
		Currency:         currency,
		TransferType:     transferType,
		TransferDate:     transferDate,
		Reference:        req.Reference,
	}
	if kind == models.TransferInternational {
		serviceReq.SwiftCode = optional(req.SwiftCode)
		serviceReq.IBAN = optional(req.IBAN)
		serviceReq.Country = optional(req.Country)
	}
	if kind == models.TransferBill {
		serviceReq.BillCategory = optional(req.BillCategory)
	}

	record, err := h.service.Transfer(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		case errors.Is(err, services.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "checking account not found")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			respondError(w, http.StatusInternalServerError, "transfer_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, recordResponse(record))
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page := parsePositiveInt(query.Get("page"), 1)
	limit := parsePositiveInt(query.Get("limit"), 20)
	offset := (page - 1) * limit

	numbers, err := h.accounts.NumbersByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	records, err := h.transactions.ListByAccounts(r.Context(), numbers, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	total, err := h.transactions.CountByAccounts(r.Context(), numbers)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(records))
	for _, record := range records {
		normalized = append(normalized, recordResponse(record))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": normalized,
		"page":         page,
		"limit":        limit,
		"total_pages":  (total + limit - 1) / limit,
	})
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
