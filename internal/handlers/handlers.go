package handlers

import (
	"encoding/json"
	"net/http"

	"netbank/internal/models"
	"netbank/internal/money"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// recordResponse renders a transaction record with the amount formatted as a
// decimal string rather than raw minor units.
func recordResponse(record models.TransactionRecord) map[string]any {
	response := map[string]any{
		"id":                record.ID,
		"kind":              record.Kind,
		"sender_account":    record.SenderAccount,
		"recipient_name":    record.RecipientName,
		"recipient_account": record.RecipientAccount,
		"recipient_bank":    record.RecipientBank,
		"amount":            money.FormatMinor(record.Amount),
		"currency":          record.Currency,
		"transfer_type":     record.TransferType,
		"transfer_date":     record.TransferDate.Format("2006-01-02"),
		"reference":         record.Reference,
		"status":            record.Status,
		"direction":         record.Direction,
		"created_at":        record.CreatedAt,
	}
	if record.SwiftCode != nil {
		response["swift_code"] = *record.SwiftCode
	}
	if record.IBAN != nil {
		response["iban"] = *record.IBAN
	}
	if record.Country != nil {
		response["country"] = *record.Country
	}
	if record.BillCategory != nil {
		response["bill_category"] = *record.BillCategory
	}
	return response
}

func accountResponse(account models.Account) map[string]any {
	return map[string]any{
		"id":         account.ID,
		"type":       account.Type,
		"number":     account.Number,
		"balance":    money.FormatMinor(account.Balance),
		"created_at": account.CreatedAt,
	}
}

func userResponse(user models.User) map[string]any {
	response := map[string]any{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"status":     user.Status,
		"created_at": user.CreatedAt,
	}
	if user.ProfileImageURL != nil {
		response["profile_image_url"] = *user.ProfileImageURL
	}
	return response
}

func cardResponse(card models.Card) map[string]any {
	// Full details including CVV, per the demo contract. No masking.
	return map[string]any{
		"id":         card.ID,
		"type":       card.Type,
		"number":     card.Number,
		"cvv":        card.CVV,
		"expiry":     card.Expiry,
		"status":     card.Status,
		"created_at": card.CreatedAt,
	}
}
