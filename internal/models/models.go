package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive    = "active"
	StatusSuspended = "suspended"

	AccountChecking   = "Checking"
	AccountSavings    = "Savings"
	AccountInvestment = "Investment"

	TransferLocal         = "local"
	TransferInternational = "international"
	TransferBill          = "bill"
	TransferFund          = "fund"

	TxPending  = "pending"
	TxApproved = "approved"

	DirectionDebit  = "debit"
	DirectionCredit = "credit"

	CardCredit = "credit"
	CardDebit  = "debit"

	CardActive = "active"
)

type User struct {
	ID              string    `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	Role            string    `db:"role" json:"role"`
	Status          string    `db:"status" json:"status"`
	ProfileImageURL *string   `db:"profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type Account struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Number    string    `db:"number" json:"number"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TransactionRecord logs a funds movement. Sender and recipient accounts are
// carried by number, not by foreign key; the recipient need not exist here.
type TransactionRecord struct {
	ID               string    `db:"id" json:"id"`
	Kind             string    `db:"kind" json:"kind"`
	SenderAccount    string    `db:"sender_account" json:"sender_account"`
	RecipientName    string    `db:"recipient_name" json:"recipient_name"`
	RecipientAccount string    `db:"recipient_account" json:"recipient_account"`
	RecipientBank    string    `db:"recipient_bank" json:"recipient_bank"`
	SwiftCode        *string   `db:"swift_code" json:"swift_code,omitempty"`
	IBAN             *string   `db:"iban" json:"iban,omitempty"`
	Country          *string   `db:"country" json:"country,omitempty"`
	BillCategory     *string   `db:"bill_category" json:"bill_category,omitempty"`
	Amount           int64     `db:"amount" json:"amount"`
	Currency         string    `db:"currency" json:"currency"`
	TransferType     string    `db:"transfer_type" json:"transfer_type"`
	TransferDate     time.Time `db:"transfer_date" json:"transfer_date"`
	Reference        string    `db:"reference" json:"reference"`
	Status           string    `db:"status" json:"status"`
	Direction        string    `db:"direction" json:"direction"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type Card struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Number    string    `db:"number" json:"number"`
	CVV       string    `db:"cvv" json:"cvv"`
	Expiry    string    `db:"expiry" json:"expiry"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ApprovalJob is a persisted "flip to approved" task, replacing the in-memory
// timer of the original demo so approvals survive restarts.
type ApprovalJob struct {
	ID            string     `db:"id" json:"id"`
	TransactionID string     `db:"transaction_id" json:"transaction_id"`
	UserID        string     `db:"user_id" json:"user_id"`
	DueAt         time.Time  `db:"due_at" json:"due_at"`
	ProcessedAt   *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}
