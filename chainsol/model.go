package chainsol

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// FundingResult - Outcome of the balance check / airdrop flow
type FundingResult struct {
	OperationID   string           `json:"operation_id,omitempty"`
	Wallet        solana.PublicKey `json:"wallet"`
	StartLamports uint64           `json:"start_lamports"`
	Threshold     uint64           `json:"threshold"`
	Airdropped    bool             `json:"airdropped"`
	AirdropSig    string           `json:"airdrop_signature,omitempty"`
	FinalLamports uint64           `json:"final_lamports"`
	ExplorerURL   string           `json:"explorer_url,omitempty"`
}

// SubmitResult - Response after a signed transaction is sent and confirmed
type SubmitResult struct {
	OperationID string `json:"operation_id"`
	Signature   string `json:"signature"`
	Status      string `json:"status"` // pending, confirmed, failed
	ExplorerURL string `json:"explorer_url,omitempty"`
}

// BalanceResponse - Response for balance lookups
type BalanceResponse struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	SOL      string `json:"sol"`
}

// TransactionStatusResponse - Response status transaction
type TransactionStatusResponse struct {
	Signature     string  `json:"signature"`
	Status        string  `json:"status"` // processed, confirmed, finalized, failed, not_found
	Confirmations *uint64 `json:"confirmations,omitempty"`
	Slot          uint64  `json:"slot"`
	Error         *string `json:"error,omitempty"`
	ExplorerURL   string  `json:"explorer_url"`
}

// ErrorResponse - Standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Transaction kinds recorded in the history store.
const (
	KindAirdrop          = "airdrop"
	KindInitialize       = "initialize"
	KindUpdateConfig     = "update_config"
	KindVerifyIdentity   = "verify_identity"
	KindUpdateReputation = "update_reputation"
	KindWithdrawTreasury = "withdraw_treasury"
)

// Transaction statuses recorded in the history store.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// TransactionHistory - one row per submitted transaction
type TransactionHistory struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OperationID     string     `gorm:"uniqueIndex;size:36" json:"operation_id"`
	Kind            string     `gorm:"index;size:32" json:"kind"`
	Signer          string     `gorm:"index;size:44" json:"signer"`
	Target          string     `gorm:"index;size:44" json:"target"`
	Amount          uint64     `json:"amount"`
	Details         string     `gorm:"type:text" json:"details,omitempty"`
	Signature       string     `gorm:"index;size:88" json:"signature"`
	Status          string     `gorm:"index;size:20" json:"status"`
	RecentBlockhash string     `gorm:"size:44" json:"recent_blockhash,omitempty"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

func (TransactionHistory) TableName() string {
	return "transaction_histories"
}
