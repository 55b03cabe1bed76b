package solprogram

import (
	"github.com/gagliardetto/solana-go"

	"synid/chainsol"
)

// AccessStatus - state of an access request
type AccessStatus uint8

const (
	AccessStatusPending AccessStatus = iota
	AccessStatusApproved
	AccessStatusDenied
	AccessStatusExpired
)

func (s AccessStatus) String() string {
	switch s {
	case AccessStatusPending:
		return "pending"
	case AccessStatusApproved:
		return "approved"
	case AccessStatusDenied:
		return "denied"
	case AccessStatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func (s AccessStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Config - program wide settings account. Field order is the on-chain layout.
type Config struct {
	Authority    solana.PublicKey `json:"authority"`
	MintCount    uint64           `json:"mint_count"`
	MintPrice    uint64           `json:"mint_price"`
	AccessFee    uint64           `json:"access_fee"`
	Treasury     solana.PublicKey `json:"treasury"`
	Paused       bool             `json:"paused"`
	TotalRevenue uint64           `json:"total_revenue"`
	Bump         uint8            `json:"bump"`
}

// SynidAccount - identity record of one owner
type SynidAccount struct {
	Owner             solana.PublicKey `json:"owner"`
	Mint              solana.PublicKey `json:"mint"`
	EncryptedCid      string           `json:"encrypted_cid"`
	EncryptionKeyHash [32]byte         `json:"encryption_key_hash"`
	CreatedAt         int64            `json:"created_at"`
	UpdatedAt         int64            `json:"updated_at"`
	TokenID           uint64           `json:"token_id"`
	Soulbound         bool             `json:"soulbound"`
	AccessCount       uint64           `json:"access_count"`
	TotalEarnings     uint64           `json:"total_earnings"`
	ReputationScore   uint16           `json:"reputation_score"`
	Verified          bool             `json:"verified"`
	Bump              uint8            `json:"bump"`
}

// AccessRequest - pending request to read fields of an identity
type AccessRequest struct {
	Synid          solana.PublicKey `json:"synid"`
	Requester      solana.PublicKey `json:"requester"`
	Fields         []string         `json:"fields"`
	OfferedPayment uint64           `json:"offered_payment"`
	CreatedAt      int64            `json:"created_at"`
	ExpiresAt      int64            `json:"expires_at"`
	Status         AccessStatus     `json:"status"`
	Bump           uint8            `json:"bump"`
}

// AccessGrant - approved access
type AccessGrant struct {
	Synid     solana.PublicKey `json:"synid"`
	Requester solana.PublicKey `json:"requester"`
	Fields    []string         `json:"fields"`
	Payment   uint64           `json:"payment"`
	GrantedAt int64            `json:"granted_at"`
	ExpiresAt int64            `json:"expires_at"`
	Active    bool             `json:"active"`
	Bump      uint8            `json:"bump"`
}

// PDASet - the addresses derived for one owner
type PDASet struct {
	Owner         solana.PublicKey `json:"owner"`
	Config        PDA              `json:"config"`
	Synid         PDA              `json:"synid"`
	MintAuthority PDA              `json:"mint_authority"`
	Escrow        PDA              `json:"escrow"`
}

// DerivationReport - PDAs plus the wallet balance
type DerivationReport struct {
	PDASet
	Lamports uint64 `json:"lamports"`
	SOL      string `json:"sol"`
}

// InitializeParams - Parameters for initialize
type InitializeParams struct {
	Authority solana.PrivateKey
	MintPrice uint64
	AccessFee uint64
	DryRun    bool
}

// InitializeResult - Response after initialize
type InitializeResult struct {
	ConfigPDA          solana.PublicKey `json:"config_pda"`
	Bump               uint8            `json:"bump"`
	Authority          solana.PublicKey `json:"authority"`
	AlreadyInitialized bool             `json:"already_initialized"`
	TransactionResult
}

// TransactionResult - outcome of a submitted (or dry-run) transaction
type TransactionResult struct {
	OperationID       string `json:"operation_id,omitempty"`
	Signature         string `json:"signature,omitempty"`
	Status            string `json:"status,omitempty"`
	ExplorerURL       string `json:"explorer_url,omitempty"`
	SignedTransaction string `json:"signed_transaction,omitempty"` // dry-run only, base64
}

func newTransactionResult(submit *chainsol.SubmitResult) TransactionResult {
	if submit == nil {
		return TransactionResult{}
	}
	return TransactionResult{
		OperationID: submit.OperationID,
		Signature:   submit.Signature,
		Status:      submit.Status,
		ExplorerURL: submit.ExplorerURL,
	}
}
