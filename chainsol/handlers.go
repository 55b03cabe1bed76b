package chainsol

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// HandleGetBalance - GET /api/v1/sol/balance?address=xxx
func (p *SolChain) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		RespondError(w, "address parameter required", http.StatusBadRequest)
		return
	}
	account, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		RespondError(w, "invalid address: "+err.Error(), http.StatusBadRequest)
		return
	}
	lamports, err := p.GetBalance(r.Context(), account)
	if err != nil {
		RespondError(w, err.Error(), http.StatusBadGateway)
		return
	}
	RespondJSON(w, BalanceResponse{
		Address:  address,
		Lamports: lamports,
		SOL:      FormatSOL(lamports),
	}, http.StatusOK)
}

// HandleGetTransactionStatus - GET /api/v1/sol/transaction/status?signature=xxx
func (p *SolChain) HandleGetTransactionStatus(w http.ResponseWriter, r *http.Request) {
	signature := r.URL.Query().Get("signature")
	if signature == "" {
		RespondError(w, "signature parameter required", http.StatusBadRequest)
		return
	}
	if _, err := solana.SignatureFromBase58(signature); err != nil {
		RespondError(w, "invalid signature: "+err.Error(), http.StatusBadRequest)
		return
	}
	result, err := p.GetTransactionStatus(r.Context(), signature)
	if err != nil {
		RespondError(w, err.Error(), http.StatusBadGateway)
		return
	}
	RespondJSON(w, result, http.StatusOK)
}

// HandleGetTransactionHistory - GET /api/v1/sol/transaction/history?address=xxx&limit=10
func (p *SolChain) HandleGetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	if p.history == nil {
		RespondError(w, "transaction history not configured", http.StatusNotImplemented)
		return
	}
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			RespondError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > 100 {
		limit = 100
	}
	histories, err := p.history.ByAddress(r.Context(), r.URL.Query().Get("address"), limit)
	if err != nil {
		RespondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondJSON(w, histories, http.StatusOK)
}

// HandleHealth - GET /health
func (p *SolChain) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := p.HealthCheck(r.Context()); err != nil {
		RespondError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func RespondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func RespondError(w http.ResponseWriter, message string, status int) {
	RespondJSON(w, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}, status)
}
