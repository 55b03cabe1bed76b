package solprogram

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"synid/chainsol"
)

// ConfigResponse - config account plus SOL renderings of the prices
type ConfigResponse struct {
	Address      solana.PublicKey `json:"address"`
	ProgramID    solana.PublicKey `json:"program_id"`
	MintPriceSOL string           `json:"mint_price_sol"`
	AccessFeeSOL string           `json:"access_fee_sol"`
	*Config
}

// AccessResponse - request and grant of one requester on a record. Either
// is null when the account does not exist.
type AccessResponse struct {
	Synid     solana.PublicKey `json:"synid"`
	Requester solana.PublicKey `json:"requester"`
	Request   *AccessRequest   `json:"request"`
	Grant     *AccessGrant     `json:"grant"`
}

func ownerParam(w http.ResponseWriter, r *http.Request) (solana.PublicKey, bool) {
	return pubkeyParam(w, r, "owner")
}

func pubkeyParam(w http.ResponseWriter, r *http.Request, name string) (solana.PublicKey, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		chainsol.RespondError(w, name+" parameter required", http.StatusBadRequest)
		return solana.PublicKey{}, false
	}
	pubkey, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		chainsol.RespondError(w, "invalid "+name+": "+err.Error(), http.StatusBadRequest)
		return solana.PublicKey{}, false
	}
	return pubkey, true
}

func respondLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chainsol.ErrAccountNotFound):
		chainsol.RespondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidAccountData):
		chainsol.RespondError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		chainsol.RespondError(w, err.Error(), http.StatusBadGateway)
	}
}

// HandleGetPDAs - GET /api/v1/synid/pdas?owner=xxx
func (c *Client) HandleGetPDAs(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}
	set, err := c.DerivePDAs(owner)
	if err != nil {
		chainsol.RespondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	chainsol.RespondJSON(w, set, http.StatusOK)
}

// HandleGetConfig - GET /api/v1/synid/config
func (c *Client) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := c.GetConfig(r.Context())
	if err != nil {
		respondLookupError(w, err)
		return
	}
	configPDA, _, err := c.DeriveConfigPDA()
	if err != nil {
		chainsol.RespondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	chainsol.RespondJSON(w, ConfigResponse{
		Address:      configPDA,
		ProgramID:    c.programID,
		MintPriceSOL: chainsol.FormatSOL(cfg.MintPrice),
		AccessFeeSOL: chainsol.FormatSOL(cfg.AccessFee),
		Config:       cfg,
	}, http.StatusOK)
}

// HandleGetSynid - GET /api/v1/synid/account?owner=xxx
func (c *Client) HandleGetSynid(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}
	account, err := c.GetSynid(r.Context(), owner)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	chainsol.RespondJSON(w, account, http.StatusOK)
}

// HandleGetAccess - GET /api/v1/synid/access?synid=xxx&requester=yyy
func (c *Client) HandleGetAccess(w http.ResponseWriter, r *http.Request) {
	synid, ok := pubkeyParam(w, r, "synid")
	if !ok {
		return
	}
	requester, ok := pubkeyParam(w, r, "requester")
	if !ok {
		return
	}

	response := AccessResponse{Synid: synid, Requester: requester}
	request, err := c.GetAccessRequest(r.Context(), synid, requester)
	if err != nil && !errors.Is(err, chainsol.ErrAccountNotFound) {
		respondLookupError(w, err)
		return
	}
	response.Request = request

	grant, err := c.GetAccessGrant(r.Context(), synid, requester)
	if err != nil && !errors.Is(err, chainsol.ErrAccountNotFound) {
		respondLookupError(w, err)
		return
	}
	response.Grant = grant

	if response.Request == nil && response.Grant == nil {
		chainsol.RespondError(w, "no access request or grant for "+requester.String(), http.StatusNotFound)
		return
	}
	chainsol.RespondJSON(w, response, http.StatusOK)
}
