package solprogram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"synid/chainsol/chainsoltest"
)

func TestHandleGetPDAs(t *testing.T) {
	client := newTestClient(t, nil)
	owner := solana.NewWallet().PublicKey()

	rec := httptest.NewRecorder()
	client.HandleGetPDAs(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/pdas?owner="+owner.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body PDASet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	expected, err := client.DerivePDAs(owner)
	require.NoError(t, err)
	assert.Equal(t, *expected, body)

	rec = httptest.NewRecorder()
	client.HandleGetPDAs(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/pdas", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetConfig(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound)
		client := newTestClient(t, m)

		rec := httptest.NewRecorder()
		client.HandleGetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/config", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("garbage data", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything).
			Return(chainsoltest.Account(testProgramID, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}), nil)
		client := newTestClient(t, m)

		rec := httptest.NewRecorder()
		client.HandleGetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/config", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("initialized", func(t *testing.T) {
		cfg := Config{
			Authority: solana.NewWallet().PublicKey(),
			MintPrice: 0,
			AccessFee: DefaultAccessFee,
			Treasury:  solana.NewWallet().PublicKey(),
			Bump:      255,
		}
		m := &chainsoltest.MockRPC{}
		m.On("GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything).
			Return(chainsoltest.Account(testProgramID, encodeAccount(t, ConfigAccountDisc, &cfg)), nil)
		client := newTestClient(t, m)

		rec := httptest.NewRecorder()
		client.HandleGetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/config", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, cfg.Authority.String(), body["authority"])
		assert.Equal(t, "0.0005", body["access_fee_sol"])
		assert.Equal(t, float64(DefaultAccessFee), body["access_fee"])
		assert.Equal(t, DefaultProgramID, body["program_id"])
	})
}

func TestHandleGetSynid(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	record := SynidAccount{Owner: owner, EncryptedCid: "cid", ReputationScore: 50, Verified: true}

	m := &chainsoltest.MockRPC{}
	synidPDA, _, err := DeriveSynidPDA(testProgramID, owner)
	require.NoError(t, err)
	m.On("GetAccountInfoWithOpts", mock.Anything, synidPDA, mock.Anything).
		Return(chainsoltest.Account(testProgramID, encodeAccount(t, SynidAccountDisc, &record)), nil)
	client := newTestClient(t, m)

	rec := httptest.NewRecorder()
	client.HandleGetSynid(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/account?owner="+owner.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body SynidAccount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, record, body)
}

func TestHandleGetAccess(t *testing.T) {
	synid := solana.NewWallet().PublicKey()
	requester := solana.NewWallet().PublicKey()
	requestPDA, _, err := DeriveAccessRequestPDA(testProgramID, synid, requester)
	require.NoError(t, err)
	grantPDA, _, err := DeriveAccessGrantPDA(testProgramID, synid, requester)
	require.NoError(t, err)
	path := "/api/v1/synid/access?synid=" + synid.String() + "&requester=" + requester.String()

	t.Run("request only", func(t *testing.T) {
		request := AccessRequest{
			Synid:          synid,
			Requester:      requester,
			Fields:         []string{"email"},
			OfferedPayment: DefaultAccessFee,
			Status:         AccessStatusPending,
		}
		m := &chainsoltest.MockRPC{}
		m.On("GetAccountInfoWithOpts", mock.Anything, requestPDA, mock.Anything).
			Return(chainsoltest.Account(testProgramID, encodeAccount(t, AccessRequestAccountDisc, &request)), nil)
		m.On("GetAccountInfoWithOpts", mock.Anything, grantPDA, mock.Anything).Return(nil, rpc.ErrNotFound)
		client := newTestClient(t, m)

		rec := httptest.NewRecorder()
		client.HandleGetAccess(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body["grant"])
		got, ok := body["request"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "pending", got["status"])
		assert.Equal(t, requester.String(), got["requester"])
	})

	t.Run("none", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound)
		client := newTestClient(t, m)

		rec := httptest.NewRecorder()
		client.HandleGetAccess(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rpc failure", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)
		client := newTestClient(t, m)

		rec := httptest.NewRecorder()
		client.HandleGetAccess(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing requester", func(t *testing.T) {
		client := newTestClient(t, nil)
		rec := httptest.NewRecorder()
		client.HandleGetAccess(rec, httptest.NewRequest(http.MethodGet, "/api/v1/synid/access?synid="+synid.String(), nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
