package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"synid/chainsol"
	"synid/chainsol/chainsoltest"
	"synid/solprogram"
)

func newTestRouter(t *testing.T, m *chainsoltest.MockRPC) http.Handler {
	chain, err := chainsol.NewSolChain(chainsol.Config{
		Network:        "localnet",
		ConfirmTimeout: time.Second,
		PollInterval:   10 * time.Millisecond,
	}, m)
	require.NoError(t, err)
	client, err := solprogram.NewClient(chain, "")
	require.NoError(t, err)
	return newRouter(client)
}

func TestRouter(t *testing.T) {
	m := &chainsoltest.MockRPC{}
	wallet := solana.NewWallet().PublicKey()
	m.On("GetHealth", mock.Anything).Return("ok", nil)
	m.On("GetBalance", mock.Anything, wallet, rpc.CommitmentConfirmed).Return(chainsoltest.Balance(2_000_000_000), nil)
	m.On("GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound)
	router := newTestRouter(t, m)

	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/sol/balance?address=" + wallet.String(), http.StatusOK},
		{http.MethodGet, "/api/v1/synid/pdas?owner=" + wallet.String(), http.StatusOK},
		{http.MethodGet, "/api/v1/synid/config", http.StatusNotFound},
		{http.MethodGet, "/api/v1/synid/access?synid=" + wallet.String() + "&requester=" + wallet.String(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/synid/access?synid=" + wallet.String(), http.StatusBadRequest},
		{http.MethodGet, "/api/v1/sol/transaction/history", http.StatusNotImplemented},
		{http.MethodPost, "/api/v1/synid/pdas", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sol/balance?address="+wallet.String(), nil))
	var balance chainsol.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	assert.Equal(t, "2", balance.SOL)
}

func TestRootCmd_Validation(t *testing.T) {
	cases := map[string][]string{
		"bad commitment":   {"smoke", "--commitment", "eventually"},
		"empty update":     {"update-config"},
		"bad fee":          {"update-config", "--access-fee", "-1"},
		"bad delta":        {"update-reputation", solana.NewWallet().PublicKey().String(), "40000"},
		"missing keypair":  {"deploy", "--keypair", "/nonexistent/id.json"},
		"history disabled": {"history"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs(args)
			assert.Error(t, cmd.Execute())
		})
	}
}
