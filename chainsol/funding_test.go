package chainsol

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"synid/chainsol/chainsoltest"
)

func newTestChain(t *testing.T, client RPC) *SolChain {
	chain, err := NewSolChain(Config{
		Network:        "localnet",
		ConfirmTimeout: 300 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
	}, client)
	require.NoError(t, err)
	return chain
}

func TestNeedsAirdrop(t *testing.T) {
	assert.True(t, NeedsAirdrop(0, DefaultFundingThreshold))
	assert.True(t, NeedsAirdrop(DefaultFundingThreshold-1, DefaultFundingThreshold))
	assert.False(t, NeedsAirdrop(DefaultFundingThreshold, DefaultFundingThreshold))
	assert.False(t, NeedsAirdrop(DefaultFundingThreshold+1, DefaultFundingThreshold))
}

func TestEnsureFunded_AtThresholdSkipsAirdrop(t *testing.T) {
	m := &chainsoltest.MockRPC{}
	wallet := solana.NewWallet().PublicKey()
	m.On("GetBalance", mock.Anything, wallet, rpc.CommitmentConfirmed).
		Return(chainsoltest.Balance(DefaultFundingThreshold), nil)

	chain := newTestChain(t, m)
	result, err := chain.EnsureFunded(context.Background(), wallet, DefaultFundingThreshold, DefaultAirdropAmount)
	require.NoError(t, err)
	assert.False(t, result.Airdropped)
	assert.Equal(t, DefaultFundingThreshold, result.StartLamports)
	assert.Equal(t, DefaultFundingThreshold, result.FinalLamports)
	m.AssertNotCalled(t, "RequestAirdrop", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureFunded_Airdrops(t *testing.T) {
	m := &chainsoltest.MockRPC{}
	wallet := solana.NewWallet().PublicKey()
	sig := solana.Signature{1, 2, 3}

	m.On("GetBalance", mock.Anything, wallet, rpc.CommitmentConfirmed).
		Return(chainsoltest.Balance(0), nil).Once()
	m.On("GetBalance", mock.Anything, wallet, rpc.CommitmentConfirmed).
		Return(chainsoltest.Balance(DefaultAirdropAmount), nil).Once()
	m.On("RequestAirdrop", mock.Anything, wallet, DefaultAirdropAmount, rpc.CommitmentConfirmed).
		Return(sig, nil).Once()
	m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
		Return(chainsoltest.Status(rpc.ConfirmationStatusConfirmed, nil), nil)

	store := newTestHistory(t)
	chain := newTestChain(t, m).WithHistory(store)

	result, err := chain.EnsureFunded(context.Background(), wallet, DefaultFundingThreshold, DefaultAirdropAmount)
	require.NoError(t, err)
	assert.True(t, result.Airdropped)
	assert.Equal(t, sig.String(), result.AirdropSig)
	assert.Equal(t, uint64(0), result.StartLamports)
	assert.GreaterOrEqual(t, result.FinalLamports, DefaultAirdropAmount)
	assert.Contains(t, result.ExplorerURL, "cluster=custom")

	entry, err := store.Get(context.Background(), result.OperationID)
	require.NoError(t, err)
	assert.Equal(t, KindAirdrop, entry.Kind)
	assert.Equal(t, StatusConfirmed, entry.Status)
	assert.Equal(t, sig.String(), entry.Signature)
	m.AssertExpectations(t)
}

func TestEnsureFunded_AirdropRejected(t *testing.T) {
	m := &chainsoltest.MockRPC{}
	wallet := solana.NewWallet().PublicKey()
	m.On("GetBalance", mock.Anything, wallet, rpc.CommitmentConfirmed).Return(chainsoltest.Balance(10), nil)
	m.On("RequestAirdrop", mock.Anything, wallet, DefaultAirdropAmount, rpc.CommitmentConfirmed).
		Return(solana.Signature{}, errors.New("429 Too Many Requests"))

	store := newTestHistory(t)
	chain := newTestChain(t, m).WithHistory(store)

	_, err := chain.EnsureFunded(context.Background(), wallet, DefaultFundingThreshold, DefaultAirdropAmount)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	entries, err := store.ByAddress(context.Background(), wallet.String(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
}

func TestEnsureFunded_ConfirmationFails(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	sig := solana.Signature{4, 4}

	cases := map[string]struct {
		status   *rpc.GetSignatureStatusesResult
		sentinel error
	}{
		"transaction failed": {
			status:   chainsoltest.Status(rpc.ConfirmationStatusConfirmed, map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}),
			sentinel: ErrTransactionFailed,
		},
		"never confirmed": {
			status:   &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{nil}},
			sentinel: ErrConfirmationTimeout,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := &chainsoltest.MockRPC{}
			m.On("GetBalance", mock.Anything, wallet, rpc.CommitmentConfirmed).Return(chainsoltest.Balance(5), nil).Once()
			m.On("RequestAirdrop", mock.Anything, wallet, DefaultAirdropAmount, rpc.CommitmentConfirmed).Return(sig, nil).Once()
			m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).Return(tc.status, nil)

			store := newTestHistory(t)
			chain := newTestChain(t, m).WithHistory(store)

			result, err := chain.EnsureFunded(context.Background(), wallet, DefaultFundingThreshold, DefaultAirdropAmount)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			require.NotNil(t, result)
			assert.True(t, result.Airdropped)
			assert.Equal(t, sig.String(), result.AirdropSig)
			assert.Contains(t, result.ExplorerURL, sig.String())
			assert.Equal(t, uint64(5), result.FinalLamports)

			entry, err := store.Get(context.Background(), result.OperationID)
			require.NoError(t, err)
			assert.Equal(t, StatusFailed, entry.Status)
			assert.Equal(t, sig.String(), entry.Signature)
			assert.NotEmpty(t, entry.ErrorMessage)
		})
	}
}

func TestWaitForConfirmation(t *testing.T) {
	sig := solana.Signature{9}

	t.Run("failed", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(chainsoltest.Status(rpc.ConfirmationStatusProcessed, map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}), nil)
		err := newTestChain(t, m).WaitForConfirmation(context.Background(), sig)
		assert.ErrorIs(t, err, ErrTransactionFailed)
	})

	t.Run("timeout", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(&rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{nil}}, nil)
		err := newTestChain(t, m).WaitForConfirmation(context.Background(), sig)
		assert.ErrorIs(t, err, ErrConfirmationTimeout)
	})

	t.Run("processed is not confirmed", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(chainsoltest.Status(rpc.ConfirmationStatusProcessed, nil), nil)
		err := newTestChain(t, m).WaitForConfirmation(context.Background(), sig)
		assert.ErrorIs(t, err, ErrConfirmationTimeout)
	})

	t.Run("finalized", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(chainsoltest.Status(rpc.ConfirmationStatusFinalized, nil), nil)
		assert.NoError(t, newTestChain(t, m).WaitForConfirmation(context.Background(), sig))
	})

	t.Run("caller cancelled", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(chainsoltest.Status(rpc.ConfirmationStatusProcessed, nil), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newTestChain(t, m).WaitForConfirmation(ctx, sig)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrConfirmationTimeout)
	})

	t.Run("caller deadline shorter than confirm timeout", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(chainsoltest.Status(rpc.ConfirmationStatusProcessed, nil), nil)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err := newTestChain(t, m).WaitForConfirmation(ctx, sig)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, ErrConfirmationTimeout)
	})

	t.Run("rpc error", func(t *testing.T) {
		m := &chainsoltest.MockRPC{}
		m.On("GetSignatureStatuses", mock.Anything, true, []solana.Signature{sig}).
			Return(nil, errors.New("connection refused"))
		err := newTestChain(t, m).WaitForConfirmation(context.Background(), sig)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConfirmationTimeout)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

// fakeCluster answers the JSON-RPC methods used by the funding flow and
// credits airdrops immediately.
type fakeCluster struct {
	mu       sync.Mutex
	balances map[string]uint64
	airdrops int
	sig      solana.Signature
}

type fakeRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (c *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req fakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var result interface{}
	switch req.Method {
	case "getHealth":
		result = "ok"
	case "getBalance":
		var address string
		json.Unmarshal(req.Params[0], &address)
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   c.balances[address],
		}
	case "requestAirdrop":
		var address string
		var lamports uint64
		json.Unmarshal(req.Params[0], &address)
		json.Unmarshal(req.Params[1], &lamports)
		c.balances[address] += lamports
		c.airdrops++
		result = c.sig.String()
	case "getSignatureStatuses":
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value": []interface{}{
				map[string]interface{}{
					"slot":               1,
					"confirmations":      nil,
					"err":                nil,
					"confirmationStatus": "confirmed",
				},
			},
		}
	default:
		http.Error(w, "unexpected method "+req.Method, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func TestEnsureFunded_AgainstCluster(t *testing.T) {
	cluster := &fakeCluster{balances: map[string]uint64{}, sig: solana.Signature{7, 7, 7}}
	server := httptest.NewServer(cluster)
	defer server.Close()

	chain, err := NewSolChain(Config{
		RPCURL:         server.URL,
		Network:        "localnet",
		ConfirmTimeout: 5 * time.Second,
		PollInterval:   10 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, chain.HealthCheck(context.Background()))

	wallet := solana.NewWallet().PublicKey()
	result, err := chain.EnsureFunded(context.Background(), wallet, DefaultFundingThreshold, DefaultAirdropAmount)
	require.NoError(t, err)
	assert.True(t, result.Airdropped)
	assert.Equal(t, uint64(0), result.StartLamports)
	assert.GreaterOrEqual(t, result.FinalLamports, DefaultAirdropAmount)

	// A funded wallet is left alone.
	result, err = chain.EnsureFunded(context.Background(), wallet, DefaultFundingThreshold, DefaultAirdropAmount)
	require.NoError(t, err)
	assert.False(t, result.Airdropped)
	assert.Equal(t, 1, cluster.airdrops)
}
