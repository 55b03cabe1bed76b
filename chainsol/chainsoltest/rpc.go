// Package chainsoltest provides test doubles for the chainsol RPC seam.
package chainsoltest

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"
)

// MockRPC is a testify mock satisfying chainsol.RPC.
type MockRPC struct {
	mock.Mock
}

func (m *MockRPC) GetHealth(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRPC) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	args := m.Called(ctx, account, commitment)
	out, _ := args.Get(0).(*rpc.GetBalanceResult)
	return out, args.Error(1)
}

func (m *MockRPC) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error) {
	args := m.Called(ctx, account, lamports, commitment)
	sig, _ := args.Get(0).(solana.Signature)
	return sig, args.Error(1)
}

func (m *MockRPC) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	args := m.Called(ctx, searchTransactionHistory, transactionSignatures)
	out, _ := args.Get(0).(*rpc.GetSignatureStatusesResult)
	return out, args.Error(1)
}

func (m *MockRPC) GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, account, opts)
	out, _ := args.Get(0).(*rpc.GetAccountInfoResult)
	return out, args.Error(1)
}

func (m *MockRPC) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	args := m.Called(ctx, commitment)
	out, _ := args.Get(0).(*rpc.GetLatestBlockhashResult)
	return out, args.Error(1)
}

func (m *MockRPC) SendTransaction(ctx context.Context, transaction *solana.Transaction) (solana.Signature, error) {
	args := m.Called(ctx, transaction)
	sig, _ := args.Get(0).(solana.Signature)
	return sig, args.Error(1)
}

// Balance builds a getBalance result.
func Balance(lamports uint64) *rpc.GetBalanceResult {
	return &rpc.GetBalanceResult{Value: lamports}
}

// Status builds a single-entry getSignatureStatuses result.
func Status(status rpc.ConfirmationStatusType, txErr interface{}) *rpc.GetSignatureStatusesResult {
	return &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{
			{Slot: 1, ConfirmationStatus: status, Err: txErr},
		},
	}
}

// Account builds a getAccountInfo result holding data.
func Account(owner solana.PublicKey, data []byte) *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Lamports: 1,
			Owner:    owner,
			Data:     rpc.DataBytesOrJSONFromBytes(data),
		},
	}
}

// Blockhash builds a getLatestBlockhash result.
func Blockhash(hash solana.Hash) *rpc.GetLatestBlockhashResult {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: hash, LastValidBlockHeight: 100},
	}
}
