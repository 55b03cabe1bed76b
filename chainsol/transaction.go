package chainsol

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GetBalance - lamports held by account at the configured commitment
func (p *SolChain) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := p.rpc.GetBalance(ctx, account, p.commitment)
	if err != nil {
		return 0, errors.Wrapf(err, "get balance of %s", account)
	}
	if out == nil {
		return 0, errors.Errorf("empty balance response for %s", account)
	}
	return out.Value, nil
}

// RequestAirdrop - test networks only
func (p *SolChain) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := p.rpc.RequestAirdrop(ctx, account, lamports, p.commitment)
	if err != nil {
		return solana.Signature{}, errors.Wrapf(err, "request airdrop of %d lamports to %s", lamports, account)
	}
	return sig, nil
}

// GetAccount returns ErrAccountNotFound when nothing is stored at address.
func (p *SolChain) GetAccount(ctx context.Context, address solana.PublicKey) (*rpc.Account, error) {
	out, err := p.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: p.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, errors.Wrapf(ErrAccountNotFound, "%s", address)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get account %s", address)
	}
	if out == nil || out.Value == nil {
		return nil, errors.Wrapf(ErrAccountNotFound, "%s", address)
	}
	return out.Value, nil
}

// AccountExists reports whether address holds an account. Lookup failures
// other than "not found" are returned.
func (p *SolChain) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	_, err := p.GetAccount(ctx, address)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BuildTransaction wraps a single instruction into an unsigned transaction
// paid by payer, using the latest finalized blockhash.
func (p *SolChain) BuildTransaction(ctx context.Context, instruction solana.Instruction, payer solana.PublicKey) (*solana.Transaction, error) {
	recent, err := p.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get recent blockhash")
	}
	if recent == nil || recent.Value == nil {
		return nil, errors.New("empty blockhash response")
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}
	return tx, nil
}

// SignTransaction signs tx with signer. Every required signature must be
// the signer's.
func SignTransaction(tx *solana.Transaction, signer solana.PrivateKey) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if signer.PublicKey().Equals(key) {
			return &signer
		}
		return nil
	})
	return errors.Wrap(err, "failed to sign transaction")
}

// EncodeTransaction serializes tx to base64 wire format.
func EncodeTransaction(tx *solana.Transaction) (string, error) {
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize transaction")
	}
	return base64.StdEncoding.EncodeToString(txBytes), nil
}

// SubmitTransaction sends a signed transaction and blocks until it reaches
// the configured commitment. entry, when non-nil, is recorded in the
// history store.
func (p *SolChain) SubmitTransaction(ctx context.Context, tx *solana.Transaction, entry *TransactionHistory) (*SubmitResult, error) {
	if len(tx.Signatures) == 0 {
		return nil, errors.New("transaction is not signed")
	}

	if entry == nil {
		entry = &TransactionHistory{}
	}
	entry.Signature = tx.Signatures[0].String()
	entry.RecentBlockhash = tx.Message.RecentBlockhash.String()
	opID := p.track(ctx, entry)

	log := p.log.WithFields(logrus.Fields{
		"operation_id": opID,
		"kind":         entry.Kind,
		"signature":    entry.Signature,
	})

	sig, err := p.rpc.SendTransaction(ctx, tx)
	if err != nil {
		err = errors.Wrap(err, "failed to send transaction")
		p.finish(ctx, opID, "", err)
		return nil, err
	}
	log.Info("transaction sent, waiting for confirmation")

	result := &SubmitResult{
		OperationID: opID,
		Signature:   sig.String(),
		Status:      StatusPending,
		ExplorerURL: p.GetExplorerURL(sig.String()),
	}
	if err := p.WaitForConfirmation(ctx, sig); err != nil {
		result.Status = StatusFailed
		p.finish(ctx, opID, sig.String(), err)
		return result, err
	}

	result.Status = StatusConfirmed
	p.finish(ctx, opID, sig.String(), nil)
	log.Info("transaction confirmed")
	return result, nil
}

// WaitForConfirmation polls the signature status until the configured
// commitment is reached, the transaction fails, or the confirm timeout
// expires. Cancellation of ctx itself is returned as ctx's error, not as
// ErrConfirmationTimeout.
func (p *SolChain) WaitForConfirmation(parent context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(parent, p.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		out, err := p.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			if ctx.Err() != nil {
				return p.stoppedWaiting(parent, sig)
			}
			return errors.Wrapf(err, "get signature status %s", sig)
		}
		if out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return errors.Wrapf(ErrTransactionFailed, "%s: %v", sig, status.Err)
			}
			if commitmentReached(status.ConfirmationStatus, p.commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return p.stoppedWaiting(parent, sig)
		case <-ticker.C:
		}
	}
}

func (p *SolChain) stoppedWaiting(parent context.Context, sig solana.Signature) error {
	if err := parent.Err(); err != nil {
		return errors.Wrapf(err, "stopped waiting for %s", sig)
	}
	return errors.Wrapf(ErrConfirmationTimeout, "%s after %s", sig, p.confirmTimeout)
}

func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch want {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status != ""
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}

// GetTransactionStatus - Check transaction status
func (p *SolChain) GetTransactionStatus(ctx context.Context, signature string) (*TransactionStatusResponse, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature")
	}

	out, err := p.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, errors.Wrapf(err, "get signature status %s", signature)
	}

	response := &TransactionStatusResponse{
		Signature:   signature,
		Status:      "not_found",
		ExplorerURL: p.GetExplorerURL(signature),
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return response, nil
	}

	status := out.Value[0]
	response.Slot = status.Slot
	response.Confirmations = status.Confirmations
	response.Status = string(status.ConfirmationStatus)
	if status.Err != nil {
		errMsg := fmt.Sprintf("%v", status.Err)
		response.Status = StatusFailed
		response.Error = &errMsg
	}
	return response, nil
}

func (p *SolChain) track(ctx context.Context, entry *TransactionHistory) string {
	if entry.OperationID == "" {
		entry.OperationID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = StatusPending
	}
	if p.history == nil {
		return entry.OperationID
	}
	if err := p.history.Record(ctx, entry); err != nil {
		p.log.WithError(err).WithField("operation_id", entry.OperationID).Warn("failed to record transaction history")
	}
	return entry.OperationID
}

func (p *SolChain) finish(ctx context.Context, operationID, signature string, cause error) {
	if p.history == nil {
		return
	}
	if err := p.history.Finish(ctx, operationID, signature, cause); err != nil {
		p.log.WithError(err).WithField("operation_id", operationID).Warn("failed to update transaction history")
	}
}
