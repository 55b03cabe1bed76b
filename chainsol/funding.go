package chainsol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultFundingThreshold is the balance below which an airdrop is requested.
	DefaultFundingThreshold = 1 * LamportsPerSOL

	// DefaultAirdropAmount is the amount requested per airdrop.
	DefaultAirdropAmount = 2 * LamportsPerSOL
)

// NeedsAirdrop reports whether balance is strictly below threshold.
func NeedsAirdrop(balance, threshold uint64) bool {
	return balance < threshold
}

// EnsureFunded checks the wallet balance and, when it is below threshold,
// requests an airdrop of amount lamports and waits for it to confirm.
func (p *SolChain) EnsureFunded(ctx context.Context, wallet solana.PublicKey, threshold, amount uint64) (*FundingResult, error) {
	log := p.log.WithField("wallet", wallet.String())

	balance, err := p.GetBalance(ctx, wallet)
	if err != nil {
		return nil, err
	}
	result := &FundingResult{
		Wallet:        wallet,
		StartLamports: balance,
		Threshold:     threshold,
		FinalLamports: balance,
	}
	log.WithFields(logrus.Fields{
		"lamports":  balance,
		"threshold": threshold,
	}).Info("balance checked")

	if !NeedsAirdrop(balance, threshold) {
		log.Info("balance meets threshold, skipping airdrop")
		return result, nil
	}

	entry := &TransactionHistory{
		Kind:   KindAirdrop,
		Signer: wallet.String(),
		Target: wallet.String(),
		Amount: amount,
	}
	opID := p.track(ctx, entry)
	result.OperationID = opID
	log = log.WithField("operation_id", opID)

	log.WithField("lamports", amount).Info("requesting airdrop")
	sig, err := p.RequestAirdrop(ctx, wallet, amount)
	if err != nil {
		p.finish(ctx, opID, "", err)
		return nil, err
	}
	result.Airdropped = true
	result.AirdropSig = sig.String()
	result.ExplorerURL = p.GetExplorerURL(sig.String())

	if err := p.WaitForConfirmation(ctx, sig); err != nil {
		p.finish(ctx, opID, sig.String(), err)
		return result, errors.Wrap(err, "airdrop not confirmed")
	}
	p.finish(ctx, opID, sig.String(), nil)
	log.WithField("signature", sig.String()).Info("airdrop confirmed")

	final, err := p.GetBalance(ctx, wallet)
	if err != nil {
		return result, err
	}
	result.FinalLamports = final
	return result, nil
}
