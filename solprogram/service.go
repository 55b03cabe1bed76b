package solprogram

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"synid/chainsol"
)

// InitializeConfig - One-time config setup. Does nothing when the config
// account already exists.
func (c *Client) InitializeConfig(ctx context.Context, params InitializeParams) (*InitializeResult, error) {
	if len(params.Authority) == 0 {
		return nil, errors.New("authority keypair required")
	}
	authority := params.Authority.PublicKey()

	configPDA, bump, err := c.DeriveConfigPDA()
	if err != nil {
		return nil, err
	}
	log := c.log.WithFields(logrus.Fields{
		"authority":  authority.String(),
		"config_pda": configPDA.String(),
	})

	result := &InitializeResult{
		ConfigPDA: configPDA,
		Bump:      bump,
		Authority: authority,
	}

	// Check if already initialized
	exists, err := c.chain.AccountExists(ctx, configPDA)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check config account")
	}
	if exists {
		log.Info("config already initialized")
		result.AlreadyInitialized = true
		return result, nil
	}

	instruction, err := BuildInitializeInstruction(c.programID, authority, params.MintPrice, params.AccessFee)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build instruction")
	}

	log.WithFields(logrus.Fields{
		"mint_price": params.MintPrice,
		"access_fee": params.AccessFee,
	}).Info("initializing config")

	tx, err := c.send(ctx, instruction, params.Authority, params.DryRun, &chainsol.TransactionHistory{
		Kind:    chainsol.KindInitialize,
		Signer:  authority.String(),
		Target:  configPDA.String(),
		Amount:  params.AccessFee,
		Details: fmt.Sprintf("mint_price=%d access_fee=%d", params.MintPrice, params.AccessFee),
	})
	if tx != nil {
		result.TransactionResult = *tx
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// UpdateConfig - Change mint price, access fee or pause flag. Unset fields
// keep their on-chain value.
func (c *Client) UpdateConfig(ctx context.Context, authority solana.PrivateKey, args UpdateConfigArgs, dryRun bool) (*TransactionResult, error) {
	if len(authority) == 0 {
		return nil, errors.New("authority keypair required")
	}
	instruction, err := BuildUpdateConfigInstruction(c.programID, authority.PublicKey(), args)
	if err != nil {
		return nil, err
	}
	configPDA, _, err := c.DeriveConfigPDA()
	if err != nil {
		return nil, err
	}

	return c.send(ctx, instruction, authority, dryRun, &chainsol.TransactionHistory{
		Kind:    chainsol.KindUpdateConfig,
		Signer:  authority.PublicKey().String(),
		Target:  configPDA.String(),
		Details: describeUpdateConfig(args),
	})
}

// VerifyIdentity - Mark owner's record verified
func (c *Client) VerifyIdentity(ctx context.Context, authority solana.PrivateKey, owner solana.PublicKey, dryRun bool) (*TransactionResult, error) {
	if len(authority) == 0 {
		return nil, errors.New("authority keypair required")
	}
	instruction, err := BuildVerifyIdentityInstruction(c.programID, authority.PublicKey(), owner)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, instruction, authority, dryRun, &chainsol.TransactionHistory{
		Kind:   chainsol.KindVerifyIdentity,
		Signer: authority.PublicKey().String(),
		Target: owner.String(),
	})
}

// UpdateReputation - Add delta (may be negative) to owner's reputation.
// The score lives in 0..MaxReputationScore, so larger deltas are rejected.
func (c *Client) UpdateReputation(ctx context.Context, authority solana.PrivateKey, owner solana.PublicKey, delta int16, dryRun bool) (*TransactionResult, error) {
	if len(authority) == 0 {
		return nil, errors.New("authority keypair required")
	}
	if delta > MaxReputationScore || delta < -MaxReputationScore {
		return nil, errors.Errorf("reputation delta %d outside -%d..%d", delta, MaxReputationScore, MaxReputationScore)
	}
	instruction, err := BuildUpdateReputationInstruction(c.programID, authority.PublicKey(), owner, delta)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, instruction, authority, dryRun, &chainsol.TransactionHistory{
		Kind:    chainsol.KindUpdateReputation,
		Signer:  authority.PublicKey().String(),
		Target:  owner.String(),
		Details: fmt.Sprintf("delta=%d", delta),
	})
}

// WithdrawTreasury - Move lamports from the treasury to the authority
func (c *Client) WithdrawTreasury(ctx context.Context, authority solana.PrivateKey, amount uint64, dryRun bool) (*TransactionResult, error) {
	if len(authority) == 0 {
		return nil, errors.New("authority keypair required")
	}
	cfg, err := c.GetConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	instruction, err := BuildWithdrawTreasuryInstruction(c.programID, authority.PublicKey(), cfg.Treasury, amount)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, instruction, authority, dryRun, &chainsol.TransactionHistory{
		Kind:   chainsol.KindWithdrawTreasury,
		Signer: authority.PublicKey().String(),
		Target: cfg.Treasury.String(),
		Amount: amount,
	})
}

// DerivationReport - PDAs of owner plus its balance
func (c *Client) DerivationReport(ctx context.Context, owner solana.PublicKey) (*DerivationReport, error) {
	set, err := c.DerivePDAs(owner)
	if err != nil {
		return nil, err
	}
	lamports, err := c.chain.GetBalance(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &DerivationReport{
		PDASet:   *set,
		Lamports: lamports,
		SOL:      chainsol.FormatSOL(lamports),
	}, nil
}

// send builds, signs and submits a single instruction paid by signer. In
// dry-run mode the signed transaction is returned base64 encoded instead.
func (c *Client) send(ctx context.Context, instruction solana.Instruction, signer solana.PrivateKey, dryRun bool, entry *chainsol.TransactionHistory) (*TransactionResult, error) {
	tx, err := c.chain.BuildTransaction(ctx, instruction, signer.PublicKey())
	if err != nil {
		return nil, err
	}
	if err := chainsol.SignTransaction(tx, signer); err != nil {
		return nil, err
	}

	if dryRun {
		encoded, err := chainsol.EncodeTransaction(tx)
		if err != nil {
			return nil, err
		}
		c.log.WithField("kind", entry.Kind).Info("dry run, transaction not sent")
		return &TransactionResult{
			Signature:         tx.Signatures[0].String(),
			Status:            "dry_run",
			SignedTransaction: encoded,
		}, nil
	}

	submitted, err := c.chain.SubmitTransaction(ctx, tx, entry)
	if err != nil && ExtractErrorCode(err) != nil {
		err = errors.Wrap(err, ParseSolanaError(err))
	}
	if submitted == nil {
		return nil, err
	}
	result := newTransactionResult(submitted)
	return &result, err
}

func describeUpdateConfig(args UpdateConfigArgs) string {
	desc := ""
	if args.MintPrice != nil {
		desc += fmt.Sprintf("mint_price=%d ", *args.MintPrice)
	}
	if args.AccessFee != nil {
		desc += fmt.Sprintf("access_fee=%d ", *args.AccessFee)
	}
	if args.Paused != nil {
		desc += fmt.Sprintf("paused=%t ", *args.Paused)
	}
	if len(desc) > 0 {
		desc = desc[:len(desc)-1]
	}
	return desc
}
