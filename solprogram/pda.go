package solprogram

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// PDA - derived address and its bump
type PDA struct {
	Address solana.PublicKey `json:"address"`
	Bump    uint8            `json:"bump"`
}

func derive(programID solana.PublicKey, name string, seeds ...[]byte) (solana.PublicKey, uint8, error) {
	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, errors.Wrapf(err, "failed to derive %s PDA", name)
	}
	return pda, bump, nil
}

// DeriveConfigPDA derives the program config PDA
func DeriveConfigPDA(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, "config", SeedConfig)
}

// DeriveSynidPDA derives the identity record PDA of owner
func DeriveSynidPDA(programID, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, "synid", SeedSynid, owner.Bytes())
}

// DeriveMintAuthorityPDA derives the mint authority PDA
func DeriveMintAuthorityPDA(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, "mint authority", SeedMintAuthority)
}

// DeriveEscrowPDA derives the access payment escrow PDA
func DeriveEscrowPDA(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, "escrow", SeedEscrow)
}

// DeriveAccessRequestPDA derives the access request PDA of requester on synid
func DeriveAccessRequestPDA(programID, synid, requester solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, "access request", SeedAccessRequest, synid.Bytes(), requester.Bytes())
}

// DeriveAccessGrantPDA derives the access grant PDA of requester on synid
func DeriveAccessGrantPDA(programID, synid, requester solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, "access grant", SeedAccessGrant, synid.Bytes(), requester.Bytes())
}

// DeriveConfigPDA - Derive config PDA
func (c *Client) DeriveConfigPDA() (solana.PublicKey, uint8, error) {
	return DeriveConfigPDA(c.programID)
}

// DeriveSynidPDA - Derive identity record PDA
func (c *Client) DeriveSynidPDA(owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return DeriveSynidPDA(c.programID, owner)
}

// DeriveMintAuthorityPDA - Derive mint authority PDA
func (c *Client) DeriveMintAuthorityPDA() (solana.PublicKey, uint8, error) {
	return DeriveMintAuthorityPDA(c.programID)
}

// DeriveEscrowPDA - Derive escrow PDA
func (c *Client) DeriveEscrowPDA() (solana.PublicKey, uint8, error) {
	return DeriveEscrowPDA(c.programID)
}

// DeriveAccessRequestPDA - Derive access request PDA
func (c *Client) DeriveAccessRequestPDA(synid, requester solana.PublicKey) (solana.PublicKey, uint8, error) {
	return DeriveAccessRequestPDA(c.programID, synid, requester)
}

// DeriveAccessGrantPDA - Derive access grant PDA
func (c *Client) DeriveAccessGrantPDA(synid, requester solana.PublicKey) (solana.PublicKey, uint8, error) {
	return DeriveAccessGrantPDA(c.programID, synid, requester)
}

// DerivePDAs derives the four program addresses tied to owner.
func (c *Client) DerivePDAs(owner solana.PublicKey) (*PDASet, error) {
	set := &PDASet{Owner: owner}
	var err error
	if set.Config.Address, set.Config.Bump, err = c.DeriveConfigPDA(); err != nil {
		return nil, err
	}
	if set.Synid.Address, set.Synid.Bump, err = c.DeriveSynidPDA(owner); err != nil {
		return nil, err
	}
	if set.MintAuthority.Address, set.MintAuthority.Bump, err = c.DeriveMintAuthorityPDA(); err != nil {
		return nil, err
	}
	if set.Escrow.Address, set.Escrow.Bump, err = c.DeriveEscrowPDA(); err != nil {
		return nil, err
	}
	return set, nil
}
