package solprogram

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"synid/chainsol"
)

// Client wraps the network layer for the SynID program
type Client struct {
	chain     *chainsol.SolChain
	programID solana.PublicKey
	log       *logrus.Entry
}

// NewClient creates new program client. An empty programID selects
// DefaultProgramID.
func NewClient(chain *chainsol.SolChain, programID string) (*Client, error) {
	if chain == nil {
		return nil, errors.New("chain is required")
	}
	if programID == "" {
		programID = DefaultProgramID
	}

	programPubkey, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidProgramID, "%s: %v", programID, err)
	}

	return &Client{
		chain:     chain,
		programID: programPubkey,
		log:       logrus.StandardLogger().WithField("type", "solprogram"),
	}, nil
}

// ProgramID - Get program ID
func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

// Chain - Get network layer
func (c *Client) Chain() *chainsol.SolChain {
	return c.chain
}

func (c *Client) accountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	account, err := c.chain.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if account.Data == nil {
		return nil, errors.Wrapf(ErrInvalidAccountData, "%s has no data", address)
	}
	return account.Data.GetBinary(), nil
}

// GetConfig - Fetch and decode the config account
func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	configPDA, _, err := c.DeriveConfigPDA()
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, configPDA)
	if err != nil {
		return nil, err
	}
	return parseConfigData(data)
}

// GetSynid - Fetch and decode the identity record of owner
func (c *Client) GetSynid(ctx context.Context, owner solana.PublicKey) (*SynidAccount, error) {
	synidPDA, _, err := c.DeriveSynidPDA(owner)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, synidPDA)
	if err != nil {
		return nil, err
	}
	return parseSynidData(data)
}

// GetAccessRequest - Fetch the access request of requester on a record
func (c *Client) GetAccessRequest(ctx context.Context, synid, requester solana.PublicKey) (*AccessRequest, error) {
	requestPDA, _, err := c.DeriveAccessRequestPDA(synid, requester)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, requestPDA)
	if err != nil {
		return nil, err
	}
	return parseAccessRequestData(data)
}

// GetAccessGrant - Fetch the access grant of requester on a record
func (c *Client) GetAccessGrant(ctx context.Context, synid, requester solana.PublicKey) (*AccessGrant, error) {
	grantPDA, _, err := c.DeriveAccessGrantPDA(synid, requester)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, grantPDA)
	if err != nil {
		return nil, err
	}
	return parseAccessGrantData(data)
}
