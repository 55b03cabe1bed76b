package chainsol

import (
	"context"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 2 * time.Second
)

type SolChain struct {
	rpc            RPC
	history        *HistoryStore
	log            *logrus.Entry
	network        string // devnet, testnet, mainnet, localnet
	commitment     rpc.CommitmentType
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

type Config struct {
	RPCURL         string
	Network        string
	Commitment     string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// NewSolChain - Initialize Solana. A nil client dials config.RPCURL.
func NewSolChain(config Config, client RPC) (*SolChain, error) {
	if config.Network == "" {
		config.Network = "devnet"
	}
	if config.ConfirmTimeout <= 0 {
		config.ConfirmTimeout = DefaultConfirmTimeout
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	commitment, err := ParseCommitment(config.Commitment)
	if err != nil {
		return nil, err
	}
	if client == nil {
		if config.RPCURL == "" {
			return nil, errors.New("rpc url is required")
		}
		client = rpc.New(config.RPCURL)
	}

	return &SolChain{
		rpc:            client,
		log:            logrus.StandardLogger().WithField("type", "chainsol"),
		network:        config.Network,
		commitment:     commitment,
		confirmTimeout: config.ConfirmTimeout,
		pollInterval:   config.PollInterval,
	}, nil
}

// WithHistory attaches a transaction history store. Submitted transactions
// are recorded there; a nil store disables recording.
func (p *SolChain) WithHistory(store *HistoryStore) *SolChain {
	p.history = store
	return p
}

func (p *SolChain) History() *HistoryStore {
	return p.history
}

func (p *SolChain) Commitment() rpc.CommitmentType {
	return p.commitment
}

func (p *SolChain) Network() string {
	return p.network
}

// ParseCommitment maps a commitment name to its RPC value. Empty means
// confirmed.
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "processed":
		return rpc.CommitmentProcessed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", errors.Errorf("unknown commitment %q", s)
	}
}

// GetExplorerURL - Generate explorer URL
func (p *SolChain) GetExplorerURL(signature string) string {
	baseURL := "https://explorer.solana.com/tx/"
	switch p.network {
	case "devnet":
		return baseURL + signature + "?cluster=devnet"
	case "testnet":
		return baseURL + signature + "?cluster=testnet"
	case "localnet":
		return baseURL + signature + "?cluster=custom"
	default:
		return baseURL + signature
	}
}

// Health check
func (p *SolChain) HealthCheck(ctx context.Context) error {
	_, err := p.rpc.GetHealth(ctx)
	return errors.Wrap(err, "solana health check failed")
}
