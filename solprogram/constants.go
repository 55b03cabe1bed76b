package solprogram

import "github.com/gagliardetto/solana-go"

// Program IDs
const (
	// SynID program
	DefaultProgramID = "SYNiD11111111111111111111111111111111111111"
)

// PDA Seeds
var (
	SeedConfig        = []byte("config")
	SeedSynid         = []byte("synid")
	SeedMintAuthority = []byte("mint_authority")
	SeedEscrow        = []byte("escrow")
	SeedAccessRequest = []byte("access_request")
	SeedAccessGrant   = []byte("access_grant")
)

// Initialize defaults
const (
	DefaultMintPrice uint64 = 0
	DefaultAccessFee uint64 = 500_000 // 0.0005 SOL
)

// Limits enforced by the program
const (
	MaxCidLength    = 128
	MaxAccessFields = 10

	MaxReputationScore = 1000
)

// System Program IDs
var (
	SystemProgramID = solana.SystemProgramID
)

// RPC URLs
const (
	RPCURLDevnet    = "https://api.devnet.solana.com"
	RPCURLTestnet   = "https://api.testnet.solana.com"
	RPCURLMainnet   = "https://api.mainnet-beta.solana.com"
	RPCURLLocalhost = "http://localhost:8899"
)

// RPCURLForNetwork returns the public endpoint of a cluster name, or "" for
// unknown names.
func RPCURLForNetwork(network string) string {
	switch network {
	case "devnet":
		return RPCURLDevnet
	case "testnet":
		return RPCURLTestnet
	case "mainnet", "mainnet-beta":
		return RPCURLMainnet
	case "localnet", "localhost":
		return RPCURLLocalhost
	default:
		return ""
	}
}
