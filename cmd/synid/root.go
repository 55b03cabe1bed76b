package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"synid/chainsol"
	"synid/config"
	"synid/solprogram"
)

type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	log        *logrus.Entry
}

// flag name -> config key
var persistentFlags = []struct {
	name, key, usage string
}{
	{"rpc-url", "rpc_url", "JSON-RPC endpoint (RPC_URL), defaults to the network's public endpoint"},
	{"network", "network", "devnet, testnet, mainnet or localnet (NETWORK)"},
	{"program-id", "program_id", "SynID program ID (PROGRAM_ID)"},
	{"keypair", "keypair_path", "Solana CLI keypair file (KEYPAIR_PATH)"},
	{"commitment", "commitment", "processed, confirmed or finalized (COMMITMENT)"},
	{"history-db", "history_db", "SQLite transaction history path, empty disables (HISTORY_DB)"},
	{"log-level", "log_level", "log level (LOG_LEVEL)"},
	{"log-format", "log_format", "text or json (LOG_FORMAT)"},
}

var durationFlags = []struct {
	name, key, usage string
}{
	{"confirm-timeout", "confirm_timeout", "max wait for a transaction to confirm (CONFIRM_TIMEOUT)"},
	{"poll-interval", "poll_interval", "signature status poll interval (POLL_INTERVAL)"},
	{"timeout", "timeout", "overall command timeout, 0 disables (TIMEOUT)"},
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:   config.New(),
		log: logrus.StandardLogger().WithField("type", "synid"),
	}

	cmd := &cobra.Command{
		Use:           "synid",
		Short:         "SynID program operations: funding, config initialization, PDA checks",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "optional config file (yaml, json or toml)")
	for _, f := range persistentFlags {
		flags.String(f.name, "", f.usage)
	}
	for _, f := range durationFlags {
		flags.Duration(f.name, 0, f.usage)
	}

	cmd.AddCommand(
		newDeployCmd(a),
		newInitializeCmd(a),
		newSmokeCmd(a),
		newShowConfigCmd(a),
		newUpdateConfigCmd(a),
		newVerifyIdentityCmd(a),
		newUpdateReputationCmd(a),
		newWithdrawTreasuryCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// load binds the flags the user actually set, so unset flags fall through to
// env, file and defaults.
func (a *app) load(cmd *cobra.Command) error {
	flags := cmd.Flags()
	for _, f := range persistentFlags {
		if flags.Changed(f.name) {
			if err := a.v.BindPFlag(f.key, flags.Lookup(f.name)); err != nil {
				return err
			}
		}
	}
	for _, f := range durationFlags {
		if flags.Changed(f.name) {
			if err := a.v.BindPFlag(f.key, flags.Lookup(f.name)); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ConfigureLogger(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log.WithFields(logrus.Fields{
		"network": cfg.Network,
		"rpc_url": cfg.RPCURL,
	}).Debug("config loaded")
	return nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// openChain builds the network layer, attaching the history store when
// configured. The returned func releases the store.
func (a *app) openChain() (*chainsol.SolChain, func(), error) {
	chain, err := chainsol.NewSolChain(a.cfg.Chain(), nil)
	if err != nil {
		return nil, nil, err
	}
	if a.cfg.HistoryDB == "" {
		return chain, func() {}, nil
	}

	store, err := chainsol.OpenHistoryStore(a.cfg.HistoryDB)
	if err != nil {
		return nil, nil, err
	}
	chain.WithHistory(store)
	return chain, func() {
		if err := store.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close history db")
		}
	}, nil
}

func (a *app) openClient() (*solprogram.Client, func(), error) {
	chain, closeFn, err := a.openChain()
	if err != nil {
		return nil, nil, err
	}
	client, err := solprogram.NewClient(chain, a.cfg.ProgramID)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return client, closeFn, nil
}

func (a *app) keypair() (solana.PrivateKey, error) {
	key, err := chainsol.LoadKeypair(a.cfg.KeypairPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load wallet")
	}
	return key, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// solFlag parses a decimal SOL flag value into lamports.
func solFlag(cmd *cobra.Command, name string) (uint64, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return 0, err
	}
	lamports, err := chainsol.ParseSOL(value)
	if err != nil {
		return 0, errors.Wrapf(err, "--%s", name)
	}
	return lamports, nil
}
