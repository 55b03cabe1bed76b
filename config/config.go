// Package config loads the SynID tooling configuration from defaults,
// environment variables, an optional config file and command line flags.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"synid/chainsol"
	"synid/solprogram"
)

// Config is the configuration shared by every subcommand.
type Config struct {
	// RPCURL defaults to the public endpoint of Network when empty.
	RPCURL      string `mapstructure:"rpc_url"`
	Network     string `mapstructure:"network"`
	ProgramID   string `mapstructure:"program_id"`
	KeypairPath string `mapstructure:"keypair_path"`
	Commitment  string `mapstructure:"commitment"`

	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`

	// Timeout bounds a whole subcommand run. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout"`

	// HistoryDB is a SQLite path for the transaction history. Empty disables
	// recording.
	HistoryDB string `mapstructure:"history_db"`

	ListenAddress string `mapstructure:"listen_address"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaultConfig = map[string]interface{}{
	"rpc_url":         "",
	"network":         "devnet",
	"program_id":      solprogram.DefaultProgramID,
	"keypair_path":    chainsol.DefaultKeypairPath(),
	"commitment":      "confirmed",
	"confirm_timeout": chainsol.DefaultConfirmTimeout,
	"poll_interval":   chainsol.DefaultPollInterval,
	"timeout":         5 * time.Minute,
	"history_db":      "",
	"listen_address":  ":8080",
	"log_level":       "info",
	"log_format":      "text",
}

var envKeys = map[string]string{
	"rpc_url":         "RPC_URL",
	"network":         "NETWORK",
	"program_id":      "PROGRAM_ID",
	"keypair_path":    "KEYPAIR_PATH",
	"commitment":      "COMMITMENT",
	"confirm_timeout": "CONFIRM_TIMEOUT",
	"poll_interval":   "POLL_INTERVAL",
	"timeout":         "TIMEOUT",
	"history_db":      "HISTORY_DB",
	"listen_address":  "LISTEN_ADDRESS",
	"log_level":       "LOG_LEVEL",
	"log_format":      "LOG_FORMAT",
}

// New returns a viper instance with defaults and environment bindings set.
// Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaultConfig {
		v.SetDefault(key, value)
	}
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load reads the optional config file and decodes v into a Config.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, errors.Wrap(err, "config file")
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", configPath)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if config.RPCURL == "" {
		config.RPCURL = solprogram.RPCURLForNetwork(config.Network)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects values no subcommand can run with.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return errors.Errorf("rpc_url is required for network %q", c.Network)
	}
	if _, err := chainsol.ParseCommitment(c.Commitment); err != nil {
		return err
	}
	if c.ConfirmTimeout <= 0 {
		return errors.New("confirm_timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Chain converts the network settings for chainsol.NewSolChain.
func (c *Config) Chain() chainsol.Config {
	return chainsol.Config{
		RPCURL:         c.RPCURL,
		Network:        c.Network,
		Commitment:     c.Commitment,
		ConfirmTimeout: c.ConfirmTimeout,
		PollInterval:   c.PollInterval,
	}
}

// ConfigureLogger applies the log level and format to the standard logrus
// logger.
func (c *Config) ConfigureLogger() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log_level")
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
