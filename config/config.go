package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = "config"
	DefaultDataDir    = "data"
	DefaultConfigName = "config.toml"
	DefaultJournalDB  = "journal.db"

	DefaultLogLevel = "info"

	// TestnetGenesisBlockHash identifies the network the contract is deployed on.
	// A wallet that cannot serve cryptographic parameters for it is attached to
	// another chain.
	TestnetGenesisBlockHash = "4221332d34e1694168c2a0c0b3fd0f273809612cb13d000d5c2e00e85f50f796"

	DefaultContractIndex    = 10032
	DefaultContractSubindex = 0

	DefaultSchemaBase64 = "//8DAQAAAAMAAABEQU8ABwAAAAsAAABhbGxfbWVtYmVycwUQAg8LBRUHAAAACwAAAFBhcnNlUGFyYW1zAg8AAABBbHJlYWR5QXBwcm92ZWQCDwAAAEFtb3VudENvbGxlY3RlZAITAAAASW5zdWZmaWNpZW50QmFsYW5jZQILAAAATm90QXBwcm92ZWQCEAAAAFByb3Bvc2FsTm90Rm91bmQCDAAAAFVuYXV0aG9yaXplZAINAAAAYWxsX3Byb3Bvc2FscwUQAg8FFAAGAAAACAAAAHByb3Bvc2VyCwsAAABkZXNjcmlwdGlvbhYCBgAAAGFtb3VudAoFAAAAdm90ZXMFDAAAAGNvbnRyaWJ1dGVycxACDwsFBgAAAHN0YXR1cxUDAAAABgAAAEFjdGl2ZQIIAAAAQXBwcm92ZWQCCQAAAENvbGxlY3RlZAIVBwAAAAsAAABQYXJzZVBhcmFtcwIPAAAAQWxyZWFkeUFwcHJvdmVkAg8AAABBbW91bnRDb2xsZWN0ZWQCEwAAAEluc3VmZmljaWVudEJhbGFuY2UCCwAAAE5vdEFwcHJvdmVkAhAAAABQcm9wb3NhbE5vdEZvdW5kAgwAAABVbmF1dGhvcml6ZWQCDwAAAGNyZWF0ZV9wcm9wb3NhbAQUAAIAAAALAAAAZGVzY3JpcHRpb24WAgYAAABhbW91bnQKFQcAAAALAAAAUGFyc2VQYXJhbXMCDwAAAEFscmVhZHlBcHByb3ZlZAIPAAAAQW1vdW50Q29sbGVjdGVkAhMAAABJbnN1ZmZpY2llbnRCYWxhbmNlAgsAAABOb3RBcHByb3ZlZAIQAAAAUHJvcG9zYWxOb3RGb3VuZAIMAAAAVW5hdXRob3JpemVkAgkAAABnZXRfcG93ZXIGFAABAAAABwAAAGFkZHJlc3MLBRUHAAAACwAAAFBhcnNlUGFyYW1zAg8AAABBbHJlYWR5QXBwcm92ZWQCDwAAAEFtb3VudENvbGxlY3RlZAITAAAASW5zdWZmaWNpZW50QmFsYW5jZQILAAAATm90QXBwcm92ZWQCEAAAAFByb3Bvc2FsTm90Rm91bmQCDAAAAFVuYXV0aG9yaXplZAIIAAAAcmVub3VuY2UEFAACAAAACwAAAHByb3Bvc2FsX2lkBQUAAAB2b3RlcwUVBwAAAAsAAABQYXJzZVBhcmFtcwIPAAAAQWxyZWFkeUFwcHJvdmVkAg8AAABBbW91bnRDb2xsZWN0ZWQCEwAAAEluc3VmZmljaWVudEJhbGFuY2UCCwAAAE5vdEFwcHJvdmVkAhAAAABQcm9wb3NhbE5vdEZvdW5kAgwAAABVbmF1dGhvcml6ZWQCBAAAAHZvdGUEFAACAAAACwAAAHByb3Bvc2FsX2lkBQUAAAB2b3RlcwUVBwAAAAsAAABQYXJzZVBhcmFtcwIPAAAAQWxyZWFkeUFwcHJvdmVkAg8AAABBbW91bnRDb2xsZWN0ZWQCEwAAAEluc3VmZmljaWVudEJhbGFuY2UCCwAAAE5vdEFwcHJvdmVkAhAAAABQcm9wb3NhbE5vdEZvdW5kAgwAAABVbmF1dGhvcml6ZWQCCAAAAHdpdGhkcmF3ABQAAQAAAAsAAABwcm9wb3NhbF9pZAUA"
)

type ChainConfig struct {
	WalletUrl                  string `mapstructure:"wallet_url"`
	Account                    string `mapstructure:"account"`
	GenesisHash                string `mapstructure:"genesis_hash"`
	ContractName               string `mapstructure:"contract_name"`
	ContractIndex              uint64 `mapstructure:"contract_index"`
	ContractSubindex           uint64 `mapstructure:"contract_subindex"`
	MaxContractExecutionEnergy uint64 `mapstructure:"max_contract_execution_energy"`
	SchemaBase64               string `mapstructure:"schema"`
}

type WatcherConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type VerifierConfig struct {
	Url     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type APIConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type Config struct {
	Home     string `mapstructure:"-"`
	LogLevel string `mapstructure:"log_level"`

	Chain    *ChainConfig    `mapstructure:"chain"`
	Watcher  *WatcherConfig  `mapstructure:"watcher"`
	Verifier *VerifierConfig `mapstructure:"verifier"`
	API      *APIConfig      `mapstructure:"api"`
	Journal  *JournalConfig  `mapstructure:"journal"`
}

func DefaultHome() string {
	return os.ExpandEnv("$HOME/.dao")
}

func DefaultChainConfig() *ChainConfig {
	return &ChainConfig{
		WalletUrl:                  "http://127.0.0.1:9545",
		GenesisHash:                TestnetGenesisBlockHash,
		ContractName:               tx.DefaultContractName,
		ContractIndex:              DefaultContractIndex,
		ContractSubindex:           DefaultContractSubindex,
		MaxContractExecutionEnergy: tx.DefaultMaxContractExecutionEnergy,
		SchemaBase64:               DefaultSchemaBase64,
	}
}

func DefaultWatcherConfig() *WatcherConfig {
	return &WatcherConfig{
		PollInterval:    2 * time.Second,
		Timeout:         10 * time.Minute,
		RefreshInterval: 10 * time.Second,
	}
}

func DefaultConfig(home string) *Config {
	if len(home) == 0 {
		home = DefaultHome()
	}
	return &Config{
		Home:     home,
		LogLevel: DefaultLogLevel,
		Chain:    DefaultChainConfig(),
		Watcher:  DefaultWatcherConfig(),
		Verifier: &VerifierConfig{
			Url:     "http://127.0.0.1:4800",
			Timeout: 30 * time.Second,
		},
		API: &APIConfig{
			ListenAddress: "127.0.0.1:8080",
		},
		Journal: &JournalConfig{
			Enabled: true,
			DBPath:  filepath.Join(DefaultDataDir, DefaultJournalDB),
		},
	}
}

// Load reads <home>/config/config.toml over the defaults. A missing file is not
// an error.
func Load(home string) (*Config, error) {
	cfg := DefaultConfig(home)
	v := viper.New()
	v.SetConfigFile(cfg.ConfigFile())
	v.SetEnvPrefix("DAO")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Home = home
	if len(cfg.Home) == 0 {
		cfg.Home = DefaultHome()
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid configuration data: %w", err)
	}
	return cfg, nil
}

func (c *Config) ValidateBasic() error {
	if c.Chain == nil || c.Watcher == nil || c.Verifier == nil || c.API == nil || c.Journal == nil {
		return errors.New("incomplete configuration")
	}
	if c.Chain.WalletUrl == "" {
		return errors.New("chain.wallet_url is required")
	}
	if _, err := c.GenesisBlockHash(); err != nil {
		return fmt.Errorf("chain.genesis_hash: %w", err)
	}
	if c.Chain.ContractName == "" {
		return errors.New("chain.contract_name is required")
	}
	if c.Chain.MaxContractExecutionEnergy == 0 {
		return errors.New("chain.max_contract_execution_energy must be positive")
	}
	if _, err := base64.StdEncoding.DecodeString(c.Chain.SchemaBase64); err != nil {
		return fmt.Errorf("chain.schema is not base64: %w", err)
	}
	if c.Chain.Account != "" {
		if _, err := types.ParseAccountAddress(c.Chain.Account); err != nil {
			return fmt.Errorf("chain.account: %w", err)
		}
	}
	if c.Watcher.PollInterval <= 0 {
		return errors.New("watcher.poll_interval must be positive")
	}
	if c.Watcher.Timeout < 0 {
		return errors.New("watcher.timeout cannot be negative")
	}
	return nil
}

func (c *Config) GenesisBlockHash() (types.BlockHash, error) {
	return types.ParseBlockHash(c.Chain.GenesisHash)
}

func (c *Config) ContractAddress() tx.ContractAddress {
	return tx.ContractAddress{
		Index:    c.Chain.ContractIndex,
		Subindex: c.Chain.ContractSubindex,
	}
}

func (c *Config) ConfigFile() string {
	return filepath.Join(c.Home, DefaultConfigDir, DefaultConfigName)
}

func (c *Config) JournalFile() string {
	return rootify(c.Journal.DBPath, c.Home)
}

func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
