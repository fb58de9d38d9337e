package main

import (
	"fmt"
	"os"

	"github.com/calehh/charity-dao/config"
	"github.com/calehh/charity-dao/types"
	cmtos "github.com/cometbft/cometbft/libs/os"
	"github.com/spf13/cobra"
)

type initArguments struct {
	Overwrite bool
}

var initArgs initArguments

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create the home directory and write config/config.toml with default values.`,
	Args:  cobra.NoArgs,
	RunE:  initRun,
}

func init() {
	initCmd.Flags().BoolVarP(&initArgs.Overwrite, "overwrite", "o", false, "overwrite an existing config file")
}

func initRun(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig(commonArgs.Home)
	if commonArgs.Url != "" {
		cfg.Chain.WalletUrl = commonArgs.Url
	}
	if commonArgs.Account != "" {
		if _, err := types.ParseAccountAddress(commonArgs.Account); err != nil {
			return fmt.Errorf("account: %w", err)
		}
		cfg.Chain.Account = commonArgs.Account
	}
	if err := config.EnsureRoot(cfg.Home); err != nil {
		return err
	}
	configFile := cfg.ConfigFile()
	if cmtos.FileExists(configFile) && !initArgs.Overwrite {
		return fmt.Errorf("config file %s already exists, use --overwrite", configFile)
	}
	config.WriteConfigFile(configFile, cfg)
	_, err := fmt.Fprintf(os.Stderr, "wrote %s\n", configFile)
	return err
}
