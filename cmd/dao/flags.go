package main

import "github.com/spf13/cobra"

type commonArguments struct {
	Home    string
	Url     string
	Account string
}

var commonArgs commonArguments

func homeFlag(cmd *cobra.Command, home *string) {
	cmd.PersistentFlags().StringVarP(home, "homedir", "d", "", "home directory (default $HOME/.dao)")
}

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.PersistentFlags().StringVarP(url, "url", "u", "", "wallet bridge url, overrides chain.wallet_url")
}

func accountFlag(cmd *cobra.Command, account *string) {
	cmd.PersistentFlags().StringVarP(account, "account", "a", "", "sender account, overrides chain.account")
}

func waitFlag(cmd *cobra.Command, wait *bool) {
	cmd.Flags().BoolVarP(wait, "wait", "w", false, "wait for the transaction to finalize")
}
