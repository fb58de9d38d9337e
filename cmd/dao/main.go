package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(proposalCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(renounceCmd)
	rootCmd.AddCommand(proposalsCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(verifyCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
