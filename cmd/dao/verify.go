package main

import (
	"fmt"

	"github.com/calehh/charity-dao/verifier"
	"github.com/spf13/cobra"
)

type verifyArguments struct {
	Url string
}

var verifyArgs verifyArguments

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Prove the sender's identity to the verifier and print the auth token",
	Args:  cobra.NoArgs,
	RunE:  verifyRun,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyArgs.Url, "verifier", "", "", "verifier url, overrides verifier.url")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if e.sess.Account == "" {
		return fmt.Errorf("no account: set chain.account or pass --account")
	}
	url := e.cfg.Verifier.Url
	if verifyArgs.Url != "" {
		url = verifyArgs.Url
	}
	ctx, cancel := signalContext()
	defer cancel()

	cli := verifier.NewClient(url, e.cfg.Verifier.Timeout, e.logger)
	token, err := cli.Authenticate(ctx, e.sess.Client, e.sess.Account)
	if err != nil {
		return err
	}
	fmt.Println(string(token))
	return nil
}
