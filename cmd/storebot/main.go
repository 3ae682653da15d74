package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storebot",
	Short: "storebot — storefront bot with operator-approved order fulfillment",
	Long: "storebot sells catalog entries over a chat platform: customers pay " +
		"out-of-band, submit proof, and the operator approves each order to " +
		"trigger automated credential delivery from stock.",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(docInitCmd)
	rootCmd.AddCommand(docStatsCmd)
	rootCmd.AddCommand(backupCmd)
}
