package main

import (
	"github.com/spf13/cobra"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Consolida o banco de ofertas e regenera o site sem chamar a API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reconcile(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(siteCmd)
}
