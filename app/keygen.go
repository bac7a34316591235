package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mineralhub/mineralhub/internal/crypt"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(keygenCmd)
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a new Webserver.AppKey for encrypting sensitive settings",
	Long: `Print a new random application key. Sensitive settings stored with one key can not be
read with another, rotate it only on an empty settings table.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := crypt.GenerateKey()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)

		return err
	},
}
