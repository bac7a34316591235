package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mineralhub/mineralhub/internal/daemon"
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsSeedCmd, settingsListCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Manage organization settings",
	}

	settingsSeedCmd = &cobra.Command{
		Use:     "seed",
		Short:   "Create roles, the initial admin and every missing default setting",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return d.Seed(cmd.Context())
		},
	}

	settingsListCmd = &cobra.Command{
		Use:     "list",
		Short:   "Print all settings with their resolved values, sensitive ones masked",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			rows, err := d.Settings().All(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "KEY\tTYPE\tSENSITIVE\tVALUE")

			for _, row := range rows {
				value := "********"
				if !row.IsSensitive {
					value = fmt.Sprint(d.Settings().Resolve(&row).Interface())
				}

				_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", row.Key, row.Type, row.IsSensitive, value)
			}

			return w.Flush()
		},
	}
)
