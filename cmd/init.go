package cmd

import (
	"github.com/spf13/cobra"

	"github.com/safetydesk/safetydesk/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize safetydesk configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure safetydesk for your site and generates a .safetydesk.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
