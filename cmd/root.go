package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "safetydesk",
	Short: "Conversational safety incident intake and root cause analysis",
	Long: `Safetydesk runs a conversational intake engine for workplace safety:
it classifies what a reporter wants, walks them through a structured
incident or safety concern report, runs 5 Whys root cause sessions,
and suggests corrective actions for what happened.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".safetydesk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
