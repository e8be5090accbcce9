package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safetydesk/safetydesk/internal/capa"
	"github.com/safetydesk/safetydesk/internal/intent"
	mcpserver "github.com/safetydesk/safetydesk/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing intent classification, corrective action suggestions, and incident lookup tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := createProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedding provider: %w", err)
		}

		incidents, err := openIncidentStore(cfg)
		if err != nil {
			return fmt.Errorf("opening incident store: %w", err)
		}
		defer incidents.Close()

		classifier := intent.NewClassifier(provider, cfg.IntentThreshold)
		suggester := capa.NewEngine(provider, cfg.SuggestionLimit)

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "safetydesk MCP server started on stdio (data=%s)\n", cfg.DataDir)

		srv := mcpserver.NewServer(classifier, suggester, incidents)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
