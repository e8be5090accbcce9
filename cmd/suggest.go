package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safetydesk/safetydesk/internal/capa"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <description>",
	Short: "Suggest corrective actions for an incident description",
	Long:  `Runs the corrective action engine on a description and prints ranked suggestions with rationales.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if suggestLimit != 0 {
			cfg.SuggestionLimit = suggestLimit
		}

		provider, err := createProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedding provider: %w", err)
		}

		engine := capa.NewEngine(provider, cfg.SuggestionLimit)
		description := strings.Join(args, " ")

		suggestions := engine.Suggest(context.Background(), description)
		if len(suggestions) == 0 {
			fmt.Println("No corrective actions matched. Try a more specific description.")
			return nil
		}

		for i, s := range suggestions {
			fmt.Printf("%d. %s (%.2f)\n", i+1, s.Action, s.Confidence)
			fmt.Printf("   Category:  %s\n", s.Category)
			fmt.Printf("   Rationale: %s\n", s.Rationale)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum suggestions to print (overrides config)")
	rootCmd.AddCommand(suggestCmd)
}
