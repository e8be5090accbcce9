package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safetydesk/safetydesk/internal/intent"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Classify a message into a safety intake intent",
	Long:  `Runs the intent classifier on a message and prints the detected intent and confidence. Useful for tuning keyword rules and the embedding threshold.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := createProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedding provider: %w", err)
		}

		classifier := intent.NewClassifier(provider, cfg.IntentThreshold)
		message := strings.Join(args, " ")

		result := classifier.Classify(context.Background(), message)
		fmt.Printf("Intent:     %s\n", result.Intent)
		fmt.Printf("Confidence: %.2f\n", result.Confidence)

		if verbose {
			fmt.Printf("Embeddings: available=%v\n", provider.IsAvailable())
			if chemical := intent.ExtractChemicalName(message); chemical != "" {
				fmt.Printf("Chemical:   %s\n", chemical)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
