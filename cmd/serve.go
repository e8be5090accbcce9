package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/safetydesk/safetydesk/internal/assistant"
	"github.com/safetydesk/safetydesk/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the safety intake HTTP server",
	Long:  `Starts the safetydesk HTTP server with the chat API, 5 Whys endpoints, corrective action suggestions, and incident retrieval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
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

		engine := assistant.New(cfg, provider, incidents)
		srv := server.New(cfg, engine)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "safetydesk server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Data: %s\n", cfg.DataDir)
		fmt.Fprintf(os.Stderr, "  Embeddings: %s\n", cfg.EmbeddingProvider)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
