package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mangaparsers/internal/parser"
	"mangaparsers/internal/sources"
)

const defaultBaseURL = "http://localhost:8080"

var rootArgs struct {
	apiURL  string
	timeout time.Duration
	asJSON  bool
}

var RootCmd = &cobra.Command{
	Use:           "mangaparsers",
	Short:         "Browse manga sources and manage the catalog server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&rootArgs.apiURL, "api", defaultBaseURL, "API server base URL")
	RootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", 60*time.Second, "overall command timeout")
	RootCmd.PersistentFlags().BoolVar(&rootArgs.asJSON, "json", false, "print raw JSON")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), rootArgs.timeout)
}

// registry builds the local plugin registry from MANGAPARSERS_* env vars.
func registry() *parser.Registry {
	return sources.NewRegistry(sources.LoadConfig())
}

func main() {
	log.SetOutput(os.Stderr)
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
