package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harou24/nano-banana-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	apiKeyFlag   string
	modelFlag    string
	configFlag   string
	logLevelFlag string
	jsonOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "nano-banana",
	Short: "CLI for Google Gemini text and image generation",
	Long: `Generate text and images with the Google Gemini API.

The API key is taken from --api-key, then the GOOGLE_AI_STUDIO_API_KEY
environment variable (a .env file in the working directory is honoured),
then the "google-ai-studio" entry in the system keyring.

Examples:
  $ nano-banana text "Explain quantum computing"
  $ nano-banana image "A banana wearing sunglasses" -o banana.png
  $ nano-banana models --json`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// After the first signal, restore default handling so a second one kills
	// the process even if something ignores ctx.
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiKeyFlag, "api-key", "k", "", "API key (overrides environment variable and keyring)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use instead of the configured default")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/nano-banana/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", logging.WarnLevel, "Log level (debug|info|warn|error|disabled)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
