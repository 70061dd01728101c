package cmd

import (
	"strings"

	"github.com/harou24/nano-banana-cli/internal/providers"
	"github.com/spf13/cobra"
)

var promptFileFlag string

var textCmd = &cobra.Command{
	Use:   "text [prompt]",
	Short: "Generate text using Gemini",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, providers.GenerationRequest{
			Modality: providers.ModalityText,
			Prompt:   strings.Join(args, " "),
			Model:    modelFlag,
		}, promptFileFlag)
	},
}

func init() {
	textCmd.Flags().StringVar(&promptFileFlag, "prompt-file", "", "Read the prompt from a file instead of the arguments")
	rootCmd.AddCommand(textCmd)
}
