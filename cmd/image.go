package cmd

import (
	"strings"

	"github.com/harou24/nano-banana-cli/internal/providers"
	"github.com/spf13/cobra"
)

var outputFlag string

var imageCmd = &cobra.Command{
	Use:     "image [prompt]",
	Aliases: []string{"img"},
	Short:   "Generate an image using Gemini",
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, providers.GenerationRequest{
			Modality:   providers.ModalityImage,
			Prompt:     strings.Join(args, " "),
			OutputPath: outputFlag,
			Model:      modelFlag,
		}, promptFileFlag)
	},
}

func init() {
	imageCmd.Flags().StringVar(&promptFileFlag, "prompt-file", "", "Read the prompt from a file instead of the arguments")
	imageCmd.Flags().StringVarP(&outputFlag, "output", "o", "output.png", "Output file path")
	rootCmd.AddCommand(imageCmd)
}
