package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/harou24/nano-banana-cli/internal/providers"
	"github.com/spf13/cobra"
)

var modelsFilter string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List Gemini models available to the API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		key, err := s.resolver.Resolve(cmd.Context())
		if err != nil {
			return s.printer.Failure(err)
		}

		models, err := s.gemini.ListModels(cmd.Context(), key)
		if err != nil {
			return s.printer.Failure(err)
		}
		models = filterModels(models, modelsFilter)

		out := cmd.OutOrStdout()
		if jsonOutput {
			jsonData, err := json.MarshalIndent(models, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}
		printModelTable(out, models)
		return nil
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsFilter, "filter", "", "Only show models whose ID contains this text")
	rootCmd.AddCommand(modelsCmd)
}

func filterModels(models []providers.Model, filter string) []providers.Model {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return models
	}
	kept := []providers.Model{}
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.ID), filter) {
			kept = append(kept, m)
		}
	}
	return kept
}

func printModelTable(out io.Writer, models []providers.Model) {
	fmt.Fprintln(out, "\nGemini Models:")
	if len(models) == 0 {
		fmt.Fprintln(out, "  No models available")
		return
	}

	fmt.Fprintln(out, "┌──────────────────────────────────┬──────────────────────────┬──────────────┬──────────────┐")
	fmt.Fprintln(out, "│ Model ID                         │ Display Name             │ Input Tokens │ Output Tokens│")
	fmt.Fprintln(out, "├──────────────────────────────────┼──────────────────────────┼──────────────┼──────────────┤")
	for _, m := range models {
		fmt.Fprintf(out, "│ %-32s │ %-24s │ %-12d │ %-12d │\n",
			truncate(m.ID, 32),
			truncate(m.DisplayName, 24),
			m.InputTokenLimit,
			m.OutputTokenLimit)
	}
	fmt.Fprintln(out, "└──────────────────────────────────┴──────────────────────────┴──────────────┴──────────────┘")
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) > length {
		return string(r[:length-3]) + "..."
	}
	return s
}
