package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/harou24/nano-banana-cli/internal/config"
	"github.com/harou24/nano-banana-cli/internal/credentials"
	"github.com/harou24/nano-banana-cli/internal/logging"
	"github.com/harou24/nano-banana-cli/internal/output"
	"github.com/harou24/nano-banana-cli/internal/providers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Swapped out in tests.
var (
	lookupEnv   func(string) (string, bool) = os.LookupEnv
	secretStore credentials.SecretStore     = credentials.Keyring{}
	httpClient  providers.Doer
)

type session struct {
	log      zerolog.Logger
	printer  *output.Printer
	resolver *credentials.Resolver
	gemini   *providers.Gemini
}

func newSession(cmd *cobra.Command) (*session, error) {
	printer := &output.Printer{Out: cmd.OutOrStdout(), JSON: jsonOutput}
	log, err := logging.New(cmd.ErrOrStderr(), logLevelFlag)
	if err != nil {
		return nil, printer.Failure(err)
	}

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Msg("no .env file found")
		} else {
			printer.Warnings = append(printer.Warnings, fmt.Sprintf("failed to load .env: %v", err))
			log.Warn().Err(err).Msg("failed to load .env")
		}
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, printer.Failure(err)
	}

	resolver := credentials.NewResolver(log,
		credentials.Flag("--api-key", apiKeyFlag),
		credentials.Env(cfg.APIKeyEnv, lookupEnv),
		credentials.Secret(secretStore, cfg.SecretService, cfg.SecretAccount),
	)
	gemini := providers.NewGemini(providers.Config{
		Timeout:    cfg.Timeout,
		BaseURL:    cfg.BaseURL,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
	}, httpClient, log)

	return &session{log: log, printer: printer, resolver: resolver, gemini: gemini}, nil
}

// runGenerate validates before touching the credential sources or the network.
// A non-empty promptFile replaces the prompt taken from the arguments.
func runGenerate(cmd *cobra.Command, req providers.GenerationRequest, promptFile string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	req.Prompt, err = getFinalPrompt(req.Prompt, promptFile)
	if err != nil {
		return s.printer.Failure(err)
	}
	if err := req.Validate(); err != nil {
		return s.printer.Failure(err)
	}

	key, err := s.resolver.Resolve(cmd.Context())
	if err != nil {
		return s.printer.Failure(err)
	}

	result, err := s.gemini.Generate(cmd.Context(), req, key)
	if err != nil {
		return s.printer.Failure(err)
	}
	return s.deliver(req, result)
}

func (s *session) deliver(req providers.GenerationRequest, result *providers.Result) error {
	switch result.Kind {
	case providers.ModalityText:
		return s.printer.Text(result.Text)
	case providers.ModalityImage:
		if err := output.WriteImage(req.OutputPath, result.Image); err != nil {
			return s.printer.Failure(err)
		}
		s.log.Info().Str("path", req.OutputPath).Int("bytes", len(result.Image)).Msg("image written")
		return s.printer.Image(req.OutputPath, result.MimeType)
	default:
		return s.printer.Failure(fmt.Errorf("unexpected result kind %s", result.Kind))
	}
}

func getFinalPrompt(prompt, filePath string) (string, error) {
	if filePath == "" {
		return prompt, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
