package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	geminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultTimeout = 120 * time.Second
	geminiTextModel      = "gemini-2.0-flash"
	geminiImageModel     = "gemini-2.0-flash-exp-image-generation"
	geminiAPIKeyHeader   = "x-goog-api-key"
	geminiModelsPageSize = 1000
)

type Gemini struct {
	config Config
	client Doer
	log    zerolog.Logger
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

// NewGemini fills unset config fields with defaults. A nil client gets an
// *http.Client bounded by config.Timeout.
func NewGemini(config Config, client Doer, log zerolog.Logger) *Gemini {
	if config.Timeout <= 0 {
		config.Timeout = geminiDefaultTimeout
	}
	if config.BaseURL == "" {
		config.BaseURL = geminiBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.TextModel == "" {
		config.TextModel = geminiTextModel
	}
	if config.ImageModel == "" {
		config.ImageModel = geminiImageModel
	}
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	return &Gemini{
		config: config,
		client: client,
		log:    log.With().Str("provider", "gemini").Logger(),
	}
}

// Build turns a request into the generateContent call for its modality.
// It has no side effects: equal inputs give byte-identical output.
func (p *Gemini) Build(req GenerationRequest, apiKey string) (*Request, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, &InvalidRequestError{Reason: "API key must not be empty"}
	}

	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: responseModalities(req.Modality),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return &Request{
		Method: http.MethodPost,
		URL:    p.config.BaseURL + "/models/" + url.PathEscape(p.getModel(req)) + ":generateContent",
		Header: p.headers(apiKey),
		Body:   body,
	}, nil
}

// Generate runs one request through build, send and decode. There is no retry.
func (p *Gemini) Generate(ctx context.Context, req GenerationRequest, apiKey string) (*Result, error) {
	built, err := p.Build(req, apiKey)
	if err != nil {
		return nil, err
	}
	log := p.log.With().Stringer("modality", req.Modality).Str("model", p.getModel(req)).Logger()
	log.Debug().Str("url", built.URL).Int("body_bytes", len(built.Body)).Msg("request built")

	start := time.Now()
	status, body, err := p.send(ctx, built)
	if err != nil {
		log.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, err
	}
	log.Debug().Int("status", status).Int("body_bytes", len(body)).Dur("elapsed", time.Since(start)).Msg("response received")

	result, err := Decode(req.Modality, status, body)
	if err != nil {
		log.Debug().Err(err).Msg("decode failed")
		return nil, err
	}
	log.Debug().Msg("response decoded")
	return result, nil
}

// ListModels returns every model visible to the key, following pagination.
func (p *Gemini) ListModels(ctx context.Context, apiKey string) ([]Model, error) {
	if apiKey == "" {
		return nil, &InvalidRequestError{Reason: "API key must not be empty"}
	}

	models := []Model{}
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("pageSize", fmt.Sprint(geminiModelsPageSize))
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}
		status, body, err := p.send(ctx, &Request{
			Method: http.MethodGet,
			URL:    p.config.BaseURL + "/models?" + query.Encode(),
			Header: p.headers(apiKey),
		})
		if err != nil {
			return nil, err
		}
		if status < 200 || status > 299 {
			return nil, decodeError(status, body)
		}

		var page struct {
			Models []struct {
				Name                       string   `json:"name"`
				DisplayName                string   `json:"displayName"`
				Description                string   `json:"description"`
				InputTokenLimit            int      `json:"inputTokenLimit"`
				OutputTokenLimit           int      `json:"outputTokenLimit"`
				SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
			} `json:"models"`
			NextPageToken string `json:"nextPageToken"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, malformed(status, "model list is not valid JSON", body)
		}

		for _, m := range page.Models {
			models = append(models, Model{
				ID:               strings.TrimPrefix(m.Name, "models/"),
				DisplayName:      m.DisplayName,
				Description:      m.Description,
				InputTokenLimit:  m.InputTokenLimit,
				OutputTokenLimit: m.OutputTokenLimit,
				Methods:          m.SupportedGenerationMethods,
			})
		}
		if page.NextPageToken == "" || page.NextPageToken == pageToken {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func (p *Gemini) send(ctx context.Context, r *Request) (int, []byte, error) {
	var reqBody io.Reader
	if r.Body != nil {
		reqBody = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header = r.Header.Clone()

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (p *Gemini) headers(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(geminiAPIKeyHeader, apiKey)
	return h
}

func (p *Gemini) getModel(req GenerationRequest) string {
	model := req.Model
	if model == "" && req.Modality == ModalityImage {
		model = p.config.ImageModel
	}
	if model == "" {
		model = p.config.TextModel
	}
	return strings.TrimPrefix(model, "models/")
}

// The image model refuses IMAGE on its own, so image requests also allow TEXT.
func responseModalities(m Modality) []string {
	if m == ModalityImage {
		return []string{"TEXT", "IMAGE"}
	}
	return []string{"TEXT"}
}
