package providers

import (
	"net/http"
	"strings"
	"time"
)

// Modality selects what kind of payload a request asks the model for.
type Modality int

const (
	ModalityText Modality = iota
	ModalityImage
)

func (m Modality) String() string {
	switch m {
	case ModalityText:
		return "text"
	case ModalityImage:
		return "image"
	default:
		return "unknown"
	}
}

// GenerationRequest is what the CLI hands to the provider for one run.
type GenerationRequest struct {
	Modality   Modality
	Prompt     string
	OutputPath string
	// Model overrides the configured model for this modality when set.
	Model string
}

// Validate rejects requests that must never reach the network.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &InvalidRequestError{Reason: "prompt must not be empty"}
	}
	switch r.Modality {
	case ModalityText:
	case ModalityImage:
		if strings.TrimSpace(r.OutputPath) == "" {
			return &InvalidRequestError{Reason: "image generation requires an output path"}
		}
	default:
		return &InvalidRequestError{Reason: "unsupported modality " + r.Modality.String()}
	}
	return nil
}

// Result is either a text or an image result, discriminated by Kind.
type Result struct {
	Kind     Modality
	Text     string
	Image    []byte
	MimeType string
}

// Request is a fully built HTTP call, ready for a Doer.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Config struct {
	Timeout    time.Duration
	BaseURL    string
	TextModel  string
	ImageModel string
}

type Model struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"display_name"`
	Description      string   `json:"description"`
	InputTokenLimit  int      `json:"input_token_limit"`
	OutputTokenLimit int      `json:"output_token_limit"`
	Methods          []string `json:"methods"`
}

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
