package providers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const excerptLimit = 256

type generateContentResponse struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type candidate struct {
	Content *struct {
		Parts []responsePart `json:"parts"`
	} `json:"content"`
	FinishReason string `json:"finishReason"`
}

type responsePart struct {
	Text       *string     `json:"text"`
	InlineData *inlineData `json:"inlineData"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Decode interprets a generateContent response for the given modality.
// The modality picks the branch; the body shape is never sniffed for it.
func Decode(modality Modality, status int, body []byte) (*Result, error) {
	if status < 200 || status > 299 {
		return nil, decodeError(status, body)
	}

	var resp generateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed(status, "response is not valid JSON", body)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, malformed(status, "prompt blocked: "+resp.PromptFeedback.BlockReason, nil)
		}
		return nil, malformed(status, "no candidates in response", body)
	}

	switch modality {
	case ModalityText:
		return decodeText(status, resp, body)
	case ModalityImage:
		return decodeImage(status, resp, body)
	default:
		return nil, &InvalidRequestError{Reason: "unsupported modality " + modality.String()}
	}
}

func decodeText(status int, resp generateContentResponse, body []byte) (*Result, error) {
	first := resp.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 {
		return nil, malformed(status, "first candidate has no parts", body)
	}
	text := first.Content.Parts[0].Text
	if text == nil {
		return nil, malformed(status, "first part has no text", body)
	}
	return &Result{Kind: ModalityText, Text: *text}, nil
}

// decodeImage takes the first inline data part across all candidates.
// Text next to an image is dropped.
func decodeImage(status int, resp generateContentResponse, body []byte) (*Result, error) {
	var texts []string
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.InlineData == nil {
				if p.Text != nil && strings.TrimSpace(*p.Text) != "" {
					texts = append(texts, strings.TrimSpace(*p.Text))
				}
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, malformed(status, "inline data is not valid base64", nil)
			}
			if len(data) == 0 {
				return nil, malformed(status, "inline data is empty", nil)
			}
			return &Result{Kind: ModalityImage, Image: data, MimeType: p.InlineData.MimeType}, nil
		}
	}
	return nil, &NoImageReturnedError{
		Text:         strings.Join(texts, "\n"),
		FinishReason: resp.Candidates[0].FinishReason,
	}
}

// decodeError maps a non-2xx body onto a ProviderError. Some endpoints wrap
// the envelope in a one-element array.
func decodeError(status int, body []byte) error {
	var envelope errorEnvelope
	trimmed := bytes.TrimSpace(body)
	var err error
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []errorEnvelope
		if err = json.Unmarshal(trimmed, &list); err == nil && len(list) > 0 {
			envelope = list[0]
		}
	} else {
		err = json.Unmarshal(trimmed, &envelope)
	}
	if err != nil || envelope.Error == nil || envelope.Error.Message == "" {
		return malformed(status, "unrecognized error body", body)
	}
	return &ProviderError{
		Status:    status,
		Code:      envelope.Error.Status,
		Message:   envelope.Error.Message,
		Retryable: status == 429 || status == 503,
	}
}

func malformed(status int, reason string, body []byte) *MalformedResponseError {
	return &MalformedResponseError{Status: status, Reason: reason, Excerpt: excerpt(body)}
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= excerptLimit {
		return s
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
