package providers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDecodeText(t *testing.T) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`)

	result, err := Decode(ModalityText, 200, body)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if result.Kind != ModalityText {
		t.Errorf("Kind = %s, want text", result.Kind)
	}
	if result.Text != "hello" {
		t.Errorf("Text = %q, want %q", result.Text, "hello")
	}
}

func TestDecodeImage(t *testing.T) {
	// "AQID" is base64 for bytes 1, 2, 3.
	body := []byte(`{"candidates":[{"content":{"parts":[
		{"text":"Here is your image"},
		{"inlineData":{"mimeType":"image/png","data":"AQID"}}
	]}}]}`)

	result, err := Decode(ModalityImage, 200, body)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if result.Kind != ModalityImage {
		t.Errorf("Kind = %s, want image", result.Kind)
	}
	if !bytes.Equal(result.Image, []byte{1, 2, 3}) {
		t.Errorf("Image = %v, want [1 2 3]", result.Image)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", result.MimeType)
	}
	if result.Text != "" {
		t.Errorf("accompanying text should be dropped, got %q", result.Text)
	}
}

func TestDecodeImageTakesFirstInlinePart(t *testing.T) {
	body := []byte(`{"candidates":[
		{"content":{"parts":[{"text":"caption"}]}},
		{"content":{"parts":[
			{"inlineData":{"mimeType":"image/jpeg","data":"/w=="}},
			{"inlineData":{"mimeType":"image/png","data":"AQID"}}
		]}}
	]}`)

	result, err := Decode(ModalityImage, 200, body)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if result.MimeType != "image/jpeg" || !bytes.Equal(result.Image, []byte{0xff}) {
		t.Errorf("got %s %v, want first inline part", result.MimeType, result.Image)
	}
}

func TestDecodeProviderError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{"rate limited", 429, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, true},
		{"unavailable", 503, `{"error":{"code":503,"message":"The model is overloaded","status":"UNAVAILABLE"}}`, true},
		{"bad key", 400, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, false},
		{"array envelope", 500, `[{"error":{"code":500,"message":"Internal error","status":"INTERNAL"}}]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(ModalityText, tt.status, []byte(tt.body))
			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ProviderError, got %T: %v", err, err)
			}
			if pe.Status != tt.status {
				t.Errorf("Status = %d, want %d", pe.Status, tt.status)
			}
			if pe.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", pe.Retryable, tt.retryable)
			}
			if pe.Message == "" {
				t.Error("Message is empty")
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", IsRetryable(err), tt.retryable)
			}
		})
	}
}

func TestDecodeUnparsableErrorBody(t *testing.T) {
	body := "<html>" + strings.Repeat("x", 1000) + "</html>"

	_, err := Decode(ModalityImage, 502, []byte(body))
	var me *MalformedResponseError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MalformedResponseError, got %T: %v", err, err)
	}
	if me.Status != 502 {
		t.Errorf("Status = %d, want 502", me.Status)
	}
	if !strings.HasPrefix(me.Excerpt, "<html>") {
		t.Errorf("Excerpt = %q, want body prefix", me.Excerpt)
	}
	if len(me.Excerpt) > excerptLimit+3 {
		t.Errorf("Excerpt length = %d, want at most %d", len(me.Excerpt), excerptLimit+3)
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("errors.Is(err, ErrMalformedResponse) = false")
	}
}

func TestDecodeMalformedSuccess(t *testing.T) {
	tests := []struct {
		name     string
		modality Modality
		body     string
	}{
		{"no candidates field", ModalityText, `{"usageMetadata":{}}`},
		{"empty candidates", ModalityImage, `{"candidates":[]}`},
		{"not json", ModalityText, `not json`},
		{"candidate without parts", ModalityText, `{"candidates":[{"content":{"parts":[]}}]}`},
		{"part without text", ModalityText, `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"AQID"}}]}}]}`},
		{"bad base64", ModalityImage, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"%%%"}}]}}]}`},
		{"prompt blocked", ModalityImage, `{"promptFeedback":{"blockReason":"SAFETY"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.modality, 200, []byte(tt.body))
			var me *MalformedResponseError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MalformedResponseError, got %T: %v", err, err)
			}
			if me.Status != 200 {
				t.Errorf("Status = %d, want 200", me.Status)
			}
		})
	}
}

func TestDecodeNoImageReturned(t *testing.T) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"I can't draw that."}]},"finishReason":"STOP"}]}`)

	_, err := Decode(ModalityImage, 200, body)
	var ne *NoImageReturnedError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NoImageReturnedError, got %T: %v", err, err)
	}
	if ne.Text != "I can't draw that." {
		t.Errorf("Text = %q", ne.Text)
	}
	if !strings.Contains(err.Error(), "I can't draw that.") {
		t.Errorf("error message should carry the model text, got %q", err.Error())
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("NoImageReturned should match ErrMalformedResponse")
	}
}

func TestDecodeNoImageWithoutText(t *testing.T) {
	body := []byte(`{"candidates":[{"finishReason":"IMAGE_SAFETY"}]}`)

	_, err := Decode(ModalityImage, 200, body)
	var ne *NoImageReturnedError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NoImageReturnedError, got %T: %v", err, err)
	}
	if ne.FinishReason != "IMAGE_SAFETY" {
		t.Errorf("FinishReason = %q", ne.FinishReason)
	}
	if !strings.Contains(err.Error(), "IMAGE_SAFETY") {
		t.Errorf("error message should name the finish reason, got %q", err.Error())
	}
}

func TestExcerptKeepsRunesWhole(t *testing.T) {
	s := "a" + strings.Repeat("é", excerptLimit)
	got := excerpt([]byte(s))
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("excerpt split a rune: %q", got)
	}
}
