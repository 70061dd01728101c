package providers

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrMalformedResponse = errors.New("malformed response")
)

type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

func (e *InvalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

// ProviderError is a well-formed error envelope returned by the API.
// Retryable is advisory only; nothing in this package retries.
type ProviderError struct {
	Status    int
	Code      string
	Message   string
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%d %s]: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("API error [%d]: %s", e.Status, e.Message)
}

// MalformedResponseError means the body did not have the shape we expected.
type MalformedResponseError struct {
	Status  int
	Reason  string
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed response [%d]: %s", e.Status, e.Reason)
	if e.Excerpt != "" {
		msg += ": " + e.Excerpt
	}
	return msg
}

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// NoImageReturnedError is returned when an image request succeeded but the
// model answered without image data, usually with a refusal in Text.
type NoImageReturnedError struct {
	Text         string
	FinishReason string
}

func (e *NoImageReturnedError) Error() string {
	switch {
	case e.Text != "":
		return "no image data in response; model said: " + e.Text
	case e.FinishReason != "":
		return "no image data in response (finish reason " + e.FinishReason + ")"
	default:
		return "no image data in response"
	}
}

func (e *NoImageReturnedError) Is(target error) bool { return target == ErrMalformedResponse }

// IsRetryable reports whether err is a provider error the caller may retry.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}
