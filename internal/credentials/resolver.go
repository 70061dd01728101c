// Package credentials resolves the API key from an ordered list of sources.
package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

var ErrNoCredential = errors.New("no API key found")

type State int

const (
	NotFound State = iota
	Found
	Failed
)

// Outcome is the result of a single source lookup.
type Outcome struct {
	State State
	Value string
	Err   error
}

func Present(value string) Outcome  { return Outcome{State: Found, Value: value} }
func Absent() Outcome               { return Outcome{State: NotFound} }
func LookupError(err error) Outcome { return Outcome{State: Failed, Err: err} }

type LookupFunc func(ctx context.Context) Outcome

type Source struct {
	Name   string
	Lookup LookupFunc
}

// Attempt records one source that did not yield a key.
type Attempt struct {
	Source string
	Err    error
}

type NoCredentialFoundError struct {
	Attempts []Attempt
}

func (e *NoCredentialFoundError) Error() string {
	var b strings.Builder
	b.WriteString(ErrNoCredential.Error())
	b.WriteString(" (tried ")
	for i, a := range e.Attempts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Source)
		if a.Err != nil {
			b.WriteString(": ")
			b.WriteString(a.Err.Error())
		}
	}
	b.WriteString(")")
	return b.String()
}

func (e *NoCredentialFoundError) Is(target error) bool { return target == ErrNoCredential }

// Sources lists the attempted source names in the order they were tried.
func (e *NoCredentialFoundError) Sources() []string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Source
	}
	return names
}

type Resolver struct {
	sources []Source
	log     zerolog.Logger
}

func NewResolver(log zerolog.Logger, sources ...Source) *Resolver {
	return &Resolver{sources: sources, log: log}
}

// Resolve returns the first non-empty value in source order. A failed lookup
// is treated like a missing one and resolution moves on.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	var attempts []Attempt
	for _, src := range r.sources {
		out := src.Lookup(ctx)
		switch {
		case out.State == Found && strings.TrimSpace(out.Value) != "":
			r.log.Debug().Str("source", src.Name).Msg("API key resolved")
			return strings.TrimSpace(out.Value), nil
		case out.State == Failed:
			r.log.Debug().Str("source", src.Name).Err(out.Err).Msg("credential lookup failed, trying next source")
			attempts = append(attempts, Attempt{Source: src.Name, Err: out.Err})
		default:
			r.log.Debug().Str("source", src.Name).Msg("no API key in source")
			attempts = append(attempts, Attempt{Source: src.Name})
		}
	}
	return "", &NoCredentialFoundError{Attempts: attempts}
}
