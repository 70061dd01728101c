package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Flag wraps a value passed explicitly on the command line.
func Flag(name, value string) Source {
	return Source{
		Name: "flag " + name,
		Lookup: func(context.Context) Outcome {
			if value == "" {
				return Absent()
			}
			return Present(value)
		},
	}
}

// Env reads one environment variable through lookup, normally os.LookupEnv.
func Env(name string, lookup func(string) (string, bool)) Source {
	return Source{
		Name: "environment variable " + name,
		Lookup: func(context.Context) Outcome {
			value, ok := lookup(name)
			if !ok || value == "" {
				return Absent()
			}
			return Present(value)
		},
	}
}

// SecretStore is the lookup capability behind the secret-store source.
type SecretStore interface {
	Get(service, account string) (string, error)
}

// Keyring is a SecretStore backed by the OS keychain (macOS Keychain,
// Secret Service on Linux, Windows Credential Manager).
type Keyring struct{}

func (Keyring) Get(service, account string) (string, error) {
	return keyring.Get(service, account)
}

type secretResult struct {
	value string
	err   error
}

// Secret looks up service/account in store. A missing entry is Absent; any
// other store error is reported as a failed lookup. The store call can block
// on an unlock prompt, so it runs in its own goroutine and gives up when ctx
// is done.
func Secret(store SecretStore, service, account string) Source {
	return Source{
		Name: "secret store " + service,
		Lookup: func(ctx context.Context) Outcome {
			if err := ctx.Err(); err != nil {
				return LookupError(err)
			}
			done := make(chan secretResult, 1)
			go func() {
				value, err := store.Get(service, account)
				done <- secretResult{value: value, err: err}
			}()

			var res secretResult
			select {
			case <-ctx.Done():
				return LookupError(ctx.Err())
			case res = <-done:
			}
			switch {
			case errors.Is(res.err, keyring.ErrNotFound):
				return Absent()
			case res.err != nil:
				return LookupError(fmt.Errorf("keyring: %w", res.err))
			case res.value == "":
				return Absent()
			}
			return Present(res.value)
		},
	}
}
