package provider

import (
	"context"
	"sync"
)

// Fake is a scripted in-process provider for tests and offline demos. Each
// call consumes the next scripted response; the last one repeats.
type Fake struct {
	ProviderName string
	Responses    []string
	Err          error

	mu    sync.Mutex
	calls int
}

// NewFake creates a fake provider returning the scripted raw responses.
func NewFake(name string, responses ...string) *Fake {
	return &Fake{ProviderName: name, Responses: responses}
}

// NewFailingFake creates a fake provider that always fails.
func NewFailingFake(name string, err error) *Fake {
	return &Fake{ProviderName: name, Err: err}
}

func (f *Fake) Name() string { return f.ProviderName }

func (f *Fake) Complete(_ context.Context, _, _ string) (*Payload, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, &Error{Provider: f.ProviderName, Err: f.Err}
	}
	if len(f.Responses) == 0 {
		return &Payload{}, nil
	}
	if n >= len(f.Responses) {
		n = len(f.Responses) - 1
	}

	p, err := ParsePayload(f.Responses[n])
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Calls returns how many times Complete was invoked.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
