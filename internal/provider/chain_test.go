package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChainPrimarySuccess(t *testing.T) {
	primary := NewFake("openai", `{"suggestion":"from primary"}`)
	fallback := NewFake("anthropic", `{"suggestion":"from fallback"}`)

	chain, err := NewChainOf(primary, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, name, err := chain.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Suggestion != "from primary" {
		t.Errorf("expected primary payload, got %q", payload.Suggestion)
	}
	if name != "openai" {
		t.Errorf("expected provider openai, got %q", name)
	}
	if fallback.Calls() != 0 {
		t.Errorf("fallback should not be called, got %d calls", fallback.Calls())
	}
	if chain.LastUsed() != "openai" {
		t.Errorf("expected last used openai, got %q", chain.LastUsed())
	}
}

func TestChainFallsBack(t *testing.T) {
	primary := NewFailingFake("openai", errors.New("quota exceeded"))
	fallback := NewFake("anthropic", `{"suggestion":"rescued"}`)

	chain, err := NewChainOf(primary, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, name, err := chain.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Suggestion != "rescued" || name != "anthropic" {
		t.Errorf("expected fallback result, got %q from %q", payload.Suggestion, name)
	}
	if chain.LastUsed() != "anthropic" {
		t.Errorf("expected last used anthropic, got %q", chain.LastUsed())
	}
}

func TestChainAllFail(t *testing.T) {
	chain, err := NewChainOf(
		NewFailingFake("openai", errors.New("down")),
		NewFailingFake("anthropic", errors.New("also down")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = chain.Complete(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("expected error when all providers fail")
	}

	var ce *ChainError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ChainError, got %T", err)
	}
	if len(ce.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(ce.Attempts))
	}
	if ce.Attempts[0].Provider != "openai" || ce.Attempts[1].Provider != "anthropic" {
		t.Errorf("attempts out of order: %+v", ce.Attempts)
	}
	msg := err.Error()
	if !strings.Contains(msg, "down") || !strings.Contains(msg, "also down") {
		t.Errorf("aggregate message missing causes: %s", msg)
	}
	if chain.LastUsed() != "" {
		t.Errorf("no provider succeeded, last used should be empty, got %q", chain.LastUsed())
	}
}

func TestChainLazyConstruction(t *testing.T) {
	built := map[string]int{}
	factory := func(spec Spec) (Provider, error) {
		built[spec.Name]++
		if spec.Name == "groq" {
			return nil, errors.New("no groq key")
		}
		return NewFake(spec.Name, `{"suggestion":"ok"}`), nil
	}

	cfg := &ChainConfig{Providers: []Spec{{Name: "openai"}, {Name: "groq"}}}
	chain, err := NewChainWithFactory(cfg, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := chain.Complete(context.Background(), "sys", "user"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if built["openai"] != 1 {
		t.Errorf("expected openai built once, got %d", built["openai"])
	}
	if built["groq"] != 0 {
		t.Errorf("groq should never be built while primary succeeds, got %d", built["groq"])
	}
}

func TestChainFactoryErrorRecorded(t *testing.T) {
	factory := func(spec Spec) (Provider, error) {
		return nil, errors.New("unsupported provider: " + spec.Name)
	}

	cfg := &ChainConfig{Providers: []Spec{{Name: "mystery"}}}
	chain, err := NewChainWithFactory(cfg, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = chain.Complete(context.Background(), "sys", "user")
	var ce *ChainError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ChainError, got %v", err)
	}
	if len(ce.Attempts) != 1 || ce.Attempts[0].Provider != "mystery" {
		t.Errorf("unexpected attempts: %+v", ce.Attempts)
	}
}

func TestChainEmpty(t *testing.T) {
	if _, err := NewChainOf(); !errors.Is(err, ErrNoProviders) {
		t.Errorf("expected ErrNoProviders, got %v", err)
	}
	if _, err := NewChain(&ChainConfig{}); !errors.Is(err, ErrNoProviders) {
		t.Errorf("expected ErrNoProviders, got %v", err)
	}
	if _, err := NewChain(nil); !errors.Is(err, ErrNoProviders) {
		t.Errorf("expected ErrNoProviders, got %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DRAFTCOACH_PROVIDER", "Anthropic")
	t.Setenv("DRAFTCOACH_FALLBACK_PROVIDERS", "openai, groq, anthropic,")
	t.Setenv("DRAFTCOACH_MODEL", "claude-3-haiku-20240307")

	cfg := ConfigFromEnv()
	names := make([]string, len(cfg.Providers))
	for i, s := range cfg.Providers {
		names[i] = s.Name
	}
	want := []string{"anthropic", "openai", "groq"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
	if cfg.Providers[0].Model != "claude-3-haiku-20240307" {
		t.Errorf("primary model not carried: %+v", cfg.Providers[0])
	}
}
