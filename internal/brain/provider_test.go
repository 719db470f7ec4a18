package brain

import (
	"context"
	"testing"
)

type stubProvider struct {
	name      string
	available bool
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) Available() bool { return p.available }
func (p *stubProvider) Generate(context.Context, Request) (Response, error) {
	return Response{Content: p.name}, nil
}

func TestGetAvailableFallback(t *testing.T) {
	pm := NewProviderManager()
	pm.AddProvider(&stubProvider{name: "claude", available: false})
	pm.AddProvider(&stubProvider{name: "openai", available: true})
	pm.AddProvider(&stubProvider{name: "ollama", available: true})

	p := pm.GetAvailable()
	if p == nil || p.Name() != "openai" {
		t.Fatalf("GetAvailable = %v, want first available (openai)", p)
	}
}

func TestGetAvailablePreferred(t *testing.T) {
	pm := NewProviderManager()
	pm.AddProvider(&stubProvider{name: "claude", available: true})
	pm.AddProvider(&stubProvider{name: "ollama", available: true})

	pm.SetPreferred("ollama")
	if p := pm.GetAvailable(); p == nil || p.Name() != "ollama" {
		t.Fatalf("GetAvailable = %v, want preferred (ollama)", p)
	}

	// An unavailable preference falls back rather than failing.
	pm.SetPreferred("missing")
	if p := pm.GetAvailable(); p == nil || p.Name() != "claude" {
		t.Fatalf("GetAvailable = %v, want fallback (claude)", p)
	}
}

func TestGetAvailableNone(t *testing.T) {
	pm := NewProviderManager()
	pm.AddProvider(&stubProvider{name: "claude", available: false})
	if p := pm.GetAvailable(); p != nil {
		t.Fatalf("GetAvailable = %v, want nil when nothing is configured", p)
	}
}

func TestListAvailable(t *testing.T) {
	pm := NewProviderManager()
	pm.AddProvider(&stubProvider{name: "claude", available: true})
	pm.AddProvider(&stubProvider{name: "openai", available: false})
	pm.AddProvider(&stubProvider{name: "ollama", available: true})

	names := pm.ListAvailable()
	if len(names) != 2 || names[0] != "claude" || names[1] != "ollama" {
		t.Fatalf("ListAvailable = %v, want [claude ollama]", names)
	}
}
