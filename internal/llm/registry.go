package llm

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Factory constructs a provider-specific Client.
type Factory func(ctx context.Context) (Client, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a provider constructible by name. Backends register
// themselves in init.
func Register(name string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[name] = f
}

// New constructs the Client registered under provider.
func New(ctx context.Context, provider string) (Client, error) {
	regMu.RLock()
	f, ok := factories[provider]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("llm: unknown provider %q (have %v)", provider, providerNames())
	}
	return f(ctx)
}

// FromEnv constructs a Client, auto-detecting the provider when the
// argument is empty. Priority: explicit argument, LLM_PROVIDER env var,
// NEBIUS_API_KEY presence, GEMINI_API_KEY presence.
func FromEnv(ctx context.Context, provider string) (Client, error) {
	if provider == "" {
		provider = strings.TrimSpace(os.Getenv("LLM_PROVIDER"))
	}
	if provider == "" {
		switch {
		case strings.TrimSpace(os.Getenv("NEBIUS_API_KEY")) != "":
			provider = "nebius"
		case strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "":
			provider = "gemini"
		default:
			return nil, fmt.Errorf("llm: no API key found, set NEBIUS_API_KEY or GEMINI_API_KEY")
		}
	}
	return New(ctx, provider)
}

func providerNames() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
