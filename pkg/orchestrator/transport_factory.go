package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm/claude"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm/openai"
)

// TransportFactory builds a Transport for the configured provider once an
// API key has been resolved from the vault. Constructing the transport
// lazily (rather than once at New time) lets a key rotated mid-process via
// Vault.Set take effect on the very next Analyze call.
type TransportFactory func(ctx context.Context, provider, model, apiKey string) (llm.Transport, error)

// defaultTransportFactory wires the two provider packages this module
// ships: openai and claude. Unknown providers are a construction-time
// concern normally, but are surfaced here too since the provider name is
// only meaningfully checked once credentials are actually resolved.
func defaultTransportFactory(_ context.Context, provider, _ string, apiKey string) (llm.Transport, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return openai.New(apiKey, "")
	case "claude", "anthropic":
		return claude.New(apiKey)
	default:
		return nil, fmt.Errorf("orchestrator: unsupported llm provider %q", provider)
	}
}
