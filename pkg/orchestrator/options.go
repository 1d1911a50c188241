package orchestrator

import (
	"github.com/CoderDayton/ai-disk-cleanup-sub001/internal/logging"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/batching"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/breaker"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cache"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/safety"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/vault"
)

// Option configures an Orchestrator at construction time. Every dependency
// the orchestrator needs — cache, vault, breaker, safety layer, transport —
// is reachable through a narrow interface or concrete type an Option can
// override, so tests substitute fakes without touching Orchestrator's
// internals.
type Option func(*Orchestrator)

// WithCache overrides the default on-disk result cache (rooted under the
// user's cache directory) with a caller-constructed Store.
func WithCache(store *cache.Store) Option {
	return func(o *Orchestrator) { o.cache = store }
}

// WithVault overrides the default OS-keyring-backed Vault.
func WithVault(v *vault.Vault) Option {
	return func(o *Orchestrator) { o.vaultStore = v }
}

// WithBreaker overrides the default per-provider circuit breaker.
func WithBreaker(b *breaker.Breaker) Option {
	return func(o *Orchestrator) { o.breakerInst = b }
}

// WithSafetyLayer overrides the default safety.PathPolicy. Passing nil
// disables overrides entirely: fusion still runs (safety.SafeScore treats a
// nil layer as the weakest possible score), but no recommendation is ever
// downgraded.
func WithSafetyLayer(layer safety.Layer) Option {
	return func(o *Orchestrator) { o.safetyLayer = layer; o.safetyLayerSet = true }
}

// WithTransport pins a fixed Transport, bypassing vault credential
// resolution and the default provider factory entirely. Intended for
// tests: usage limits and the circuit breaker still gate dispatch
// normally, only the "do we have a usable provider" check is short-circuited.
func WithTransport(t llm.Transport) Option {
	return func(o *Orchestrator) { o.transportOverride = t }
}

// WithTransportFactory overrides how a Transport is built from a resolved
// API key, for providers beyond the two this module ships.
func WithTransportFactory(f TransportFactory) Option {
	return func(o *Orchestrator) { o.transportFactory = f }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithCacheDir overrides the directory the default cache.Store persists
// under, when no explicit WithCache is supplied.
func WithCacheDir(dir string) Option {
	return func(o *Orchestrator) { o.cacheDir = dir }
}

// WithResilience overrides the default retry+breaker wrapper entirely,
// letting callers (tests, chiefly) supply a Resilience built from a custom
// RetryConfig and Breaker — e.g. millisecond-scale backoff so a retry
// cascade test doesn't need to wait on real wall-clock delay.
func WithResilience(r *batching.Resilience) Option {
	return func(o *Orchestrator) { o.resilience = r }
}
