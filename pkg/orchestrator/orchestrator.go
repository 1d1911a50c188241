// Package orchestrator composes the cache, adaptive batching + resilience
// layer, rule engine, safety layer, and credential vault into a single
// analyze(files) entry point. It is the only package in this module that
// wires all the others together; every dependency it owns is reachable
// through a narrow interface or an Option override, so the whole pipeline
// is mockable one collaborator at a time.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/internal/logging"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/batching"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/breaker"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cache"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/config"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/rules"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/safety"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/vault"
)

// Orchestrator is the analysis pipeline's single entry point. All fields
// are set at construction (New) and never reassigned afterward, except for
// the mutex-guarded batch-size ring and usage counters — so a *Orchestrator
// is safe for concurrent Analyze calls once constructed.
type Orchestrator struct {
	cfg *config.Config

	cache       *cache.Store
	vaultStore  *vault.Vault
	breakerInst *breaker.Breaker
	resilience  *batching.Resilience
	rulesEngine *rules.Engine
	safetyLayer safety.Layer
	logger      logging.Logger

	transportOverride llm.Transport
	transportFactory  TransportFactory

	usage *usageTracker

	batchMu  sync.Mutex
	batchCfg batching.Config

	// construction-time staging fields, consumed by New and never read
	// again afterward.
	safetyLayerSet bool
	cacheDir       string
}

// analyzeOptions carries per-call overrides to Analyze.
type analyzeOptions struct {
	forceRuleBased bool
}

// AnalyzeOption configures a single Analyze call.
type AnalyzeOption func(*analyzeOptions)

// WithForceRuleBased forces the call to use the rule engine exclusively,
// bypassing the LLM transport entirely for that one Analyze call.
func WithForceRuleBased() AnalyzeOption {
	return func(o *analyzeOptions) { o.forceRuleBased = true }
}

// New constructs an Orchestrator. Configuration-shape errors are raised
// here, eagerly, never from inside Analyze.
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("orchestrator: config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("orchestrator: invalid configuration: %w", err)
	}

	o := &Orchestrator{
		cfg:              cfg,
		rulesEngine:      rules.New(),
		transportFactory: defaultTransportFactory,
		logger:           logging.Noop{},
		usage:            newUsageTracker(),
		batchCfg: batching.Config{
			Min:      cfg.Batching.Min,
			Max:      cfg.Batching.Max,
			Target:   cfg.Batching.TargetDuration(),
			Adaptive: cfg.Batching.Adaptive,
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	if !o.safetyLayerSet {
		o.safetyLayer = safety.NewPathPolicy()
	}

	if o.breakerInst == nil {
		o.breakerInst = breaker.New(cfg.LLM.Provider, breaker.Config{
			FailureThreshold: uint32(cfg.Breaker.FailureThreshold),
			RecoveryTimeout:  cfg.Breaker.RecoveryTimeout(),
		})
	}
	if o.resilience == nil {
		retryCfg := batching.DefaultRetryConfig()
		retryCfg.MaxRetries = uint64(cfg.Batching.MaxRetries)
		o.resilience = batching.NewResilience(retryCfg, o.breakerInst)
	}
	if o.cache == nil {
		dir := o.cacheDir
		if dir == "" {
			dir = defaultCacheDir()
		}
		store, err := cache.New(cache.Config{
			Dir:             dir,
			TTL:             cfg.Cache.CacheTTL(),
			MaxSizeBytes:    int64(cfg.Cache.MaxSizeMiB) * 1024 * 1024,
			MaxEntries:      cfg.Cache.MaxEntries,
			CleanupInterval: cfg.Cache.CleanupInterval(),
			FileLockTimeout: 10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("orchestrator: failed to construct cache: %w", err)
		}
		o.cache = store
	}
	if o.vaultStore == nil {
		v, err := vault.New()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: failed to construct vault: %w", err)
		}
		o.vaultStore = v
	}

	return o, nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/ai-disk-cleanup"
	}
	return os.TempDir() + "/ai-disk-cleanup"
}

// Analyze runs the full eight-step pipeline over files, returning one
// AnalysisResult covering every input path exactly once. It never returns
// an error for analysis failures — those are encoded as mode=rule-based
// plus an ErrorKind on the result itself.
func (o *Orchestrator) Analyze(ctx context.Context, files []filemeta.FileMeta, opts ...AnalyzeOption) (cleanup.AnalysisResult, error) {
	start := time.Now()

	var callOpts analyzeOptions
	for _, opt := range opts {
		opt(&callOpts)
	}

	if len(files) == 0 {
		return cleanup.AnalysisResult{
			Recommendations: []cleanup.Recommendation{},
			Summary:         cleanup.Summarize(nil, cleanup.ModeRuleBased, 0),
			Mode:            cleanup.ModeRuleBased,
			Duration:        time.Since(start),
		}, nil
	}

	params := o.batchKeyParams()

	transport, usable, gateErrKind := o.resolveTransport(ctx, callOpts.forceRuleBased)
	if !usable {
		recs := o.applySafety(ctx, o.rulesEngine.Analyze(files))
		return o.finalize(recs, cleanup.ModeRuleBased, gateErrKind, len(files), start, o.currentBatchSize(len(files))), nil
	}

	if cached, ok := o.cache.Get(files, params); ok {
		return cached, nil
	}

	size := o.currentBatchSize(len(files))
	sizes := batching.Split(len(files), size)

	llmParams := llm.Params{
		Provider:    o.cfg.LLM.Provider,
		Model:       o.cfg.LLM.Model,
		Temperature: o.cfg.LLM.Temperature,
		MaxTokens:   o.cfg.LLM.MaxTokens,
		Timeout:     o.cfg.LLM.Timeout(),
	}

	recs := make([]cleanup.Recommendation, 0, len(files))
	allAI := true
	var worstErr cleanup.ErrorKind
	offset := 0
	for _, sub := range sizes {
		batch := files[offset : offset+sub]
		offset += sub

		subRecs, mode, kind := o.dispatchSubBatch(ctx, transport, batch, llmParams)
		if mode != cleanup.ModeAI {
			allAI = false
		}
		if cleanup.MoreSevere(kind, worstErr) {
			worstErr = kind
		}
		recs = append(recs, subRecs...)
	}

	recs = o.applySafety(ctx, recs)

	mode := cleanup.ModeRuleBased
	if allAI {
		mode = cleanup.ModeAI
		worstErr = cleanup.ErrorNone
	}

	result := o.finalize(recs, mode, worstErr, len(files), start, size)

	if err := o.cache.Put(files, params, result, o.cfg.Cache.CacheTTL()); err != nil {
		o.logger.Warnf("orchestrator: cache write failed: %v", err)
	}

	return result, nil
}

func (o *Orchestrator) finalize(recs []cleanup.Recommendation, mode cleanup.Mode, errKind cleanup.ErrorKind, fileCount int, start time.Time, batchSize int) cleanup.AnalysisResult {
	return cleanup.AnalysisResult{
		Recommendations: recs,
		Summary:         cleanup.Summarize(recs, mode, batchSize),
		Mode:            mode,
		ErrorKind:       errKind,
		Duration:        time.Since(start),
		FileCount:       fileCount,
	}
}

func (o *Orchestrator) batchKeyParams() filemeta.BatchKeyParams {
	return filemeta.BatchKeyParams{
		Provider:      o.cfg.LLM.Provider,
		Model:         o.cfg.LLM.Model,
		Temperature:   o.cfg.LLM.Temperature,
		MaxTokens:     o.cfg.LLM.MaxTokens,
		SafetyEnabled: o.safetyLayer != nil,
	}
}

func (o *Orchestrator) currentBatchSize(inputSize int) int {
	o.batchMu.Lock()
	defer o.batchMu.Unlock()
	return o.batchCfg.NextSize(inputSize)
}

func (o *Orchestrator) recordLatency(d time.Duration) {
	o.batchMu.Lock()
	defer o.batchMu.Unlock()
	o.batchCfg.RecordLatency(d)
}

// resolveTransport applies the usability gate: forced rule-based mode, an
// open breaker, exhausted usage limits, a vault integrity failure, or
// absent credentials each make the LLM unusable for this call, in that
// priority order.
func (o *Orchestrator) resolveTransport(ctx context.Context, forced bool) (llm.Transport, bool, cleanup.ErrorKind) {
	if forced {
		return nil, false, cleanup.ErrorNone
	}
	if o.breakerInst.IsOpen() {
		return nil, false, cleanup.ErrorBreakerOpen
	}
	if !o.usage.withinLimits(o.cfg.Limits) {
		o.usage.recordQuotaExceeded()
		return nil, false, cleanup.ErrorQuotaExceeded
	}

	if o.transportOverride != nil {
		return o.transportOverride, true, cleanup.ErrorNone
	}

	key, found, err := o.vaultStore.Get(ctx, o.cfg.LLM.Provider)
	var integrityErr *vault.IntegrityError
	if errors.As(err, &integrityErr) {
		return nil, false, cleanup.ErrorVaultIntegrity
	}
	if err != nil || !found {
		// Any other vault read error is treated identically to "no key":
		// the LLM is simply unavailable, not a reportable error kind.
		return nil, false, cleanup.ErrorNone
	}

	transport, ferr := o.transportFactory(ctx, o.cfg.LLM.Provider, o.cfg.LLM.Model, key)
	if ferr != nil {
		o.logger.Warnf("orchestrator: failed to construct transport: %v", ferr)
		return nil, false, cleanup.ErrorNone
	}
	return transport, true, cleanup.ErrorNone
}

// dispatchSubBatch runs one sub-batch through the resilience wrapper,
// falling back to the rule engine on any failure: usage exhaustion mid-call,
// privacy-boundary rejection, or a transport error surviving every retry.
func (o *Orchestrator) dispatchSubBatch(ctx context.Context, transport llm.Transport, files []filemeta.FileMeta, params llm.Params) ([]cleanup.Recommendation, cleanup.Mode, cleanup.ErrorKind) {
	if !o.usage.withinLimits(o.cfg.Limits) {
		o.usage.recordQuotaExceeded()
		return o.rulesEngine.Analyze(files), cleanup.ModeRuleBased, cleanup.ErrorQuotaExceeded
	}
	if err := llm.ValidateBatch(files); err != nil {
		o.logger.Warnf("orchestrator: rejecting sub-batch: %v", err)
		return o.rulesEngine.Analyze(files), cleanup.ModeRuleBased, cleanup.ErrorUnknown
	}

	callStart := time.Now()
	var resp llm.BatchResponse
	callErr := o.resilience.Do(ctx, func(ctx context.Context) error {
		r, err := transport.Analyze(ctx, llm.BatchRequest{Files: files, Params: params})
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	o.recordLatency(time.Since(callStart))

	if callErr != nil {
		if errors.Is(callErr, breaker.ErrOpen) {
			return o.rulesEngine.Analyze(files), cleanup.ModeRuleBased, cleanup.ErrorBreakerOpen
		}
		kind := llm.Classify(callErr)
		if kind == cleanup.ErrorRateLimit {
			o.usage.recordRateLimitHit()
		}
		return o.rulesEngine.Analyze(files), cleanup.ModeRuleBased, kind
	}

	o.usage.recordSuccess(resp.TokensUsed, o.cfg.Limits.CostPerRequest)
	return resp.Recommendations, cleanup.ModeAI, cleanup.ErrorNone
}

// UsageSnapshot returns a copy of the orchestrator's current usage counters.
func (o *Orchestrator) UsageSnapshot() UsageStats {
	return o.usage.snapshot()
}

// BreakerState reports the underlying circuit breaker's current state.
func (o *Orchestrator) BreakerState() breaker.State {
	return o.breakerInst.State()
}

// CacheStats reports the underlying result cache's current statistics.
func (o *Orchestrator) CacheStats() cache.Stats {
	return o.cache.StatsSnapshot()
}

// Vault exposes the orchestrator's credential vault for direct
// set/get/list/delete operations (e.g. from a CLI's `vault` subcommands).
func (o *Orchestrator) Vault() *vault.Vault {
	return o.vaultStore
}

// ClearCache empties the underlying result cache.
func (o *Orchestrator) ClearCache() error {
	return o.cache.Clear()
}
