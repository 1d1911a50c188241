// Command diskcleanup-demo is a thin CLI shell over the disk-cleanup
// pipeline: it wires configuration, vault, cache, and orchestrator
// together and dispatches to cobra subcommands. It contains no pipeline
// logic itself — every behavior lives in pkg/orchestrator and its
// collaborators.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/internal/logging"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/apply"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/config"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/diag"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/orchestrator"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/report"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/ux"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/web"
)

var (
	scanPath       string
	llmProvider    string
	llmModel       string
	forceRuleBased bool
	planPath       string
	statePath      string
	reportPath     string
	trashDir       string
	dryRun         bool
	listenAddr     string

	vaultProvider string
	vaultKey      string
)

func main() {
	logger := logging.NewConsole()

	rootCmd := &cobra.Command{
		Use:   "diskcleanup-demo",
		Short: "AI-assisted disk cleanup analysis",
		Long: `diskcleanup-demo scans a directory for candidate files and asks an LLM
(falling back to a deterministic rule engine when the LLM is unavailable)
whether each one is safe to delete, keep, or review.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ux.PrintHeader("Disk Cleanup")
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a directory, print recommendations, and write a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), logger)
		},
	}
	analyzeCmd.Flags().StringVar(&scanPath, "path", ".", "Directory to scan")
	analyzeCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider: openai, claude (default from config)")
	analyzeCmd.Flags().StringVar(&llmModel, "model", "", "Model override")
	analyzeCmd.Flags().BoolVar(&forceRuleBased, "rule-based", false, "Force the deterministic rule engine, skipping the LLM")
	analyzeCmd.Flags().StringVar(&planPath, "plan", ".diskcleanup-plan.yaml", "Path to write the pending cleanup plan")

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Carry out a plan's delete recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), logger)
		},
	}
	applyCmd.Flags().StringVar(&planPath, "plan", ".diskcleanup-plan.yaml", "Path to a plan written by analyze")
	applyCmd.Flags().StringVar(&statePath, "state", ".diskcleanup-state.yaml", "Path to the resumable apply-state file")
	applyCmd.Flags().StringVar(&scanPath, "root", ".", "Directory every applied path must resolve under")
	applyCmd.Flags().StringVar(&trashDir, "trash", "", "Move files here instead of deleting permanently")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", true, "Report what would happen without touching the filesystem")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render a plan as an HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(logger)
		},
	}
	reportCmd.Flags().StringVar(&planPath, "plan", ".diskcleanup-plan.yaml", "Path to a plan written by analyze")
	reportCmd.Flags().StringVar(&reportPath, "out", "diskcleanup-report.html", "Output HTML path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live JSON/websocket status page for a running pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger)
		},
	}
	serveCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8642", "Address to listen on")

	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage stored LLM API keys",
	}
	vaultSetCmd := &cobra.Command{
		Use:   "set",
		Short: "Store an API key for a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVaultSet(cmd.Context(), logger)
		},
	}
	vaultSetCmd.Flags().StringVar(&vaultProvider, "provider", "", "Provider name, e.g. openai, claude (required)")
	vaultSetCmd.Flags().StringVar(&vaultKey, "key", "", "API key to store (required)")
	_ = vaultSetCmd.MarkFlagRequired("provider")
	_ = vaultSetCmd.MarkFlagRequired("key")

	vaultGetCmd := &cobra.Command{
		Use:   "get",
		Short: "Report whether a key is stored for a provider (never prints the key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVaultGet(cmd.Context(), logger)
		},
	}
	vaultGetCmd.Flags().StringVar(&vaultProvider, "provider", "", "Provider name (required)")
	_ = vaultGetCmd.MarkFlagRequired("provider")

	vaultListCmd := &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVaultList(cmd.Context(), logger)
		},
	}

	vaultCmd.AddCommand(vaultSetCmd, vaultGetCmd, vaultListCmd)

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the persistent result cache",
	}
	cacheStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheStats(logger)
		},
	}
	cacheClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the result cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(logger)
		},
	}
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)

	diagCmd := &cobra.Command{
		Use:   "diag",
		Short: "Print pipeline health: breaker state, usage counters, cache stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiag(logger)
		},
	}

	rootCmd.AddCommand(analyzeCmd, applyCmd, reportCmd, serveCmd, vaultCmd, cacheCmd, diagCmd)

	if err := rootCmd.Execute(); err != nil {
		ux.PrintError("%v", err)
		os.Exit(1)
	}
}

func newOrchestrator(logger logging.Logger) (*orchestrator.Orchestrator, error) {
	cfg := config.LoadOrDefault()
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	return orchestrator.New(cfg, orchestrator.WithLogger(logger))
}

func runAnalyze(ctx context.Context, logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return fmt.Errorf("failed to construct orchestrator: %w", err)
	}

	files, err := scanDirectory(scanPath)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", scanPath, err)
	}
	if len(files) == 0 {
		ux.PrintWarning("no files found under %s", scanPath)
		return nil
	}

	bar := ux.NewProgressBar(1, fmt.Sprintf("analyzing %d files", len(files)))

	var opts []orchestrator.AnalyzeOption
	if forceRuleBased {
		opts = append(opts, orchestrator.WithForceRuleBased())
	}

	result, err := o.Analyze(ctx, files, opts...)
	_ = bar.Add(1)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	ux.PrintSection(fmt.Sprintf("mode=%s error_kind=%q avg_confidence=%.2f", result.Mode, string(result.ErrorKind), result.Summary.AverageConfidence))

	ux.PrintRecommendationsTable(result.Recommendations)

	sizes := make(map[string]int64, len(files))
	for _, f := range files {
		sizes[f.Path] = f.SizeBytes
	}
	plan := apply.NewPlan(result, sizes)
	if err := apply.SavePlan(plan, planPath); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	ux.PrintSuccess("wrote plan to %s (%d delete candidates)", planPath, len(plan.DeleteCandidates()))
	return nil
}

// scanDirectory walks path non-recursively into filemeta.FileMeta records.
// It is deliberately shallow: a real filesystem walker with symlink and
// permission handling is outside this demo's scope.
func scanDirectory(root string) ([]filemeta.FileMeta, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []filemeta.FileMeta
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(absRoot, entry.Name())
		fm, err := filemeta.New(
			path, entry.Name(), info.Size(), filepath.Ext(entry.Name()),
			info.ModTime(), info.ModTime(), info.ModTime(), absRoot,
			strings.HasPrefix(entry.Name(), "."), false,
		)
		if err != nil {
			continue
		}
		files = append(files, fm)
	}
	return files, nil
}

func runApply(ctx context.Context, logger logging.Logger) error {
	plan, err := apply.LoadPlan(planPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	state, err := apply.LoadState(statePath, planPath)
	if err != nil {
		return fmt.Errorf("failed to load apply state: %w", err)
	}

	exec := apply.New(apply.Config{Root: scanPath, Trash: trashDir, DryRun: dryRun})
	outcome, err := exec.Apply(ctx, plan, state)
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}
	if err := state.Save(statePath); err != nil {
		return fmt.Errorf("failed to save apply state: %w", err)
	}

	if dryRun {
		ux.PrintInfo("dry run: no files changed; skipped %d, failed %d", outcome.Skipped, outcome.Failed)
		return nil
	}
	ux.PrintSuccess("applied %d, skipped %d, failed %d, freed %d bytes", outcome.Applied, outcome.Skipped, outcome.Failed, outcome.BytesFreed)
	return nil
}

func runReport(logger logging.Logger) error {
	plan, err := apply.LoadPlan(planPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	recs := make([]cleanup.Recommendation, 0, len(plan.Items))
	var bytesFreed int64
	for _, item := range plan.Items {
		recs = append(recs, item.Recommendation)
		if item.Action == cleanup.ActionDelete {
			bytesFreed += item.SizeBytes
		}
	}
	result := cleanup.AnalysisResult{
		Mode:            plan.Mode,
		Recommendations: recs,
		Summary:         cleanup.Summarize(recs, plan.Mode, 0),
	}

	written, err := report.GenerateHTML(result, bytesFreed, reportPath)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	ux.PrintSuccess("wrote report to %s", written)
	return nil
}

func runServe(ctx context.Context, logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	cfg := config.LoadOrDefault()
	limits := diag.LimitsView{
		MaxDailyRequests: cfg.Limits.MaxDailyRequests,
		MaxDailyTokens:   cfg.Limits.MaxDailyTokens,
		MaxDailyCost:     cfg.Limits.MaxDailyCost,
		MaxSessionCost:   cfg.Limits.MaxSessionCost,
	}
	srv := web.New(o, limits, 0)
	ux.PrintInfo("serving status on http://%s", listenAddr)
	return srv.Start(ctx, listenAddr)
}

func runVaultSet(ctx context.Context, logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	if err := o.Vault().Set(ctx, vaultProvider, vaultKey); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}
	ux.PrintSuccess("stored key for provider %q", vaultProvider)
	return nil
}

func runVaultGet(ctx context.Context, logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	_, found, err := o.Vault().Get(ctx, vaultProvider)
	if err != nil {
		return fmt.Errorf("vault error for %q: %w", vaultProvider, err)
	}
	if found {
		ux.PrintSuccess("a key is stored for provider %q", vaultProvider)
	} else {
		ux.PrintWarning("no key stored for provider %q", vaultProvider)
	}
	return nil
}

func runVaultList(ctx context.Context, logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	providers, err := o.Vault().ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list providers: %w", err)
	}
	if len(providers) == 0 {
		ux.PrintInfo("no providers stored")
		return nil
	}
	for _, p := range providers {
		fmt.Println(p)
	}
	return nil
}

func runCacheStats(logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	stats := o.CacheStats()
	fmt.Printf("hits=%d misses=%d evictions=%d entries=%d size_bytes=%d last_cleanup=%s\n",
		stats.Hits, stats.Misses, stats.Evictions, stats.EntryCount, stats.SizeBytes,
		stats.LastCleanup.Format(time.RFC3339))
	return nil
}

func runCacheClear(logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	if err := o.ClearCache(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	ux.PrintSuccess("cache cleared")
	return nil
}

func runDiag(logger logging.Logger) error {
	o, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	rpt := diag.Snapshot(o)
	fmt.Printf("breaker=%s requests_today=%d tokens_today=%d cost_today=%s session_cost=%s rate_limit_hits=%d quota_exceeded=%d\n",
		rpt.BreakerState, rpt.Usage.RequestsToday, rpt.Usage.TokensToday,
		ux.FormatCost(rpt.Usage.CostToday), ux.FormatCost(rpt.Usage.SessionCost), rpt.Usage.RateLimitHits, rpt.Usage.QuotaExceededCount)
	fmt.Printf("cache: entries=%d hits=%d misses=%d evictions=%d\n",
		rpt.Cache.EntryCount, rpt.Cache.Hits, rpt.Cache.Misses, rpt.Cache.Evictions)
	return nil
}
