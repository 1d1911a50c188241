// Package rules provides the deterministic, network-free fallback analyzer.
// It produces conservative recommendations by matching a file's name and
// parent directory against a fixed table of categories, evaluated in a
// fixed order with first-match-wins semantics.
package rules

import (
	"strings"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
)

const largeMediaThresholdBytes = 100 * 1024 * 1024 // 100 MiB

// category describes one row of the recognized-categories table.
type category struct {
	name           string
	nameGlobs      []string
	parentGlobs    []string
	action         cleanup.Action
	confidence     float64
	risk           cleanup.RiskLevel
	extraPredicate func(filemeta.FileMeta) bool
}

// table is evaluated top to bottom; the first matching row wins. The
// "unknown" category never matches here — it is the Engine's default.
var table = []category{
	{
		name:        "temporary",
		nameGlobs:   []string{"*.tmp", "*.temp", "~*", "*.swp", ".ds_store", "thumbs.db"},
		parentGlobs: []string{"*/tmp/*", "*/temp/*", "*/cache/*"},
		action:      cleanup.ActionDelete,
		confidence:  0.9,
		risk:        cleanup.RiskLow,
	},
	{
		name:       "backup",
		nameGlobs:  []string{"*.bak", "*.backup", "*.old", "*.orig"},
		action:     cleanup.ActionReview,
		confidence: 0.7,
		risk:       cleanup.RiskMedium,
	},
	{
		name:       "large_media",
		nameGlobs:  []string{"*.mp4", "*.avi", "*.mov", "*.mkv"},
		action:     cleanup.ActionReview,
		confidence: 0.6,
		risk:       cleanup.RiskMedium,
		extraPredicate: func(f filemeta.FileMeta) bool {
			return f.SizeBytes > largeMediaThresholdBytes
		},
	},
	{
		name:        "system",
		nameGlobs:   []string{"*.sys", "*.dll", "*.exe", "*.so", "*.dylib"},
		parentGlobs: []string{"*/windows/*", "*/system32/*", "*/system/*"},
		action:      cleanup.ActionKeep,
		confidence:  0.95,
		risk:        cleanup.RiskLow,
	},
	{
		name:       "development",
		nameGlobs:  []string{"*.pyc", "*.pyo", "__pycache__", "*.class", "node_modules"},
		action:     cleanup.ActionReview,
		confidence: 0.8,
		risk:       cleanup.RiskMedium,
	},
}

// unknown is the default category when nothing else matches.
var unknown = category{
	name:       "unknown",
	action:     cleanup.ActionKeep,
	confidence: 0.5,
	risk:       cleanup.RiskMedium,
}

// Engine is the deterministic, side-effect-free fallback analyzer.
type Engine struct{}

// New returns a ready-to-use rule Engine. It has no configuration: the
// category table is fixed at compile time.
func New() *Engine {
	return &Engine{}
}

// Analyze produces one recommendation per input file, in input order.
// Running Analyze on the same input twice always yields identical output:
// there is no time, random, or I/O dependency anywhere in this path.
func (e *Engine) Analyze(files []filemeta.FileMeta) []cleanup.Recommendation {
	recs := make([]cleanup.Recommendation, len(files))
	for i, f := range files {
		recs[i] = e.analyzeOne(f)
	}
	return recs
}

func (e *Engine) analyzeOne(f filemeta.FileMeta) cleanup.Recommendation {
	cat := e.classify(f)
	return cleanup.Recommendation{
		Path:       f.Path,
		Category:   cat.name,
		Action:     cat.action,
		Confidence: cat.confidence,
		Rationale:  rationale(cat.name, f),
		Risk:       cat.risk,
	}
}

func (e *Engine) classify(f filemeta.FileMeta) category {
	name := strings.ToLower(f.Name)
	parent := strings.ToLower(f.ParentDir)

	for _, cat := range table {
		if !matchesAny(cat.nameGlobs, name) && !matchesParentAny(cat.parentGlobs, parent) {
			continue
		}
		if cat.extraPredicate != nil && !cat.extraPredicate(f) {
			continue
		}
		return cat
	}
	return unknown
}

// matchesParentAny is matchesAny for parentGlobs specifically. Every
// parentGlobs entry is shaped "*/name/*", meant to match any path whose
// final directory component is "name" — but a bare parent directory like
// "/home/u/cache" has nothing after "cache" for the trailing "*" to
// consume. Appending a trailing separator before matching gives the
// trailing "*" an empty string to match, the same way a full file path
// under that directory would.
func matchesParentAny(globs []string, candidate string) bool {
	if candidate != "" && !strings.HasSuffix(candidate, "/") {
		candidate += "/"
	}
	return matchesAny(globs, candidate)
}

// matchesAny reports whether candidate matches any glob in globs. Unlike
// filepath.Match, '*' spans '/' here — parent-directory globs like
// "*/tmp/*" must match a real absolute path such as "/home/u/tmp/x", not
// just a single path segment. As a second chance, a glob also matches if
// candidate ends with the glob's literal (non-wildcard) remainder, so
// "*/cache/*" still matches a path that ends in ".../cache/" with nothing
// after it.
func matchesAny(globs []string, candidate string) bool {
	for _, g := range globs {
		if fnmatch(g, candidate) {
			return true
		}
		if stripped := strings.ReplaceAll(g, "*", ""); stripped != "" && strings.HasSuffix(candidate, stripped) {
			return true
		}
	}
	return false
}

// fnmatch is a small shell-glob matcher where '*' matches any sequence of
// characters (including '/') and '?' matches exactly one character. It
// mirrors Python's fnmatch.fnmatch, which the rule table's glob shapes are
// modeled on.
func fnmatch(pattern, s string) bool {
	var sIdx, pIdx, starIdx, starSIdx int
	starIdx = -1
	for sIdx < len(s) {
		switch {
		case pIdx < len(pattern) && (pattern[pIdx] == '?' || pattern[pIdx] == s[sIdx]):
			sIdx++
			pIdx++
		case pIdx < len(pattern) && pattern[pIdx] == '*':
			starIdx = pIdx
			starSIdx = sIdx
			pIdx++
		case starIdx != -1:
			pIdx = starIdx + 1
			starSIdx++
			sIdx = starSIdx
		default:
			return false
		}
	}
	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}
	return pIdx == len(pattern)
}

func rationale(catName string, f filemeta.FileMeta) string {
	switch catName {
	case "temporary":
		return "matches temporary-file pattern (name or parent directory)"
	case "backup":
		return "matches backup-file naming convention"
	case "large_media":
		return "large media file, review before deleting"
	case "system":
		return "matches system/executable file pattern"
	case "development":
		return "development build artifact or cache directory"
	default:
		return "no rule matched; defaulting to conservative keep"
	}
}
