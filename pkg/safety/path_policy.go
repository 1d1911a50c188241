package safety

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// defaultProtectedPrefixes are well-known OS/system directories that should
// never be casually deleted, regardless of what the LLM or the rule engine
// recommends.
var defaultProtectedPrefixes = []string{
	"/etc", "/bin", "/sbin", "/usr/bin", "/usr/sbin", "/boot", "/lib", "/lib64",
	"/system", "/windows", "/system32", "/program files", "/program files (x86)",
}

// PathPolicy is a small local heuristic safety layer: it protects
// well-known OS/system paths, flags dotfiles anywhere under the user's home
// directory for review, and protects any path matching a caller-supplied
// protect list. It is
// not a substitute for a real policy engine — it exists so the demo CLI and
// tests have a concrete, in-scope Layer to call.
type PathPolicy struct {
	homeDir       string
	protectGlobs  []string
}

// NewPathPolicy builds a PathPolicy. protectGlobs are additional
// filepath.Match patterns (matched against the lower-cased absolute path)
// that are scored as high protection. filepath.Match's '*' does not cross
// a '/'.
func NewPathPolicy(protectGlobs ...string) *PathPolicy {
	home, _ := os.UserHomeDir()
	return &PathPolicy{homeDir: home, protectGlobs: protectGlobs}
}

// Score implements Layer.
func (p *PathPolicy) Score(_ context.Context, path string) Score {
	lower := strings.ToLower(filepath.ToSlash(path))

	for _, prefix := range defaultProtectedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return Score{ProtectionLevel: ProtectionCritical, Confidence: 0.95}
		}
	}

	for _, g := range p.protectGlobs {
		if ok, _ := filepath.Match(strings.ToLower(g), lower); ok {
			return Score{ProtectionLevel: ProtectionHigh, Confidence: 0.9}
		}
	}

	if p.homeDir != "" && strings.HasPrefix(path, p.homeDir) {
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") {
			return Score{ProtectionLevel: ProtectionRequiresReview, Confidence: 0.6}
		}
	}

	return Score{ProtectionLevel: ProtectionNone, Confidence: 0.5}
}
