package filemeta

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// FingerprintLen is the length, in hex characters, of a single file's
// fingerprint digest.
const FingerprintLen = 16

// BatchKeyLen is the length, in hex characters, of a batch cache key.
const BatchKeyLen = 32

// Fingerprint returns a 16-hex-character digest of the canonicalized tuple
// (path, size-in-bytes, modified instant, created instant, extension). It
// is a content-address used to detect metadata drift, not a security token.
func Fingerprint(f FileMeta) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d\x00%s",
		f.Path, f.SizeBytes, f.ModifiedAt.UnixNano(), f.CreatedAt.UnixNano(), f.Ext)
	return hex.EncodeToString(h.Sum(nil))[:FingerprintLen]
}

// Fingerprints computes a path -> fingerprint map for a batch of files.
func Fingerprints(files []FileMeta) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = Fingerprint(f)
	}
	return out
}

// BatchKeyParams carries the analysis parameters folded into a batch cache
// key alongside the sorted file fingerprints.
type BatchKeyParams struct {
	Provider      string
	Model         string
	Temperature   float64
	MaxTokens     int
	SafetyEnabled bool
}

// BatchKey returns a 32-hex-character digest of (sorted fingerprints,
// provider, model, temperature, max-tokens, safety-enabled flag). It is the
// content-address used as the cache key for a whole batch.
func BatchKey(files []FileMeta, params BatchKeyParams) string {
	fps := make([]string, 0, len(files))
	for _, f := range files {
		fps = append(fps, Fingerprint(f))
	}
	sort.Strings(fps)

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%.6f\x00%d\x00%t",
		strings.Join(fps, ","), params.Provider, params.Model,
		params.Temperature, params.MaxTokens, params.SafetyEnabled)
	return hex.EncodeToString(h.Sum(nil))[:BatchKeyLen]
}
