// Package vault is a credential store for LLM API keys: a master key is
// held once in the OS keyring (or an env-var fallback) and used to derive
// a per-record AES-GCM encryption key via PBKDF2-HMAC-SHA256. Resolution
// always falls back to an env var rather than hard-failing just because
// the keyring is unavailable.
package vault

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	serviceName    = "ai-disk-cleanup"
	masterKeyEntry = "master_key"

	masterKeyBytes = 32
	saltBytes      = 16
)

// IntegrityError is returned by Get when a record's authentication tag
// fails to verify — i.e. the ciphertext was tampered with or corrupted.
// Per the threat model, its message never echoes plaintext, ciphertext,
// or key material.
type IntegrityError struct {
	Provider string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("vault: integrity check failed for provider %q", e.Provider)
}

// keyringBackend is the narrow capability interface over the OS keyring,
// letting tests substitute a fake without touching the real OS keyring.
type keyringBackend interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeyring) Set(service, user, password string) error { return keyring.Set(service, user, password) }
func (osKeyring) Delete(service, user string) error { return keyring.Delete(service, user) }

// fileFallback persists records to a single file when the OS keyring is
// unreachable, using the same atomic-rename + flock discipline as
// pkg/cache, so a crash mid-write never corrupts the previous contents.
type fileFallback struct {
	path string
}

// Vault stores and retrieves per-provider API keys under authenticated
// encryption. The master key and its derived encryption key are resolved
// once at construction and cached in-process for the Vault's lifetime.
type Vault struct {
	mu   sync.RWMutex
	kr   keyringBackend
	file *fileFallback

	masterKey []byte
	salt      []byte

	derivedMu sync.Mutex
	derived   []byte // memoized PBKDF2 output
}

// Option configures New.
type Option func(*Vault)

// WithFileFallbackPath overrides the default fallback file location
// (normally <config-dir>/credentials.enc).
func WithFileFallbackPath(path string) Option {
	return func(v *Vault) { v.file = &fileFallback{path: path} }
}

// withKeyringBackend is test-only: it lets vault tests substitute a fake
// keyring instead of touching the real OS credential store.
func withKeyringBackend(kr keyringBackend) Option {
	return func(v *Vault) { v.kr = kr }
}

// New constructs a Vault, resolving or creating the master key: first the
// OS keyring, then the AI_DISK_CLEANUP_ENCRYPTION_KEY environment
// variable, then a freshly generated key. A generated key is written back
// to the OS keyring on a best-effort basis only; if that write fails, the
// key lives in this process alone and is not written to the file fallback.
func New(opts ...Option) (*Vault, error) {
	v := &Vault{kr: osKeyring{}}
	for _, opt := range opts {
		opt(v)
	}
	if v.file == nil {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		v.file = &fileFallback{path: dir + "/ai-disk-cleanup/credentials.enc"}
	}

	if err := v.loadOrCreateMasterKey(); err != nil {
		return nil, fmt.Errorf("vault: failed to initialize master key: %w", err)
	}
	return v, nil
}

func (v *Vault) loadOrCreateMasterKey() error {
	if raw, err := v.kr.Get(serviceName, masterKeyEntry); err == nil && raw != "" {
		key, salt, perr := decodeMasterKeyRecord(raw)
		if perr == nil {
			v.masterKey, v.salt = key, salt
			return nil
		}
	}

	if encoded := os.Getenv("AI_DISK_CLEANUP_ENCRYPTION_KEY"); encoded != "" {
		key, err := base64.URLEncoding.DecodeString(encoded)
		if err == nil && len(key) == masterKeyBytes {
			v.masterKey = key
			v.salt = make([]byte, saltBytes)
			if _, err := readRandom(v.salt); err != nil {
				return err
			}
			return nil
		}
	}

	key := make([]byte, masterKeyBytes)
	salt := make([]byte, saltBytes)
	if _, err := readRandom(key); err != nil {
		return err
	}
	if _, err := readRandom(salt); err != nil {
		return err
	}
	v.masterKey, v.salt = key, salt

	record := encodeMasterKeyRecord(key, salt)
	_ = v.kr.Set(serviceName, masterKeyEntry, record) // best-effort; file fallback still has it in-process
	return nil
}

// Set encrypts key and stores it under provider, preferring the OS
// keyring and falling back to the encrypted file store. The previous
// record is left intact unless the new one is durably written.
func (v *Vault) Set(ctx context.Context, provider, key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	record, err := v.encryptRecord(key)
	if err != nil {
		return fmt.Errorf("vault: failed to encrypt credential: %w", err)
	}

	if err := v.kr.Set(serviceName, entryName(provider), record); err == nil {
		return nil
	}
	return v.file.setAtomic(ctx, entryName(provider), record)
}

// Get decrypts and returns the stored key for provider. If no record is
// present in the keyring or file fallback, it checks <PROVIDER>_API_KEY
// in the environment before reporting absence.
func (v *Vault) Get(ctx context.Context, provider string) (string, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	record, found, err := v.readRecord(ctx, provider)
	if err != nil {
		return "", false, err
	}
	if !found {
		if env := os.Getenv(strings.ToUpper(provider) + "_API_KEY"); env != "" {
			return env, true, nil
		}
		return "", false, nil
	}

	key, err := v.decryptRecord(record)
	if err != nil {
		return "", false, &IntegrityError{Provider: provider}
	}
	return key, true, nil
}

func (v *Vault) readRecord(ctx context.Context, provider string) (string, bool, error) {
	if record, err := v.kr.Get(serviceName, entryName(provider)); err == nil && record != "" {
		return record, true, nil
	}
	record, found, err := v.file.read(ctx, entryName(provider))
	if err != nil {
		return "", false, fmt.Errorf("vault: failed to read fallback store: %w", err)
	}
	return record, found, nil
}

// Delete removes a provider's stored record. Absence is not an error.
func (v *Vault) Delete(ctx context.Context, provider string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	_ = v.kr.Delete(serviceName, entryName(provider))
	if err := v.file.delete(ctx, entryName(provider)); err != nil {
		return fmt.Errorf("vault: failed to delete fallback record: %w", err)
	}
	return nil
}

// knownEnvProviders lists the provider names ListProviders probes for an
// <PROVIDER>_API_KEY environment variable. The env var convention has no
// listing API of its own — unlike the file fallback's directory of
// entries — so there is no way to discover an arbitrary provider name
// from the environment alone; only names the transports actually support
// are worth checking.
var knownEnvProviders = []string{"openai", "claude", "anthropic"}

// ListProviders enumerates providers with a key available either from the
// file fallback or from a <PROVIDER>_API_KEY environment variable.
// Keyring-only entries that were never mirrored to the fallback file are
// not enumerable by design — the OS keyring offers no provider-agnostic
// listing API.
func (v *Vault) ListProviders(ctx context.Context) ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names, err := v.file.listEntries(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	providers := make([]string, 0, len(names))
	for _, n := range names {
		if p, ok := strings.CutPrefix(n, "api_key_"); ok && !seen[p] {
			seen[p] = true
			providers = append(providers, p)
		}
	}
	for _, p := range knownEnvProviders {
		if seen[p] {
			continue
		}
		if os.Getenv(strings.ToUpper(p)+"_API_KEY") != "" {
			seen[p] = true
			providers = append(providers, p)
		}
	}
	return providers, nil
}

// Test performs format-only validation of key for provider — prefix and
// length heuristics, never a network call — as a pure function with no
// side effects.
func Test(provider, key string) bool {
	if len(key) < 16 {
		return false
	}
	switch strings.ToLower(provider) {
	case "claude", "anthropic":
		return strings.HasPrefix(key, "sk-ant-")
	case "openai":
		return strings.HasPrefix(key, "sk-")
	default:
		return true
	}
}

func entryName(provider string) string {
	return "api_key_" + provider
}
