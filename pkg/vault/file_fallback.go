package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/internal/filelock"
)

// defaultFallbackTimeout mirrors the cache's file-lock acquisition timeout.
const defaultFallbackTimeout = 10 * time.Second

// fallbackDocument is the on-disk shape of the fallback file: a flat map
// from entry name ("api_key_<provider>") to its base64 AEAD record.
type fallbackDocument struct {
	Entries map[string]string `json:"entries"`
}

func (f *fileFallback) load() (fallbackDocument, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallbackDocument{Entries: map[string]string{}}, nil
		}
		return fallbackDocument{}, fmt.Errorf("vault: failed to read fallback file: %w", err)
	}
	var doc fallbackDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fallbackDocument{Entries: map[string]string{}}, nil
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}

func (f *fileFallback) setAtomic(ctx context.Context, entry, record string) error {
	return filelock.ReadModifyWrite(f.path, defaultFallbackTimeout, func(content []byte) ([]byte, error) {
		doc, err := f.parse(content)
		if err != nil {
			return nil, err
		}
		doc.Entries[entry] = record
		return json.MarshalIndent(doc, "", "  ")
	})
}

func (f *fileFallback) read(ctx context.Context, entry string) (string, bool, error) {
	doc, err := f.load()
	if err != nil {
		return "", false, err
	}
	record, ok := doc.Entries[entry]
	return record, ok, nil
}

func (f *fileFallback) delete(ctx context.Context, entry string) error {
	return filelock.ReadModifyWrite(f.path, defaultFallbackTimeout, func(content []byte) ([]byte, error) {
		doc, err := f.parse(content)
		if err != nil {
			return nil, err
		}
		if _, ok := doc.Entries[entry]; !ok {
			return nil, nil
		}
		delete(doc.Entries, entry)
		return json.MarshalIndent(doc, "", "  ")
	})
}

func (f *fileFallback) listEntries(ctx context.Context) ([]string, error) {
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Entries))
	for name := range doc.Entries {
		names = append(names, name)
	}
	return names, nil
}

func (f *fileFallback) parse(content []byte) (fallbackDocument, error) {
	if len(content) == 0 {
		return fallbackDocument{Entries: map[string]string{}}, nil
	}
	var doc fallbackDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return fallbackDocument{}, fmt.Errorf("vault: fallback file is corrupt: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}
