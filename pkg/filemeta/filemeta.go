// Package filemeta defines the file metadata record that flows into the
// analysis pipeline. A FileMeta never carries file contents — only the
// non-content attributes a filesystem walker can observe.
package filemeta

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxSerializedBytes bounds how large a single FileMeta's wire form may be.
// It is the last line of defense against accidentally smuggling content
// (a huge "path" field, for instance) through the metadata channel.
const maxSerializedBytes = 1024

// FileMeta is a filesystem record for one file containing only
// non-content attributes. It is produced by an external scanner and is
// immutable once constructed.
type FileMeta struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	Ext        string    `json:"ext"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	AccessedAt time.Time `json:"accessed_at"`
	ParentDir  string    `json:"parent_dir"`
	Hidden     bool      `json:"hidden"`
	System     bool      `json:"system"`
}

// New validates and constructs a FileMeta. Path must be absolute and
// non-empty, and the serialized record must not exceed the 1 KiB ceiling.
func New(path, name string, sizeBytes int64, ext string, createdAt, modifiedAt, accessedAt time.Time, parentDir string, hidden, system bool) (FileMeta, error) {
	fm := FileMeta{
		Path:       path,
		Name:       name,
		SizeBytes:  sizeBytes,
		Ext:        ext,
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		AccessedAt: accessedAt,
		ParentDir:  parentDir,
		Hidden:     hidden,
		System:     system,
	}
	if err := fm.Validate(); err != nil {
		return FileMeta{}, err
	}
	return fm, nil
}

// Validate enforces the invariants from the data model: path is absolute
// and non-empty, and the record's serialized size stays under 1 KiB.
func (f FileMeta) Validate() error {
	if f.Path == "" {
		return fmt.Errorf("filemeta: path must not be empty")
	}
	if !isAbsolutePath(f.Path) {
		return fmt.Errorf("filemeta: path %q must be absolute", f.Path)
	}
	size, err := f.serializedSize()
	if err != nil {
		return fmt.Errorf("filemeta: failed to measure record size: %w", err)
	}
	if size > maxSerializedBytes {
		return fmt.Errorf("filemeta: serialized record for %q is %d bytes, exceeds %d byte cap", f.Path, size, maxSerializedBytes)
	}
	return nil
}

func (f FileMeta) serializedSize() (int, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// isAbsolutePath accepts both POSIX ("/...") and Windows ("C:\..." or
// "C:/...") absolute forms, since the scanner this package consumes from
// may run on either platform.
func isAbsolutePath(p string) bool {
	if len(p) == 0 {
		return false
	}
	if p[0] == '/' {
		return true
	}
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		return true
	}
	return false
}
