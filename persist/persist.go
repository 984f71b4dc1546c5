// Package persist writes and reads JSON snapshot files.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save encodes v as JSON and atomically replaces path with it. The data is
// written to a temporary file in the same directory and renamed over path,
// so a crash never leaves a half-written snapshot behind.
func Save(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: save %s: %w", path, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: save %s: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("persist: encode %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("persist: sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist: close %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("persist: rename %s: %w", path, err)
	}
	return nil
}

// Load decodes the JSON file at path into v. A missing file yields an error
// matching fs.ErrNotExist.
func Load(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("persist: load: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("persist: decode %s: %w", path, err)
	}
	return nil
}
