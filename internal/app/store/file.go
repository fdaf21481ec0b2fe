/*
Package store implements the persisted key/value blob store backing the community state.

This file contains the FileStore, the durable implementation: one file per key under a
data directory, with key names percent-encoded into safe file names. It is the server-side
analogue of the browser local storage the UI previously wrote to directly.
*/
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"commhub/internal/pkg/logx"

	"github.com/rs/zerolog"
)

const fileExt = ".json"

// FileStore persists each key as an individual file under dir.
// All I/O failures are absorbed: reads degrade to "absent" and writes to no-ops,
// with a logged warning so the failure stays observable.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewFileStore creates the data directory if needed and returns a FileStore over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	storeLogger := logx.Logger().With().Str("component", "FileStore").Logger()

	return &FileStore{
		dir:    dir,
		logger: storeLogger,
	}, nil
}

// encodeKey turns a store key into a safe file name. Bytes outside
// [a-zA-Z0-9._-] are percent-encoded so keys like
// "paid_access_granted_v1:room-id" round-trip losslessly.
func encodeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// decodeKey reverses encodeKey. Malformed names are returned as-is.
func decodeKey(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == '%' && i+2 < len(name) {
			var c byte
			if _, err := fmt.Sscanf(name[i+1:i+3], "%02X", &c); err == nil {
				b.WriteByte(c)
				i += 2
				continue
			}
		}
		b.WriteByte(name[i])
	}
	return b.String()
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, encodeKey(key)+fileExt)
}

// Get returns the blob stored under key. Any read error is treated as "absent".
func (f *FileStore) Get(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn().Err(err).Str("key", key).Msg("Blob read failed. Treating as absent.")
		}
		return nil, false
	}

	return data, true
}

// Set overwrites the blob stored under key. Writes go through a temporary file
// and a rename so a crash never leaves a half-written blob behind. Failures are
// absorbed with a logged warning.
func (f *FileStore) Set(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("Blob write failed. Value not persisted.")
		return
	}

	if err := os.Rename(tmp, target); err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("Blob rename failed. Value not persisted.")
		os.Remove(tmp)
	}
}

// Delete removes the key if present.
func (f *FileStore) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		f.logger.Warn().Err(err).Str("key", key).Msg("Blob delete failed.")
	}
}

// Keys returns every stored key with the given prefix.
func (f *FileStore) Keys(prefix string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		f.logger.Warn().Err(err).Msg("Data directory scan failed.")
		return nil
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key := decodeKey(strings.TrimSuffix(name, fileExt))
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}
