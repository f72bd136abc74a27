// Package backup copies the local state documents to object storage and back.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/storage"
)

const (
	formatVersion = 1
	latestKey     = "backups/latest.json"
)

// Lister is a state store that can enumerate its keys.
type Lister interface {
	state.Store
	Keys() ([]string, error)
}

type Snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Documents map[string]json.RawMessage `json:"documents"`
}

// Backup uploads every document as one snapshot, both under a timestamped
// key and as the latest snapshot. It returns the timestamped key.
func Backup(ctx context.Context, store Lister, objects storage.Storage, now time.Time) (string, error) {
	keys, err := store.Keys()
	if err != nil {
		return "", fmt.Errorf("failed to list state keys: %w", err)
	}

	snap := Snapshot{
		Version:   formatVersion,
		CreatedAt: now.UTC(),
		Documents: make(map[string]json.RawMessage, len(keys)),
	}
	for _, k := range keys {
		raw, err := store.Get(k)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", k, err)
		}
		snap.Documents[k] = raw
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("backups/%s.json", now.UTC().Format("20060102T150405Z"))
	for _, k := range []string{key, latestKey} {
		err = objects.Put(ctx, k, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
	}

	slog.Info("backup uploaded", "key", key, "documents", len(snap.Documents))
	return key, nil
}

// Restore writes every document of the snapshot at key (latest when empty)
// back into store.
func Restore(ctx context.Context, store state.Store, objects storage.Storage, key string) (*Snapshot, error) {
	if key == "" {
		key = latestKey
	}

	body, err := objects.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var snap Snapshot
	err = json.NewDecoder(body).Decode(&snap)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != formatVersion {
		return nil, fmt.Errorf("unsupported backup version %d", snap.Version)
	}

	for k, raw := range snap.Documents {
		err = store.Set(k, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", k, err)
		}
	}

	slog.Info("backup restored", "key", key, "documents", len(snap.Documents))
	return &snap, nil
}
