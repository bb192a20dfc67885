// Package snapshot is the persistence bridge between the in-memory
// record store and durable local storage. The whole household document
// is serialized to a single JSON blob under a fixed key on every state
// change, and rehydrated at startup by merging the stored fields over
// built-in defaults.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/state"
)

// StorageKey is the fixed identifier the household blob is stored under.
const StorageKey = "hearth:family"

type Bridge struct {
	kv     *localstore.KV
	logger *slog.Logger
}

func New(kv *localstore.KV, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{kv: kv, logger: logger}
}

// Save serializes the document minus the transient session selection.
// Implements state.Saver.
func (b *Bridge) Save(f *state.Family) error {
	c := f.Clone()
	c.CurrentUserID = ""

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := b.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load rehydrates the household document. Stored fields are unmarshalled
// over the built-in defaults, so a snapshot written before a field
// existed keeps that field's default. Read or parse failures are logged
// and fall back wholesale to defaults. The current session user is
// always empty after a load.
func (b *Bridge) Load() *state.Family {
	raw, ok, err := b.kv.Get(StorageKey)
	if err != nil {
		b.logger.Error("read snapshot, using defaults", "error", err)
		return state.Defaults()
	}
	if !ok {
		return state.Defaults()
	}

	f, err := Merge([]byte(raw))
	if err != nil {
		b.logger.Error("parse snapshot, using defaults", "error", err)
		return state.Defaults()
	}
	return f
}

// Merge unmarshals a stored blob over the built-in defaults: a present
// top-level field wins (even when empty), a missing one keeps the
// default. The session selection is reset regardless of what the blob
// holds.
func Merge(raw []byte) (*state.Family, error) {
	f := state.Defaults()
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	f.CurrentUserID = ""
	if f.PINs == nil {
		f.PINs = map[string]string{}
	}
	syncPINFlags(f)
	return f, nil
}

// syncPINFlags recomputes each user's has-PIN flag from the PIN map, in
// case an older snapshot stored one without the other.
func syncPINFlags(f *state.Family) {
	for i := range f.Users {
		_, ok := f.PINs[f.Users[i].ID]
		f.Users[i].HasPIN = ok
	}
}
