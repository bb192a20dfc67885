package snapshot

import (
	"testing"

	"github.com/hearthside/hearth/internal/database"
	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
)

func testKV(t *testing.T) *localstore.KV {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return localstore.NewKV(db)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	bridge := New(testKV(t), nil)

	f := state.Defaults()
	f.FamilyName = "The Harpers"
	kid, err := state.AddUser(f, "Milo", "🦊", model.RoleKid)
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	kid.Points = 350
	if _, err := state.AddChore(f, state.ChoreParams{
		Title:      "Water plants",
		Points:     25,
		AssignedTo: kid.ID,
		Recurrence: model.RecurrenceDaily,
	}); err != nil {
		t.Fatalf("add chore: %v", err)
	}
	if err := state.SelectUser(f, kid.ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := bridge.Save(f); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := bridge.Load()
	if got.FamilyName != "The Harpers" {
		t.Errorf("family name = %q", got.FamilyName)
	}
	if len(got.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(got.Users))
	}
	if got.UserByID(kid.ID).Points != 350 {
		t.Error("points did not survive the round trip")
	}
	if len(got.Chores) != 1 {
		t.Errorf("chores = %d, want 1", len(got.Chores))
	}
	if got.CurrentUserID != "" {
		t.Error("session selection survived persistence")
	}
}

func TestLoadMissingSnapshotUsesDefaults(t *testing.T) {
	bridge := New(testKV(t), nil)

	got := bridge.Load()
	if got.FamilyName != "Our Family" {
		t.Errorf("family name = %q, want default", got.FamilyName)
	}
	if len(got.Users) != 1 {
		t.Errorf("users = %d, want the default parent", len(got.Users))
	}
}

func TestLoadCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	kv := testKV(t)
	if err := kv.Set(StorageKey, "{not json"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	got := New(kv, nil).Load()
	if got.FamilyName != "Our Family" {
		t.Errorf("family name = %q, want default after corrupt blob", got.FamilyName)
	}
}

func TestMergeMissingFieldKeepsDefault(t *testing.T) {
	// a blob from an older build that never stored meals
	got, err := Merge([]byte(`{"family_name": "The Harpers"}`))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got.FamilyName != "The Harpers" {
		t.Errorf("family name = %q", got.FamilyName)
	}
	if got.Meals == nil {
		t.Error("missing field should keep the default empty collection")
	}
	if len(got.Users) != 1 {
		t.Errorf("users = %d, want the default parent kept", len(got.Users))
	}
}

func TestMergePresentEmptyFieldWins(t *testing.T) {
	got, err := Merge([]byte(`{"users": [], "family_name": ""}`))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(got.Users) != 0 {
		t.Errorf("users = %d; a present empty collection must win over the default", len(got.Users))
	}
	if got.FamilyName != "" {
		t.Errorf("family name = %q; a present empty string must win", got.FamilyName)
	}
}

func TestMergeSyncsPINFlags(t *testing.T) {
	got, err := Merge([]byte(`{
		"users": [
			{"id": "u1", "name": "Dana", "role": "parent", "has_pin": false},
			{"id": "u2", "name": "Milo", "role": "kid", "has_pin": true}
		],
		"pins": {"u1": "somehash"}
	}`))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !got.UserByID("u1").HasPIN {
		t.Error("u1 has a stored PIN but the flag is off")
	}
	if got.UserByID("u2").HasPIN {
		t.Error("u2 has no stored PIN but the flag is on")
	}
}

func TestMergeResetsSessionUser(t *testing.T) {
	got, err := Merge([]byte(`{"current_user_id": "u1"}`))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got.CurrentUserID != "" {
		t.Error("session selection must never survive a load")
	}
}
