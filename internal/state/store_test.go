package state

import (
	"errors"
	"testing"

	"github.com/hearthside/hearth/internal/model"
)

type recordingSaver struct {
	saves []*Family
	err   error
}

func (s *recordingSaver) Save(f *Family) error {
	s.saves = append(s.saves, f.Clone())
	return s.err
}

func TestStoreUpdatePersistsEachTransition(t *testing.T) {
	saver := &recordingSaver{}
	st := NewStore(Defaults(), saver, nil)

	err := st.Update(func(f *Family) error {
		_, err := AddUser(f, "Milo", "🦊", model.RoleKid)
		return err
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(saver.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(saver.saves))
	}
	if len(saver.saves[0].Users) != 2 {
		t.Errorf("persisted %d users, want 2", len(saver.saves[0].Users))
	}
}

func TestStoreUpdateErrorLeavesDocumentUntouched(t *testing.T) {
	saver := &recordingSaver{}
	st := NewStore(Defaults(), saver, nil)

	boom := errors.New("boom")
	err := st.Update(func(f *Family) error {
		f.FamilyName = "Wrecked"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if got := st.Snapshot().FamilyName; got != "Our Family" {
		t.Errorf("family name = %q; failed update leaked into the document", got)
	}
	if len(saver.saves) != 0 {
		t.Error("failed update was persisted")
	}
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	st := NewStore(Defaults(), nil, nil)

	snap := st.Snapshot()
	snap.FamilyName = "Scribbled"
	snap.Users[0].Points = 9999

	fresh := st.Snapshot()
	if fresh.FamilyName != "Our Family" {
		t.Error("snapshot mutation reached the live document")
	}
	if fresh.Users[0].Points != 0 {
		t.Error("snapshot user mutation reached the live document")
	}
}

func TestStoreReplaceSwapsWholeDocument(t *testing.T) {
	saver := &recordingSaver{}
	st := NewStore(Defaults(), saver, nil)

	restored := Defaults()
	restored.FamilyName = "Restored Household"
	if err := st.Replace(restored); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if got := st.Snapshot().FamilyName; got != "Restored Household" {
		t.Errorf("family name = %q after replace", got)
	}
	if len(saver.saves) != 1 {
		t.Errorf("saves = %d, want 1", len(saver.saves))
	}
}

func TestStoreReplaceReportsSaveFailure(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	st := NewStore(Defaults(), saver, nil)

	if err := st.Replace(Defaults()); err == nil {
		t.Error("expected error when persisting the restored document fails")
	}
}

func TestStoreUpdateSaveFailureKeepsInMemoryTransition(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	st := NewStore(Defaults(), saver, nil)

	err := st.Update(func(f *Family) error {
		f.FamilyName = "Renamed"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := st.Snapshot().FamilyName; got != "Renamed" {
		t.Errorf("family name = %q; a persistence failure must not roll back memory", got)
	}
}
