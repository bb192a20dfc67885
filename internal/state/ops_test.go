package state

import (
	"errors"
	"testing"
	"time"

	"github.com/hearthside/hearth/internal/model"
)

func testFamily(t *testing.T) *Family {
	t.Helper()
	f := Defaults()
	f.Users[0].Name = "Dana"
	return f
}

func addKid(t *testing.T, f *Family, name string) *model.User {
	t.Helper()
	u, err := AddUser(f, name, "🦊", model.RoleKid)
	if err != nil {
		t.Fatalf("add kid: %v", err)
	}
	return u
}

func addChoreFor(t *testing.T, f *Family, userID string, points int) *model.Chore {
	t.Helper()
	c, err := AddChore(f, ChoreParams{
		Title:      "Feed the cat",
		Points:     points,
		AssignedTo: userID,
		Recurrence: model.RecurrenceDaily,
	})
	if err != nil {
		t.Fatalf("add chore: %v", err)
	}
	return c
}

func TestToggleChorePaysOutAndTakesBack(t *testing.T) {
	f := testFamily(t)
	kid := addKid(t, f, "Milo")
	kid.Points = 350
	kid.LifetimeEarned = 500
	chore := addChoreFor(t, f, kid.ID, 50)

	if !ToggleChore(f, chore.ID) {
		t.Fatal("toggle reported no change")
	}
	kid = f.UserByID(kid.ID)
	if kid.Points != 400 {
		t.Errorf("points after complete = %d, want 400", kid.Points)
	}
	if kid.LifetimeEarned != 550 {
		t.Errorf("lifetime after complete = %d, want 550", kid.LifetimeEarned)
	}
	if !f.ChoreByID(chore.ID).Done {
		t.Error("chore not marked done")
	}

	if !ToggleChore(f, chore.ID) {
		t.Fatal("second toggle reported no change")
	}
	kid = f.UserByID(kid.ID)
	if kid.Points != 350 {
		t.Errorf("points after undo = %d, want 350", kid.Points)
	}
	if kid.LifetimeEarned != 500 {
		t.Errorf("lifetime after undo = %d, want 500", kid.LifetimeEarned)
	}
	if f.ChoreByID(chore.ID).Done {
		t.Error("chore still marked done after undo")
	}
}

func TestToggleChoreUnknownIDIsNoOp(t *testing.T) {
	f := testFamily(t)
	kid := addKid(t, f, "Milo")
	kid.Points = 100

	if ToggleChore(f, "nope") {
		t.Error("toggle of unknown chore reported a change")
	}
	if f.UserByID(kid.ID).Points != 100 {
		t.Error("ledger moved on unknown chore toggle")
	}
}

func TestDeleteUserRefusesLastUser(t *testing.T) {
	f := testFamily(t)
	only := f.Users[0]

	err := DeleteUser(f, only.ID)
	if !errors.Is(err, ErrLastUser) {
		t.Fatalf("err = %v, want ErrLastUser", err)
	}
	if len(f.Users) != 1 {
		t.Errorf("roster changed on refused delete: %d users", len(f.Users))
	}
}

func TestDeleteUserCascades(t *testing.T) {
	f := testFamily(t)
	kid := addKid(t, f, "Milo")
	other := addKid(t, f, "Ada")

	mine := addChoreFor(t, f, kid.ID, 10)
	theirs := addChoreFor(t, f, other.ID, 10)

	pending, err := RequestReward(f, "Movie night", 100, "", kid.ID)
	if err != nil {
		t.Fatalf("request reward: %v", err)
	}
	approved, err := RequestReward(f, "Ice cream", 50, "", kid.ID)
	if err != nil {
		t.Fatalf("request reward: %v", err)
	}
	if _, err := ApproveReward(f, approved.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := SetPIN(f, kid.ID, "hash"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	if err := SelectUser(f, kid.ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	kidID, pendingID, approvedID := kid.ID, pending.ID, approved.ID
	mineID, theirsID := mine.ID, theirs.ID

	if err := DeleteUser(f, kidID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if f.UserByID(kidID) != nil {
		t.Error("user still on roster")
	}
	if f.ChoreByID(mineID) != nil {
		t.Error("deleted user's chore survived")
	}
	if f.ChoreByID(theirsID) == nil {
		t.Error("other user's chore was removed")
	}
	if f.RewardByID(pendingID) != nil {
		t.Error("pending request survived the cascade")
	}
	if f.RewardByID(approvedID) == nil {
		t.Error("approved reward was removed; only pending requests cascade")
	}
	if _, ok := f.PINs[kidID]; ok {
		t.Error("PIN survived the cascade")
	}
	if f.CurrentUserID != "" {
		t.Error("session still points at deleted user")
	}
}

func TestRewardRequestAndApprove(t *testing.T) {
	f := testFamily(t)
	kid := addKid(t, f, "Milo")

	r, err := RequestReward(f, "New book", 75, "", kid.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !r.Pending() {
		t.Error("fresh request should be pending")
	}

	got, err := ApproveReward(f, r.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !got.Approved || got.Pending() {
		t.Error("reward not approved")
	}

	// approving again is a no-op, not an error
	if _, err := ApproveReward(f, r.ID); err != nil {
		t.Errorf("second approve: %v", err)
	}
}

func TestAddRewardIsImmediatelyVisible(t *testing.T) {
	f := testFamily(t)

	r, err := AddReward(f, "Pizza night", 200, "")
	if err != nil {
		t.Fatalf("add reward: %v", err)
	}
	if !r.Approved || r.Pending() {
		t.Error("catalog reward should not need approval")
	}
}

func TestUpsertMealReplacesSlot(t *testing.T) {
	f := testFamily(t)

	first, err := UpsertMeal(f, "2026-09-01", model.MealDinner, "Tacos")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := UpsertMeal(f, "2026-09-01", model.MealDinner, "Soup")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(f.Meals) != 1 {
		t.Fatalf("meals = %d, want 1", len(f.Meals))
	}
	if second.ID != first.ID {
		t.Error("replacement created a new slot")
	}
	if f.Meals[0].Title != "Soup" {
		t.Errorf("title = %q, want Soup", f.Meals[0].Title)
	}

	// a different slot on the same day is independent
	if _, err := UpsertMeal(f, "2026-09-01", model.MealLunch, "Sandwich"); err != nil {
		t.Fatalf("upsert lunch: %v", err)
	}
	if len(f.Meals) != 2 {
		t.Errorf("meals = %d, want 2", len(f.Meals))
	}
}

func TestUpsertMealEmptyTitleClearsSlot(t *testing.T) {
	f := testFamily(t)

	if _, err := UpsertMeal(f, "2026-09-01", model.MealDinner, "Tacos"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	m, err := UpsertMeal(f, "2026-09-01", model.MealDinner, "")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m != nil {
		t.Error("clearing returned a meal")
	}
	if len(f.Meals) != 0 {
		t.Errorf("meals = %d, want 0", len(f.Meals))
	}
}

func TestResetRecurringChores(t *testing.T) {
	f := testFamily(t)
	kid := addKid(t, f, "Milo")

	daily := addChoreFor(t, f, kid.ID, 10)
	weekly, err := AddChore(f, ChoreParams{
		Title:      "Take out trash",
		Points:     20,
		AssignedTo: kid.ID,
		Recurrence: model.RecurrenceWeekly,
	})
	if err != nil {
		t.Fatalf("add weekly: %v", err)
	}
	once, err := AddChore(f, ChoreParams{
		Title:      "Clean garage",
		Points:     100,
		AssignedTo: kid.ID,
		Recurrence: model.RecurrenceOnce,
	})
	if err != nil {
		t.Fatalf("add once: %v", err)
	}

	for _, id := range []string{daily.ID, weekly.ID, once.ID} {
		ToggleChore(f, id)
	}
	earned := f.UserByID(kid.ID).Points

	if n := ResetRecurringChores(f, time.Wednesday); n != 1 {
		t.Errorf("midweek reset cleared %d chores, want 1 (daily only)", n)
	}
	if f.ChoreByID(weekly.ID).Done == false {
		t.Error("weekly chore reset on a Wednesday")
	}

	ToggleChore(f, daily.ID) // complete it again
	if n := ResetRecurringChores(f, time.Monday); n != 2 {
		t.Errorf("Monday reset cleared %d chores, want 2", n)
	}
	if f.ChoreByID(once.ID).Done == false {
		t.Error("one-time chore was reset")
	}

	// resets never move the ledger
	if got := f.UserByID(kid.ID).Points; got != earned+daily.Points {
		t.Errorf("points = %d, want %d; reset must not touch the ledger", got, earned+daily.Points)
	}
}

func TestUpdateChoreDoesNotMovePaidPoints(t *testing.T) {
	f := testFamily(t)
	kid := addKid(t, f, "Milo")
	chore := addChoreFor(t, f, kid.ID, 50)

	ToggleChore(f, chore.ID)
	if f.UserByID(kid.ID).Points != 50 {
		t.Fatal("setup failed")
	}

	if _, err := UpdateChore(f, chore.ID, ChoreParams{
		Title:      "Feed the cat",
		Points:     80,
		AssignedTo: kid.ID,
		Recurrence: model.RecurrenceDaily,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if f.UserByID(kid.ID).Points != 50 {
		t.Error("editing the point value retroactively moved the balance")
	}

	// but the next toggle cycle uses the new value
	ToggleChore(f, chore.ID) // undo: -80
	if got := f.UserByID(kid.ID).Points; got != -30 {
		t.Errorf("points after undo at new value = %d, want -30", got)
	}
}

func TestSelectUserUnknownID(t *testing.T) {
	f := testFamily(t)
	if err := SelectUser(f, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRefreshUserDisplayOnlyTouchesParents(t *testing.T) {
	f := testFamily(t)
	parent := f.Users[0]
	kid := addKid(t, f, "Milo")

	if err := RefreshUserDisplay(f, parent.ID, "Dana Q", "https://cdn/avatar.png"); err != nil {
		t.Fatalf("refresh parent: %v", err)
	}
	if got := f.UserByID(parent.ID); got.Name != "Dana Q" || got.Avatar != "https://cdn/avatar.png" {
		t.Errorf("parent display not updated: %+v", got)
	}

	if err := RefreshUserDisplay(f, kid.ID, "Hacker", "x"); err != nil {
		t.Fatalf("refresh kid: %v", err)
	}
	if got := f.UserByID(kid.ID); got.Name != "Milo" {
		t.Error("kid profile changed by display refresh")
	}

	// empty fields keep the current values
	if err := RefreshUserDisplay(f, parent.ID, "", ""); err != nil {
		t.Fatalf("refresh empty: %v", err)
	}
	if got := f.UserByID(parent.ID); got.Name != "Dana Q" {
		t.Error("empty name overwrote the display name")
	}
}

func TestMergePhotosDedupesByURL(t *testing.T) {
	f := testFamily(t)
	AddPhoto(f, "https://photos/a.jpg", "")

	n := MergePhotos(f, []model.Photo{
		{URL: "https://photos/a.jpg"},
		{URL: "https://photos/b.jpg"},
		{URL: "https://photos/b.jpg"},
	})
	if n != 1 {
		t.Errorf("merged %d photos, want 1", n)
	}
	if len(f.Photos) != 2 {
		t.Errorf("photos = %d, want 2", len(f.Photos))
	}
}

func TestAppendEventsDoesNotDedupe(t *testing.T) {
	f := testFamily(t)
	e := model.CalendarEvent{ID: "prov-1", Title: "Dentist"}

	AppendEvents(f, []model.CalendarEvent{e})
	AppendEvents(f, []model.CalendarEvent{e})

	if len(f.Events) != 2 {
		t.Errorf("events = %d, want 2: provider sync appends as-is", len(f.Events))
	}
}
