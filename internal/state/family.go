package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/hearthside/hearth/internal/model"
)

// Family is the whole record store for one household: the six entity
// collections plus the parent PIN map. CurrentUserID is the transient
// session selection; it is stripped before persistence and always empty
// after a load.
type Family struct {
	FamilyName    string                `json:"family_name"`
	Users         []model.User          `json:"users"`
	Chores        []model.Chore         `json:"chores"`
	Rewards       []model.Reward        `json:"rewards"`
	Events        []model.CalendarEvent `json:"events"`
	Meals         []model.Meal          `json:"meals"`
	Photos        []model.Photo         `json:"photos"`
	PINs          map[string]string     `json:"pins,omitempty"`
	CurrentUserID string                `json:"current_user_id,omitempty"`
}

// Defaults returns the built-in starting state: a named household with a
// single parent profile, so the roster invariant holds from first boot.
func Defaults() *Family {
	return &Family{
		FamilyName: "Our Family",
		Users: []model.User{
			{
				ID:        uuid.NewString(),
				Name:      "Parent",
				Avatar:    "🙂",
				Role:      model.RoleParent,
				CreatedAt: time.Now().UTC(),
			},
		},
		Chores:  []model.Chore{},
		Rewards: []model.Reward{},
		Events:  []model.CalendarEvent{},
		Meals:   []model.Meal{},
		Photos:  []model.Photo{},
		PINs:    map[string]string{},
	}
}

// Clone returns a deep copy of the family document.
func (f *Family) Clone() *Family {
	c := &Family{
		FamilyName:    f.FamilyName,
		Users:         append([]model.User(nil), f.Users...),
		Chores:        append([]model.Chore(nil), f.Chores...),
		Rewards:       append([]model.Reward(nil), f.Rewards...),
		Events:        append([]model.CalendarEvent(nil), f.Events...),
		Meals:         append([]model.Meal(nil), f.Meals...),
		Photos:        append([]model.Photo(nil), f.Photos...),
		PINs:          make(map[string]string, len(f.PINs)),
		CurrentUserID: f.CurrentUserID,
	}
	for k, v := range f.PINs {
		c.PINs[k] = v
	}
	return c
}

// UserByID returns a pointer into f.Users, or nil.
func (f *Family) UserByID(id string) *model.User {
	for i := range f.Users {
		if f.Users[i].ID == id {
			return &f.Users[i]
		}
	}
	return nil
}

// ChoreByID returns a pointer into f.Chores, or nil.
func (f *Family) ChoreByID(id string) *model.Chore {
	for i := range f.Chores {
		if f.Chores[i].ID == id {
			return &f.Chores[i]
		}
	}
	return nil
}

// RewardByID returns a pointer into f.Rewards, or nil.
func (f *Family) RewardByID(id string) *model.Reward {
	for i := range f.Rewards {
		if f.Rewards[i].ID == id {
			return &f.Rewards[i]
		}
	}
	return nil
}

// MealAt returns a pointer into f.Meals for the (date, type) slot, or nil.
func (f *Family) MealAt(date string, mealType model.MealType) *model.Meal {
	for i := range f.Meals {
		if f.Meals[i].Date == date && f.Meals[i].Type == mealType {
			return &f.Meals[i]
		}
	}
	return nil
}
