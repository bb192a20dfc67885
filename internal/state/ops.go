// Package state holds the in-memory record store for a household and
// the mutation operations over it. Operations take a Family document
// and edit it in place; the Store container applies them to a private
// clone and atomically publishes the result, so callers observe each
// transition as a single replace.
package state

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthside/hearth/internal/chore"
	"github.com/hearthside/hearth/internal/model"
)

var (
	// ErrLastUser guards the roster against becoming empty.
	ErrLastUser = errors.New("cannot delete the last remaining user")

	ErrUserNotFound   = errors.New("user not found")
	ErrChoreNotFound  = errors.New("chore not found")
	ErrRewardNotFound = errors.New("reward not found")
	ErrEventNotFound  = errors.New("event not found")
	ErrMealNotFound   = errors.New("meal not found")
	ErrPhotoNotFound  = errors.New("photo not found")

	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidMealType   = errors.New("invalid meal type")
	ErrTitleRequired     = errors.New("title is required")
	ErrNegativePoints    = errors.New("points must be >= 0")
)

// --- Users ---

func AddUser(f *Family, name, avatar string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTitleRequired
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	u := model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Avatar:    avatar,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	f.Users = append(f.Users, u)
	return f.UserByID(u.ID), nil
}

func UpdateUser(f *Family, id, name, avatar string, role model.Role) (*model.User, error) {
	u := f.UserByID(id)
	if u == nil {
		return nil, ErrUserNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTitleRequired
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	u.Name = name
	u.Avatar = avatar
	u.Role = role
	return u, nil
}

// RefreshUserDisplay updates only the cosmetic display fields of a
// parent profile from an external identity provider. Non-parent users
// and empty fields are left untouched.
func RefreshUserDisplay(f *Family, id, name, avatar string) error {
	u := f.UserByID(id)
	if u == nil {
		return ErrUserNotFound
	}
	if u.Role != model.RoleParent {
		return nil
	}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	if avatar != "" {
		u.Avatar = avatar
	}
	return nil
}

// DeleteUser removes a user, every chore assigned to them, their pending
// reward requests, and their PIN. Deleting the sole remaining user is
// refused with ErrLastUser and leaves the roster unchanged.
func DeleteUser(f *Family, id string) error {
	if f.UserByID(id) == nil {
		return ErrUserNotFound
	}
	if len(f.Users) == 1 {
		return ErrLastUser
	}

	users := f.Users[:0]
	for _, u := range f.Users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	f.Users = users

	chores := f.Chores[:0]
	for _, c := range f.Chores {
		if c.AssignedTo != id {
			chores = append(chores, c)
		}
	}
	f.Chores = chores

	rewards := f.Rewards[:0]
	for _, r := range f.Rewards {
		if r.RequestedBy == id && !r.Approved {
			continue
		}
		rewards = append(rewards, r)
	}
	f.Rewards = rewards

	delete(f.PINs, id)
	if f.CurrentUserID == id {
		f.CurrentUserID = ""
	}
	return nil
}

// SetPIN stores a hashed PIN for a user and marks the profile.
func SetPIN(f *Family, id, pinHash string) error {
	u := f.UserByID(id)
	if u == nil {
		return ErrUserNotFound
	}
	if f.PINs == nil {
		f.PINs = map[string]string{}
	}
	f.PINs[id] = pinHash
	u.HasPIN = true
	return nil
}

// ClearPIN removes a user's PIN.
func ClearPIN(f *Family, id string) error {
	u := f.UserByID(id)
	if u == nil {
		return ErrUserNotFound
	}
	delete(f.PINs, id)
	u.HasPIN = false
	return nil
}

// SelectUser records the session profile. This is roster selection, not
// authentication; the selection never survives a reload.
func SelectUser(f *Family, id string) error {
	if f.UserByID(id) == nil {
		return ErrUserNotFound
	}
	f.CurrentUserID = id
	return nil
}

// ClearSession drops the session profile selection.
func ClearSession(f *Family) {
	f.CurrentUserID = ""
}

// --- Chores ---

// ChoreParams is the full chore payload; updates replace the whole
// record, point value included.
type ChoreParams struct {
	Title       string
	Description string
	Points      int
	AssignedTo  string
	Recurrence  model.Recurrence
	DueDate     string
	Icon        string
}

func (p *ChoreParams) validate(f *Family) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.Points < 0 {
		return ErrNegativePoints
	}
	if !p.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if f.UserByID(p.AssignedTo) == nil {
		return ErrUserNotFound
	}
	return nil
}

func AddChore(f *Family, p ChoreParams) (*model.Chore, error) {
	if err := p.validate(f); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := model.Chore{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		Points:      p.Points,
		AssignedTo:  p.AssignedTo,
		Recurrence:  p.Recurrence,
		DueDate:     p.DueDate,
		Icon:        p.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.Chores = append(f.Chores, c)
	return f.ChoreByID(c.ID), nil
}

// UpdateChore replaces the chore record wholesale. A changed point value
// does not retroactively move any balance already paid out; only a
// toggle does that.
func UpdateChore(f *Family, id string, p ChoreParams) (*model.Chore, error) {
	c := f.ChoreByID(id)
	if c == nil {
		return nil, ErrChoreNotFound
	}
	if err := p.validate(f); err != nil {
		return nil, err
	}
	c.Title = p.Title
	c.Description = p.Description
	c.Points = p.Points
	c.AssignedTo = p.AssignedTo
	c.Recurrence = p.Recurrence
	c.DueDate = p.DueDate
	c.Icon = p.Icon
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

func DeleteChore(f *Family, id string) error {
	if f.ChoreByID(id) == nil {
		return ErrChoreNotFound
	}
	chores := f.Chores[:0]
	for _, c := range f.Chores {
		if c.ID != id {
			chores = append(chores, c)
		}
	}
	f.Chores = chores
	return nil
}

// ToggleChore flips a chore's done flag and moves the assignee's ledger
// in the same transition: completing credits points and lifetime earned
// by the chore's value, un-completing debits both by the same amount.
// An unknown chore id is a no-op; the returned bool reports whether
// anything changed.
func ToggleChore(f *Family, id string) bool {
	c := f.ChoreByID(id)
	if c == nil {
		return false
	}
	u := f.UserByID(c.AssignedTo)
	if u == nil {
		// Unreachable while the delete cascade holds, but refuse to
		// flip a chore whose ledger side cannot move.
		return false
	}

	if c.Done {
		c.Done = false
		u.Points -= c.Points
		u.LifetimeEarned -= c.Points
	} else {
		c.Done = true
		u.Points += c.Points
		u.LifetimeEarned += c.Points
	}
	c.UpdatedAt = time.Now().UTC()
	return true
}

// ResetRecurringChores clears the done flag on recurring chores at the
// start of a new cycle: daily chores every day, weekly chores when the
// given weekday starts the week. No ledger movement happens here;
// points banked for the previous cycle stay banked. Returns the number
// of chores reset.
func ResetRecurringChores(f *Family, weekday time.Weekday) int {
	n := 0
	for i := range f.Chores {
		c := &f.Chores[i]
		if !c.Done || !chore.ResetsOn(*c, weekday) {
			continue
		}
		c.Done = false
		c.UpdatedAt = time.Now().UTC()
		n++
	}
	return n
}

// --- Rewards ---

// AddReward creates a catalog reward, immediately visible to everyone.
func AddReward(f *Family, title string, pointCost int, imageURL string) (*model.Reward, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if pointCost < 0 {
		return nil, ErrNegativePoints
	}
	r := model.Reward{
		ID:        uuid.NewString(),
		Title:     title,
		PointCost: pointCost,
		ImageURL:  imageURL,
		Approved:  true,
		CreatedAt: time.Now().UTC(),
	}
	f.Rewards = append(f.Rewards, r)
	return f.RewardByID(r.ID), nil
}

// RequestReward creates a wishlist entry awaiting parental approval.
func RequestReward(f *Family, title string, pointCost int, imageURL, requestedBy string) (*model.Reward, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if pointCost < 0 {
		return nil, ErrNegativePoints
	}
	if f.UserByID(requestedBy) == nil {
		return nil, ErrUserNotFound
	}
	r := model.Reward{
		ID:          uuid.NewString(),
		Title:       title,
		PointCost:   pointCost,
		ImageURL:    imageURL,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	f.Rewards = append(f.Rewards, r)
	return f.RewardByID(r.ID), nil
}

// ApproveReward flips approved false→true. The flip is one-way;
// approving an already approved reward is a no-op.
func ApproveReward(f *Family, id string) (*model.Reward, error) {
	r := f.RewardByID(id)
	if r == nil {
		return nil, ErrRewardNotFound
	}
	r.Approved = true
	return r, nil
}

// UpdateReward edits a catalog or wishlist entry's display fields.
func UpdateReward(f *Family, id, title string, pointCost int, imageURL string) (*model.Reward, error) {
	r := f.RewardByID(id)
	if r == nil {
		return nil, ErrRewardNotFound
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if pointCost < 0 {
		return nil, ErrNegativePoints
	}
	r.Title = title
	r.PointCost = pointCost
	r.ImageURL = imageURL
	return r, nil
}

// DeleteReward removes any reward wholesale. There is no separate
// rejection operation; an unwanted request is deleted.
func DeleteReward(f *Family, id string) error {
	if f.RewardByID(id) == nil {
		return ErrRewardNotFound
	}
	rewards := f.Rewards[:0]
	for _, r := range f.Rewards {
		if r.ID != id {
			rewards = append(rewards, r)
		}
	}
	f.Rewards = rewards
	return nil
}

// --- Meals ---

// UpsertMeal replaces the planner entry at (date, type) or inserts a new
// one. An empty title clears the slot. Date and title are stored as
// opaque strings.
func UpsertMeal(f *Family, date string, mealType model.MealType, title string) (*model.Meal, error) {
	if !mealType.Valid() {
		return nil, ErrInvalidMealType
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, ErrMealNotFound
	}
	title = strings.TrimSpace(title)

	if title == "" {
		meals := f.Meals[:0]
		for _, m := range f.Meals {
			if !(m.Date == date && m.Type == mealType) {
				meals = append(meals, m)
			}
		}
		f.Meals = meals
		return nil, nil
	}

	if m := f.MealAt(date, mealType); m != nil {
		m.Title = title
		return m, nil
	}
	m := model.Meal{
		ID:    uuid.NewString(),
		Date:  date,
		Type:  mealType,
		Title: title,
	}
	f.Meals = append(f.Meals, m)
	return f.MealAt(date, mealType), nil
}

func DeleteMeal(f *Family, id string) error {
	found := false
	meals := f.Meals[:0]
	for _, m := range f.Meals {
		if m.ID == id {
			found = true
			continue
		}
		meals = append(meals, m)
	}
	f.Meals = meals
	if !found {
		return ErrMealNotFound
	}
	return nil
}

// --- Events ---

func AddEvent(f *Family, e model.CalendarEvent) *model.CalendarEvent {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	f.Events = append(f.Events, e)
	return &f.Events[len(f.Events)-1]
}

// AppendEvents appends externally synced events as-is. The provider feed
// is not de-duplicated against previously synced events.
func AppendEvents(f *Family, events []model.CalendarEvent) {
	f.Events = append(f.Events, events...)
}

func DeleteEvent(f *Family, id string) error {
	found := false
	events := f.Events[:0]
	for _, e := range f.Events {
		if e.ID == id {
			found = true
			continue
		}
		events = append(events, e)
	}
	f.Events = events
	if !found {
		return ErrEventNotFound
	}
	return nil
}

// --- Photos ---

func AddPhoto(f *Family, url, caption string) *model.Photo {
	p := model.Photo{
		ID:      uuid.NewString(),
		URL:     url,
		Caption: caption,
		AddedAt: time.Now().UTC(),
	}
	f.Photos = append(f.Photos, p)
	return &f.Photos[len(f.Photos)-1]
}

// MergePhotos folds provider results into the slideshow, skipping URLs
// already present. Returns the number of photos added.
func MergePhotos(f *Family, photos []model.Photo) int {
	seen := make(map[string]struct{}, len(f.Photos))
	for _, p := range f.Photos {
		seen[p.URL] = struct{}{}
	}
	n := 0
	for _, p := range photos {
		if _, ok := seen[p.URL]; ok {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.AddedAt.IsZero() {
			p.AddedAt = time.Now().UTC()
		}
		f.Photos = append(f.Photos, p)
		seen[p.URL] = struct{}{}
		n++
	}
	return n
}

func DeletePhoto(f *Family, id string) error {
	found := false
	photos := f.Photos[:0]
	for _, p := range f.Photos {
		if p.ID == id {
			found = true
			continue
		}
		photos = append(photos, p)
	}
	f.Photos = photos
	if !found {
		return ErrPhotoNotFound
	}
	return nil
}

// --- Household ---

func RenameFamily(f *Family, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrTitleRequired
	}
	f.FamilyName = name
	return nil
}
