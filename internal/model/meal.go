package model

// MealType names a planner slot within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// Valid reports whether t is a known meal type.
func (t MealType) Valid() bool {
	return t == MealBreakfast || t == MealLunch || t == MealDinner
}

// Meal is a planner entry, unique per (date, type) pair. Date and title
// are opaque strings; no format validation is applied.
type Meal struct {
	ID    string   `json:"id"`
	Date  string   `json:"date"`
	Type  MealType `json:"type"`
	Title string   `json:"title"`
}
