package model

import "time"

// Reward is either a catalog item (no requester, visible to everyone)
// or a wishlist entry awaiting parental approval (requester set,
// approved false until a parent flips it).
type Reward struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PointCost   int       `json:"point_cost"`
	ImageURL    string    `json:"image_url,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// Pending reports whether the reward is a wishlist entry still waiting
// for parental action.
func (r Reward) Pending() bool {
	return r.RequestedBy != "" && !r.Approved
}
