package model

import "time"

type Photo struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	Caption string    `json:"caption,omitempty"`
	AddedAt time.Time `json:"added_at"`
}
