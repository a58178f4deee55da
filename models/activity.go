package models

import "time"

// Activity is a scheduled item nested under a trip. Activities are synced as
// part of the owning trip's record subtree and participate in the record
// count used for batch computation.
type Activity struct {
	LocalID   int64     `json:"local_id"`
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Cost      float64   `json:"cost"`
	Notes     string    `json:"notes,omitempty"`
	Dirty     bool      `json:"dirty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lodging is an overnight stay nested under a trip. Structurally identical to
// an activity from the coordinator's point of view; kept as its own type
// because the store keeps it in its own table.
type Lodging struct {
	LocalID   int64     `json:"local_id"`
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Name      string    `json:"name"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Cost      float64   `json:"cost"`
	Dirty     bool      `json:"dirty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
