package models

import "time"

// Trip is the root entity under synchronization. A trip owns its activities
// and lodging records; the whole subtree is mirrored to the remote backend as
// one record per entity.
//
// ID is the logical identifier (a UUID shared by every device's copy of the
// trip). LocalID is the SQLite row id and is never compared across devices:
// two local rows may carry the same ID after a sync race, which is exactly
// the situation the conflict resolver cleans up.
type Trip struct {
	LocalID    int64     `json:"local_id"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Notes      string    `json:"notes,omitempty"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	HasEndDate bool      `json:"has_end_date"`
	Protected  bool      `json:"protected"`
	ShareID    string    `json:"share_id,omitempty"`
	Dirty      bool      `json:"dirty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EffectiveEndDate returns the date used by conflict resolution to pick a
// winner among duplicate copies of the same logical trip. When the user set
// an explicit end date it wins; otherwise creation time is the best available
// ordering. This is a domain tie-break, not a write timestamp: the backend
// does not expose write times to this layer.
func (t Trip) EffectiveEndDate() time.Time {
	if t.HasEndDate {
		return t.EndDate
	}
	return t.CreatedAt
}

// Shared reports whether the trip currently has a share attached.
func (t Trip) Shared() bool {
	return t.ShareID != ""
}
