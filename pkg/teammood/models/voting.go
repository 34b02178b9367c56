package models

import (
	"time"
)

// Voting is the time-boxed window during which members of a group submit votes.
// Whether a voting is open or expired is derived from CreatedAt, never stored.
// Day is the calendar date of CreatedAt; the (group_id, day) unique index is the
// hard guarantee that a group opens at most one voting per day.
type Voting struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	GroupID     uint      `gorm:"not null;uniqueIndex:idx_group_day" json:"group_id"`
	Day         string    `gorm:"not null;uniqueIndex:idx_group_day" json:"-"`
	CreatedByID *uint     `json:"created_by_id,omitempty"`
	Average     *float64  `json:"average,omitempty"`

	// Relationships
	Group     Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Votes     []Vote `gorm:"foreignKey:VotingID" json:"votes,omitempty"`
}

// DayOf formats a timestamp the way Voting.Day stores it.
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// OpenAt reports whether the voting still accepts votes at the given instant.
// The window boundary is exclusive on the expiry side: at exactly
// createdAt+window the voting is still open.
func (v Voting) OpenAt(now time.Time, window time.Duration) bool {
	return !v.CreatedAt.Add(window).Before(now)
}
