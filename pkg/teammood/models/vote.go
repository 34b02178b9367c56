package models

import (
	"time"
)

// Vote is a single scored submission within a Voting. A nil CreatedByID means
// the vote is anonymous. The (voting_id, created_by_id) unique index enforces
// one vote per user per voting; NULL created_by rows are exempt, so anonymous
// votes are unconstrained per user.
type Vote struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	VotingID    uint      `gorm:"not null;uniqueIndex:idx_voting_user" json:"voting_id"`
	CreatedByID *uint     `gorm:"uniqueIndex:idx_voting_user" json:"created_by_id,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	Score       int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`

	// Relationships
	Voting    Voting `gorm:"foreignKey:VotingID" json:"voting,omitempty"`
	CreatedBy *User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// Anonymous reports whether the vote has no attributable user.
func (v Vote) Anonymous() bool {
	return v.CreatedByID == nil
}
