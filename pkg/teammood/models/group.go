package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a team whose members periodically vote their mood.
// Membership lives in GroupMembership, never embedded here.
type Group struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	Name                 string         `gorm:"not null" json:"name"`
	AnonymousVoteAllowed bool           `json:"anonymous_vote_allowed"`
	VisibleMemberList    bool           `json:"visible_member_list"`

	// Relationships
	Members []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Votings []Voting          `gorm:"foreignKey:GroupID" json:"votings,omitempty"`
}
