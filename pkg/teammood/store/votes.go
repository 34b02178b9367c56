package store

import (
	"errors"
	"time"

	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Votes gives access to persisted votes.
type Votes struct {
	db *gorm.DB
}

// NewVotes creates a vote store over the given connection or transaction.
func NewVotes(db *gorm.DB) *Votes {
	return &Votes{db: db}
}

// FindByUserAndVoting returns the user's vote in the given voting, or nil when
// the user hasn't voted there. Anonymous votes never match.
func (s *Votes) FindByUserAndVoting(userID, votingID uint) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.Where("created_by_id = ? AND voting_id = ?", userID, votingID).First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// ListByVoting returns the voting's votes ordered by voting user; anonymous
// votes sort last.
func (s *Votes) ListByVoting(votingID uint) ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.Where("voting_id = ?", votingID).
		Order("created_by_id IS NULL, created_by_id").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// ListByUserAndGroupBetween returns the user's votes across the group's
// votings created inside [from, to].
func (s *Votes) ListByUserAndGroupBetween(userID, groupID uint, from, to time.Time) ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.
		Joins("JOIN votings ON votings.id = votes.voting_id").
		Where("votes.created_by_id = ? AND votings.group_id = ? AND votes.created_at BETWEEN ? AND ?",
			userID, groupID, from, to).
		Order("votes.created_at").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// AverageByVoting computes the arithmetic mean of the voting's scores, or nil
// when the voting has no votes yet.
func (s *Votes) AverageByVoting(votingID uint) (*float64, error) {
	var avg *float64
	err := s.db.Model(&models.Vote{}).
		Select("AVG(score)").
		Where("voting_id = ?", votingID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// Create persists a new vote.
func (s *Votes) Create(vote *models.Vote) error {
	return s.db.Create(vote).Error
}
