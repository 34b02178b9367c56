package store

import (
	"errors"
	"time"

	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Votings gives access to persisted votings.
type Votings struct {
	db *gorm.DB
}

// NewVotings creates a voting store over the given connection or transaction.
func NewVotings(db *gorm.DB) *Votings {
	return &Votings{db: db}
}

// FindByID returns the voting with its group preloaded, or nil when absent.
func (s *Votings) FindByID(id uint) (*models.Voting, error) {
	var voting models.Voting
	err := s.db.Preload("Group").First(&voting, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voting, nil
}

// FindByIDAndMember returns the voting only when the given user belongs to the
// voting's group, or nil otherwise. This is the reachability query behind the
// get-voting read path.
func (s *Votings) FindByIDAndMember(votingID, userID uint) (*models.Voting, error) {
	var voting models.Voting
	err := s.db.Preload("Group").
		Joins("JOIN group_memberships ON group_memberships.group_id = votings.group_id").
		Where("votings.id = ? AND group_memberships.user_id = ? AND group_memberships.deleted_at IS NULL",
			votingID, userID).
		First(&voting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voting, nil
}

// ListByGroupBetween returns the group's votings created inside [from, to],
// oldest first.
func (s *Votings) ListByGroupBetween(groupID uint, from, to time.Time) ([]models.Voting, error) {
	var votings []models.Voting
	err := s.db.Where("group_id = ? AND created_at BETWEEN ? AND ?", groupID, from, to).
		Order("created_at").
		Find(&votings).Error
	if err != nil {
		return nil, err
	}
	return votings, nil
}

// FindLastByGroup returns the group's most recently created voting, or nil
// when the group has none.
func (s *Votings) FindLastByGroup(groupID uint) (*models.Voting, error) {
	var voting models.Voting
	err := s.db.Where("group_id = ?", groupID).
		Order("created_at DESC").
		First(&voting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voting, nil
}

// Create persists a new voting.
func (s *Votings) Create(voting *models.Voting) error {
	return s.db.Create(voting).Error
}

// UpdateAverage persists a recomputed average for the voting. Average is the
// only voting field that ever changes after creation.
func (s *Votings) UpdateAverage(votingID uint, average *float64) error {
	return s.db.Model(&models.Voting{}).
		Where("id = ?", votingID).
		Update("average", average).Error
}
