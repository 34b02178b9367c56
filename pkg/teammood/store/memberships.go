package store

import (
	"errors"

	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Memberships gives access to the user/group membership relation keyed by the
// composite (user_id, group_id).
type Memberships struct {
	db *gorm.DB
}

// NewMemberships creates a membership store over the given connection or transaction.
func NewMemberships(db *gorm.DB) *Memberships {
	return &Memberships{db: db}
}

// Find returns the membership for (userID, groupID), or nil when absent.
func (s *Memberships) Find(userID, groupID uint) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	err := s.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

// ListByUser returns the user's memberships with their groups preloaded.
func (s *Memberships) ListByUser(userID uint) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	err := s.db.Preload("Group").Where("user_id = ?", userID).Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByGroup returns the group's memberships with their users preloaded.
func (s *Memberships) ListByGroup(groupID uint) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	err := s.db.Preload("User").Where("group_id = ?", groupID).Order("user_id").Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountAdmins returns how many admins the group has.
func (s *Memberships) CountAdmins(groupID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.GroupMembership{}).
		Where("group_id = ? AND role = ?", groupID, models.GroupRoleAdmin).
		Count(&count).Error
	return count, err
}

// Create persists a new membership.
func (s *Memberships) Create(membership *models.GroupMembership) error {
	return s.db.Create(membership).Error
}

// Delete removes the membership for (userID, groupID). Returns the number of
// rows removed so callers can detect an already-gone membership.
func (s *Memberships) Delete(userID, groupID uint) (int64, error) {
	res := s.db.Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.GroupMembership{})
	return res.RowsAffected, res.Error
}
