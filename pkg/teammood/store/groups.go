package store

import (
	"errors"

	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Groups gives access to persisted groups.
type Groups struct {
	db *gorm.DB
}

// NewGroups creates a group store over the given connection or transaction.
func NewGroups(db *gorm.DB) *Groups {
	return &Groups{db: db}
}

// FindByID returns the group with the given id, or nil when absent.
func (s *Groups) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	err := s.db.First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// Create persists a new group.
func (s *Groups) Create(group *models.Group) error {
	return s.db.Create(group).Error
}

// Save persists changes to an existing group.
func (s *Groups) Save(group *models.Group) error {
	return s.db.Save(group).Error
}

// List returns all groups.
func (s *Groups) List() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
