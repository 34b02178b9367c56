package store

import (
	"errors"

	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Users gives access to persisted users. Lookups return (nil, nil) when the
// row is absent; errors are reserved for infrastructure failures.
type Users struct {
	db *gorm.DB
}

// NewUsers creates a user store over the given connection or transaction.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// FindByID returns the user with the given id, or nil when absent.
func (s *Users) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the user with the given email, or nil when absent.
func (s *Users) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create persists a new user.
func (s *Users) Create(user *models.User) error {
	return s.db.Create(user).Error
}

// Save persists changes to an existing user.
func (s *Users) Save(user *models.User) error {
	return s.db.Save(user).Error
}

// List returns all users.
func (s *Users) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
