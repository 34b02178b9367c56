package groups

import (
	"github.com/teammood/teammood/pkg/teammood/checkers"
	"github.com/teammood/teammood/pkg/teammood/models"
	"github.com/teammood/teammood/pkg/teammood/result"
	"github.com/teammood/teammood/pkg/teammood/store"
	"gorm.io/gorm"
)

// Service manages groups and their memberships.
type Service struct {
	db *gorm.DB
}

// NewService creates a group service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateGroupInput carries the data needed to create a group.
type CreateGroupInput struct {
	CurrentUserID        uint
	Name                 string
	AnonymousVoteAllowed bool
	VisibleMemberList    bool
}

// UpdateGroupInput carries the data needed to update a group's settings.
type UpdateGroupInput struct {
	CurrentUserID        uint
	GroupID              uint
	Name                 string
	AnonymousVoteAllowed bool
	VisibleMemberList    bool
}

// AddUserToGroupInput identifies the user to invite into a group by email.
type AddUserToGroupInput struct {
	CurrentUserID uint
	GroupID       uint
	Email         string
	AsAdmin       bool
}

// CreateGroup creates a group and makes its creator the first admin. Both
// writes happen in the same transaction.
func (s *Service) CreateGroup(input CreateGroupInput) (models.Group, error) {
	group := models.Group{
		Name:                 input.Name,
		AnonymousVoteAllowed: input.AnonymousVoteAllowed,
		VisibleMemberList:    input.VisibleMemberList,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := store.NewGroups(tx).Create(&group); err != nil {
			return err
		}
		membership := models.GroupMembership{
			UserID:  input.CurrentUserID,
			GroupID: group.ID,
			Role:    models.GroupRoleAdmin,
		}
		return store.NewMemberships(tx).Create(&membership)
	})
	if err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// UpdateGroup changes a group's settings. Only group admins may do so.
func (s *Service) UpdateGroup(input UpdateGroupInput) (result.Result[models.Group], error) {
	var res result.Result[models.Group]

	err := s.db.Transaction(func(tx *gorm.DB) error {
		groups := store.NewGroups(tx)
		memberships := store.NewMemberships(tx)

		group, err := groups.FindByID(input.GroupID)
		if err != nil {
			return err
		}

		userIsGroupAdmin := checkers.UserIsGroupAdmin{Memberships: memberships}

		var writeErr error
		res = result.Create[models.Group]().
			ThenCheck(func() result.Check {
				return checkers.NotPresent(group, result.ErrNotFound)
			}).
			ThenCheck(func() result.Check {
				return userIsGroupAdmin.Check(input.CurrentUserID, input.GroupID)
			}).
			Then(func() models.Group {
				group.Name = input.Name
				group.AnonymousVoteAllowed = input.AnonymousVoteAllowed
				group.VisibleMemberList = input.VisibleMemberList
				writeErr = groups.Save(group)
				return *group
			})
		return writeErr
	})
	if err != nil {
		return result.Result[models.Group]{}, err
	}
	return res, nil
}

// GetGroup returns a group to one of its members; NOT_FOUND when the group is
// absent, USER_NOT_IN_GROUP for outsiders.
func (s *Service) GetGroup(currentUserID, groupID uint) (result.Result[models.Group], error) {
	groups := store.NewGroups(s.db)
	memberships := store.NewMemberships(s.db)

	group, err := groups.FindByID(groupID)
	if err != nil {
		return result.Result[models.Group]{}, err
	}
	user, err := store.NewUsers(s.db).FindByID(currentUserID)
	if err != nil {
		return result.Result[models.Group]{}, err
	}

	userIsInGroup := checkers.UserIsInGroup{Memberships: memberships}

	res := result.Create[models.Group]().
		ThenCheck(func() result.Check {
			return checkers.NotPresent(group, result.ErrNotFound)
		}).
		ThenCheck(func() result.Check { return userIsInGroup.Check(user, group) }).
		Then(func() models.Group { return *group })
	return res, nil
}

// ListGroupsUser returns the groups the user belongs to.
func (s *Service) ListGroupsUser(userID uint) ([]models.Group, error) {
	memberships, err := store.NewMemberships(s.db).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	groups := make([]models.Group, 0, len(memberships))
	for _, m := range memberships {
		groups = append(groups, m.Group)
	}
	return groups, nil
}

// AddUserToGroup adds the user with the given email to the group. Only group
// admins may invite, and an existing member can't be added twice.
func (s *Service) AddUserToGroup(input AddUserToGroupInput) (result.Result[models.GroupMembership], error) {
	var res result.Result[models.GroupMembership]

	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := store.NewUsers(tx)
		groups := store.NewGroups(tx)
		memberships := store.NewMemberships(tx)

		group, err := groups.FindByID(input.GroupID)
		if err != nil {
			return err
		}
		user, err := users.FindByEmail(input.Email)
		if err != nil {
			return err
		}

		userIsGroupAdmin := checkers.UserIsGroupAdmin{Memberships: memberships}
		userIsNotInGroup := checkers.UserIsNotInGroup{Memberships: memberships}

		var writeErr error
		res = result.Create[models.GroupMembership]().
			ThenCheck(func() result.Check {
				return checkers.NotPresent(group, result.ErrNotFound)
			}).
			ThenCheck(func() result.Check {
				return checkers.NotPresent(user, result.ErrNotFound)
			}).
			ThenCheck(func() result.Check {
				return userIsGroupAdmin.Check(input.CurrentUserID, input.GroupID)
			}).
			ThenCheck(func() result.Check {
				return userIsNotInGroup.Check(user.ID, input.GroupID)
			}).
			Then(func() models.GroupMembership {
				role := models.GroupRoleMember
				if input.AsAdmin {
					role = models.GroupRoleAdmin
				}
				membership := models.GroupMembership{
					UserID:  user.ID,
					GroupID: input.GroupID,
					Role:    role,
				}
				writeErr = memberships.Create(&membership)
				return membership
			})

		if writeErr != nil {
			if store.IsUniqueViolation(writeErr) {
				res = result.Failure[models.GroupMembership](result.ErrUserAlreadyOnGroup)
				return nil
			}
			return writeErr
		}
		return nil
	})
	if err != nil {
		return result.Result[models.GroupMembership]{}, err
	}
	return res, nil
}

// LeaveGroup removes the current user's membership. The group's last admin
// can't leave until another admin exists.
func (s *Service) LeaveGroup(currentUserID, groupID uint) (result.Result[bool], error) {
	var res result.Result[bool]

	err := s.db.Transaction(func(tx *gorm.DB) error {
		memberships := store.NewMemberships(tx)

		membership, err := memberships.Find(currentUserID, groupID)
		if err != nil {
			return err
		}

		notUniqueAdmin := checkers.UserIsNotUniqueGroupAdmin{Memberships: memberships}

		var writeErr error
		res = result.Create[bool]().
			ThenCheck(func() result.Check {
				return checkers.NotPresent(membership, result.ErrUserNotInGroup)
			}).
			ThenCheck(func() result.Check { return notUniqueAdmin.Check(membership) }).
			Then(func() bool {
				var rows int64
				rows, writeErr = memberships.Delete(currentUserID, groupID)
				return rows > 0
			})
		return writeErr
	})
	if err != nil {
		return result.Result[bool]{}, err
	}
	return res, nil
}

// ListUsersGroup returns the group's members in a stable order. When the
// member list is hidden and the caller is a plain member, the list degrades
// to empty instead of failing.
func (s *Service) ListUsersGroup(currentUserID, groupID uint) ([]models.User, error) {
	groups := store.NewGroups(s.db)
	memberships := store.NewMemberships(s.db)

	group, err := groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return []models.User{}, nil
	}

	canSeeMembers := checkers.UserCanSeeGroupMembers{Memberships: memberships}

	var readErr error
	res := result.Create[[]models.User]().
		ThenCheck(func() result.Check {
			return canSeeMembers.Check(currentUserID, groupID, group.VisibleMemberList)
		}).
		Then(func() []models.User {
			var list []models.GroupMembership
			list, readErr = memberships.ListByGroup(groupID)
			users := make([]models.User, 0, len(list))
			for _, m := range list {
				users = append(users, m.User)
			}
			return users
		}).
		OrElseGet(func() []models.User { return []models.User{} })
	if readErr != nil {
		return nil, readErr
	}
	return res.Value(), nil
}

// IsAdmin reports whether the user holds the admin role on the group.
func (s *Service) IsAdmin(userID, groupID uint) (bool, error) {
	membership, err := store.NewMemberships(s.db).Find(userID, groupID)
	if err != nil {
		return false, err
	}
	return membership != nil && membership.IsAdmin(), nil
}
