// Package checkers holds one type per business rule of the voting domain.
// Each checker produces a single result.Check; the services decide which
// checkers run and in which order, which is where the actual policy lives.
package checkers

import (
	"time"

	"github.com/teammood/teammood/pkg/teammood/models"
	"github.com/teammood/teammood/pkg/teammood/result"
	"github.com/teammood/teammood/pkg/teammood/store"
)

// NotPresent fails with the caller-chosen error when the value is absent.
func NotPresent[T any](value *T, err result.Error) result.Check {
	return result.CheckIsTrue(value != nil, err)
}

// VoteScoreBoundaries checks that a vote's score is within the expected values.
type VoteScoreBoundaries struct{}

// Check fails with SCORE_IS_INVALID when the score is missing or outside 1..5.
func (VoteScoreBoundaries) Check(score *int) result.Check {
	return result.CheckIsTrue(score != nil && *score >= 1 && *score <= 5, result.ErrScoreIsInvalid)
}

// VotingHasExpired checks that a voting window is still open. The window
// length is configurable; Now is injectable for tests and defaults to the
// wall clock.
type VotingHasExpired struct {
	Window time.Duration
	Now    func() time.Time
}

// Check fails with VOTING_HAS_EXPIRED when the voting is absent or its window
// has closed. At exactly createdAt+window the voting is still open.
func (c VotingHasExpired) Check(voting *models.Voting) result.Check {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	expired := voting == nil || !voting.OpenAt(now(), c.Window)
	return result.CheckIsFalse(expired, result.ErrVotingHasExpired)
}

// VoteAnonymousAllowedInGroup checks the anonymity policy of a group.
type VoteAnonymousAllowedInGroup struct{}

// Check fails with VOTE_CANT_BE_ANONYMOUS only when the vote wants to be
// anonymous and the group forbids it.
func (VoteAnonymousAllowedInGroup) Check(inputIsAnonymous, groupAllowsAnonymous bool) result.Check {
	return result.CheckIsFalse(inputIsAnonymous && !groupAllowsAnonymous, result.ErrVoteCantBeAnonymous)
}

// UserOnlyVotedOnce checks that a given user has not voted already.
type UserOnlyVotedOnce struct {
	Votes *store.Votes
}

// Check fails with USER_ALREADY_VOTE when a vote already exists for the
// (user, voting) pair. Anonymous input (nil user) always passes. This is an
// early rejection; the unique index on (voting_id, created_by_id) is the
// actual guarantee.
func (c UserOnlyVotedOnce) Check(user *models.User, voting *models.Voting) result.Check {
	var vote *models.Vote
	if user != nil && voting != nil {
		vote, _ = c.Votes.FindByUserAndVoting(user.ID, voting.ID)
	}
	return result.CheckIsTrue(user == nil || vote == nil, result.ErrUserAlreadyVote)
}

// UserIsInGroup checks that a user belongs to a group through an explicit
// membership query.
type UserIsInGroup struct {
	Memberships *store.Memberships
}

// Check fails with USER_NOT_IN_GROUP when either side is absent or no
// membership exists for the pair.
func (c UserIsInGroup) Check(user *models.User, group *models.Group) result.Check {
	if user == nil || group == nil {
		return result.CheckIsTrue(false, result.ErrUserNotInGroup)
	}
	membership, err := c.Memberships.Find(user.ID, group.ID)
	return result.CheckIsTrue(err == nil && membership != nil, result.ErrUserNotInGroup)
}

// UserIsNotInGroup checks that a user does not already belong to a group.
type UserIsNotInGroup struct {
	Memberships *store.Memberships
}

// Check fails with USER_ALREADY_ON_GROUP when a membership already exists.
func (c UserIsNotInGroup) Check(userID, groupID uint) result.Check {
	membership, err := c.Memberships.Find(userID, groupID)
	return result.CheckIsTrue(err == nil && membership == nil, result.ErrUserAlreadyOnGroup)
}

// UserIsGroupAdmin checks that a user holds the admin role on a group.
type UserIsGroupAdmin struct {
	Memberships *store.Memberships
}

// Check fails with NOT_AN_ADMIN when the membership is absent or not admin.
func (c UserIsGroupAdmin) Check(userID, groupID uint) result.Check {
	membership, err := c.Memberships.Find(userID, groupID)
	isAdmin := err == nil && membership != nil && membership.IsAdmin()
	return result.CheckIsTrue(isAdmin, result.ErrNotAnAdmin)
}

// UserIsNotUniqueGroupAdmin checks that leaving won't strip the group of its
// last admin.
type UserIsNotUniqueGroupAdmin struct {
	Memberships *store.Memberships
}

// Check fails with UNIQUE_ADMIN when the membership is the group's sole
// remaining admin. Non-admin members always pass.
func (c UserIsNotUniqueGroupAdmin) Check(membership *models.GroupMembership) result.Check {
	soleAdmin := false
	if membership != nil && membership.IsAdmin() {
		count, err := c.Memberships.CountAdmins(membership.GroupID)
		soleAdmin = err == nil && count <= 1
	}
	return result.CheckIsFalse(soleAdmin, result.ErrUniqueAdmin)
}

// UserCanSeeGroupMembers checks the member-list visibility policy: when the
// group hides its member list, only group admins may see it.
type UserCanSeeGroupMembers struct {
	Memberships *store.Memberships
}

// Check fails with USER_NOT_IN_GROUP for non-members, and with NOT_AN_ADMIN
// for plain members of a group whose member list is hidden.
func (c UserCanSeeGroupMembers) Check(userID, groupID uint, visibleMemberList bool) result.Check {
	membership, err := c.Memberships.Find(userID, groupID)
	if err != nil || membership == nil {
		return result.CheckIsTrue(false, result.ErrUserNotInGroup)
	}
	return result.CheckIsTrue(visibleMemberList || membership.IsAdmin(), result.ErrNotAnAdmin)
}
