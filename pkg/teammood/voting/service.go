package voting

import (
	"time"

	"github.com/teammood/teammood/pkg/teammood/checkers"
	"github.com/teammood/teammood/pkg/teammood/logger"
	"github.com/teammood/teammood/pkg/teammood/models"
	"github.com/teammood/teammood/pkg/teammood/result"
	"github.com/teammood/teammood/pkg/teammood/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service orchestrates the voting lifecycle: opening votings, casting votes
// and the read paths around them. Every mutation runs its checker chain and
// its writes inside a single transaction, so the decision and the mutation
// observe one consistent snapshot. Business failures travel in the Result;
// infrastructure failures are returned as plain errors.
type Service struct {
	db     *gorm.DB
	window time.Duration
	now    func() time.Time
}

// NewService creates a voting service. The window is how long a voting stays
// open after creation.
func NewService(db *gorm.DB, window time.Duration) *Service {
	return &Service{db: db, window: window, now: time.Now}
}

// CreateVotingInput carries the data needed to open a voting.
type CreateVotingInput struct {
	CurrentUserID uint
	GroupID       uint
}

// CreateVoteInput carries the data needed to cast a vote. CurrentUserID is
// always the authenticated caller; Anonymous only controls whether the stored
// vote is attributable to them.
type CreateVoteInput struct {
	CurrentUserID uint
	VotingID      uint
	Score         *int
	Comment       string
	Anonymous     bool
}

// GetVotingInput identifies a voting read on behalf of a user.
type GetVotingInput struct {
	CurrentUserID uint
	VotingID      uint
}

// ListVotingsGroupInput filters a group's votings by creation range.
type ListVotingsGroupInput struct {
	GroupID  uint
	FromDate time.Time
	ToDate   time.Time
}

// UserVotesInGroupInput identifies one member's votes inside a group and range.
type UserVotesInGroupInput struct {
	CurrentUserID uint
	UserID        uint
	GroupID       uint
	FromDate      time.Time
	ToDate        time.Time
}

// GetLastVotingInput identifies a group's most recent voting read.
type GetLastVotingInput struct {
	CurrentUserID uint
	GroupID       uint
}

// CreateVoting opens a new voting for the group, created by the current user.
// The caller must be a member of the group. A group opens at most one voting
// per day; losing that race yields VOTING_ALREADY_CREATED.
func (s *Service) CreateVoting(input CreateVotingInput) (result.Result[models.Voting], error) {
	var res result.Result[models.Voting]

	err := s.db.Transaction(func(tx *gorm.DB) error {
		memberships := store.NewMemberships(tx)
		votings := store.NewVotings(tx)

		membership, err := memberships.Find(input.CurrentUserID, input.GroupID)
		if err != nil {
			return err
		}

		var writeErr error
		res = result.Create[models.Voting]().
			ThenCheck(func() result.Check {
				return checkers.NotPresent(membership, result.ErrUserNotInGroup)
			}).
			Then(func() models.Voting {
				now := s.now()
				voting := models.Voting{
					GroupID:     input.GroupID,
					Day:         models.DayOf(now),
					CreatedAt:   now,
					CreatedByID: &input.CurrentUserID,
				}
				writeErr = votings.Create(&voting)
				return voting
			})

		if writeErr != nil {
			if store.IsUniqueViolation(writeErr) {
				res = result.Failure[models.Voting](result.ErrVotingAlreadyCreated)
				return nil
			}
			return writeErr
		}
		return nil
	})
	if err != nil {
		return result.Result[models.Voting]{}, err
	}
	return res, nil
}

// CreateVote casts the current user's vote in a voting. The checker chain is
// ordered by increasing cost: score first, membership and anonymity last; the
// first failure wins. On success the voting's average is recomputed as a
// best-effort side effect outside the vote's transaction.
func (s *Service) CreateVote(input CreateVoteInput) (result.Result[models.Vote], error) {
	var res result.Result[models.Vote]

	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := store.NewUsers(tx)
		votings := store.NewVotings(tx)
		votes := store.NewVotes(tx)
		memberships := store.NewMemberships(tx)

		user, err := users.FindByID(input.CurrentUserID)
		if err != nil {
			return err
		}
		voting, err := votings.FindByID(input.VotingID)
		if err != nil {
			return err
		}
		var group *models.Group
		groupAllowsAnonymous := false
		if voting != nil && voting.Group.ID != 0 {
			group = &voting.Group
			groupAllowsAnonymous = group.AnonymousVoteAllowed
		}

		scoreBoundaries := checkers.VoteScoreBoundaries{}
		onlyVotedOnce := checkers.UserOnlyVotedOnce{Votes: votes}
		hasExpired := checkers.VotingHasExpired{Window: s.window, Now: s.now}
		userIsInGroup := checkers.UserIsInGroup{Memberships: memberships}
		anonymousAllowed := checkers.VoteAnonymousAllowedInGroup{}

		var writeErr error
		res = result.Create[models.Vote]().
			ThenCheck(func() result.Check { return scoreBoundaries.Check(input.Score) }).
			ThenCheck(func() result.Check { return onlyVotedOnce.Check(user, voting) }).
			ThenCheck(func() result.Check { return hasExpired.Check(voting) }).
			ThenCheck(func() result.Check { return checkers.NotPresent(group, result.ErrNotFound) }).
			ThenCheck(func() result.Check { return userIsInGroup.Check(user, group) }).
			ThenCheck(func() result.Check {
				return anonymousAllowed.Check(input.Anonymous, groupAllowsAnonymous)
			}).
			Then(func() models.Vote {
				vote := models.Vote{
					VotingID:  voting.ID,
					Comment:   input.Comment,
					Score:     *input.Score,
					CreatedAt: s.now(),
				}
				if !input.Anonymous {
					vote.CreatedByID = &user.ID
				}
				writeErr = votes.Create(&vote)
				return vote
			})

		if writeErr != nil {
			if store.IsUniqueViolation(writeErr) {
				res = result.Failure[models.Vote](result.ErrUserAlreadyVote)
				return nil
			}
			return writeErr
		}
		return nil
	})
	if err != nil {
		return result.Result[models.Vote]{}, err
	}

	return res.SideEffect(func(vote models.Vote) {
		s.updateVotingAverage(vote.VotingID)
	}), nil
}

// updateVotingAverage recomputes and stores the voting's average score. It
// runs after the vote is committed; a failure here never rolls the vote back,
// it is logged for the persistence layer to retry.
func (s *Service) updateVotingAverage(votingID uint) {
	votes := store.NewVotes(s.db)
	votings := store.NewVotings(s.db)

	avg, err := votes.AverageByVoting(votingID)
	if err == nil {
		err = votings.UpdateAverage(votingID, avg)
	}
	if err != nil {
		logger.L.Error("failed to update voting average",
			zap.Uint("votingID", votingID),
			zap.Error(err))
	}
}

// ListVotingsGroup returns the group's votings created inside the given
// range. An absent group yields an empty list, not an error.
func (s *Service) ListVotingsGroup(input ListVotingsGroupInput) ([]models.Voting, error) {
	groups := store.NewGroups(s.db)
	votings := store.NewVotings(s.db)

	group, err := groups.FindByID(input.GroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return []models.Voting{}, nil
	}
	return votings.ListByGroupBetween(group.ID, input.FromDate, input.ToDate)
}

// ListVotesVoting returns all votes of a voting, ordered by voting user.
func (s *Service) ListVotesVoting(votingID uint) ([]models.Vote, error) {
	return store.NewVotes(s.db).ListByVoting(votingID)
}

// GetVoting returns a voting only when it is reachable through one of the
// current user's groups; NOT_FOUND otherwise.
func (s *Service) GetVoting(input GetVotingInput) (result.Result[models.Voting], error) {
	votings := store.NewVotings(s.db)

	voting, err := votings.FindByIDAndMember(input.VotingID, input.CurrentUserID)
	if err != nil {
		return result.Result[models.Voting]{}, err
	}

	res := result.Create[models.Voting]().
		ThenCheck(func() result.Check {
			return checkers.NotPresent(voting, result.ErrNotFound)
		}).
		Then(func() models.Voting { return *voting })
	return res, nil
}

// ListUserVotesInGroup returns one member's votes across a group's votings in
// the given range. Both the acting user and the target user must belong to
// the group.
func (s *Service) ListUserVotesInGroup(input UserVotesInGroupInput) (result.Result[[]models.Vote], error) {
	users := store.NewUsers(s.db)
	groups := store.NewGroups(s.db)
	memberships := store.NewMemberships(s.db)
	votes := store.NewVotes(s.db)

	currentUser, err := users.FindByID(input.CurrentUserID)
	if err != nil {
		return result.Result[[]models.Vote]{}, err
	}
	targetUser, err := users.FindByID(input.UserID)
	if err != nil {
		return result.Result[[]models.Vote]{}, err
	}
	group, err := groups.FindByID(input.GroupID)
	if err != nil {
		return result.Result[[]models.Vote]{}, err
	}

	userIsInGroup := checkers.UserIsInGroup{Memberships: memberships}

	var readErr error
	res := result.Create[[]models.Vote]().
		ThenCheck(func() result.Check { return userIsInGroup.Check(currentUser, group) }).
		ThenCheck(func() result.Check { return userIsInGroup.Check(targetUser, group) }).
		Then(func() []models.Vote {
			var list []models.Vote
			list, readErr = votes.ListByUserAndGroupBetween(
				targetUser.ID, group.ID, input.FromDate, input.ToDate)
			return list
		})
	if readErr != nil {
		return result.Result[[]models.Vote]{}, readErr
	}
	return res, nil
}

// GetLastVotingByGroup returns the group's most recent voting. The caller
// must be a member; a group with no votings yields NOT_FOUND.
func (s *Service) GetLastVotingByGroup(input GetLastVotingInput) (result.Result[models.Voting], error) {
	users := store.NewUsers(s.db)
	groups := store.NewGroups(s.db)
	memberships := store.NewMemberships(s.db)
	votings := store.NewVotings(s.db)

	user, err := users.FindByID(input.CurrentUserID)
	if err != nil {
		return result.Result[models.Voting]{}, err
	}
	group, err := groups.FindByID(input.GroupID)
	if err != nil {
		return result.Result[models.Voting]{}, err
	}

	userIsInGroup := checkers.UserIsInGroup{Memberships: memberships}

	var last *models.Voting
	var readErr error
	res := result.Create[models.Voting]().
		ThenCheck(func() result.Check { return userIsInGroup.Check(user, group) }).
		ThenCheck(func() result.Check {
			last, readErr = votings.FindLastByGroup(input.GroupID)
			if readErr != nil {
				return result.CheckIsTrue(false, result.ErrNotFound)
			}
			return checkers.NotPresent(last, result.ErrNotFound)
		}).
		Then(func() models.Voting { return *last })
	if readErr != nil {
		return result.Result[models.Voting]{}, readErr
	}
	return res, nil
}
