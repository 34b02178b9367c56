package result

// Error is a business error descriptor surfaced to API clients. Codes are part
// of the wire contract and must remain stable strings.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface so descriptors can travel as plain
// errors across infrastructure boundaries when needed.
func (e Error) Error() string {
	return e.Code + ": " + e.Message
}

// Fixed vocabulary of business errors.
var (
	// ErrBadCredentials is used when an authentication attempt carries invalid credentials
	ErrBadCredentials = Error{"API_ERRORS.BAD_CREDENTIALS", "Provided credentials are not valid"}

	// ErrNotAnAdmin is used when a non-admin user tries to perform an admin action on a group
	ErrNotAnAdmin = Error{"API_ERRORS.NOT_AN_ADMIN", "The user is not an admin on the group"}

	// ErrNotFound is used when an element referenced by an id can't be found
	ErrNotFound = Error{"API_ERRORS.NOT_FOUND", "The element can't be found"}

	// ErrUserAlreadyOnGroup is used when adding a user to a group they already belong to
	ErrUserAlreadyOnGroup = Error{"API_ERRORS.USER_ALREADY_ON_GROUP", "The user is already on the group"}

	// ErrUserNotInGroup is used when somebody outside a group operates over that group
	ErrUserNotInGroup = Error{"API_ERRORS.USER_NOT_IN_GROUP", "The user doesn't belong to group"}

	// ErrUserAlreadyVote is used when a user tries to vote twice in the same voting
	ErrUserAlreadyVote = Error{"API_ERRORS.USER_ALREADY_VOTE", "The user has already voted"}

	// ErrVotingHasExpired is used when a vote arrives after the voting window closed
	ErrVotingHasExpired = Error{"API_ERRORS.VOTING_HAS_EXPIRED", "The voting has expired"}

	// ErrScoreIsInvalid is used when a vote's score is not an integer between 1 and 5
	ErrScoreIsInvalid = Error{"API_ERRORS.SCORE_IS_INVALID", "The score must be an integer between 1 and 5"}

	// ErrVoteCantBeAnonymous is used when the group doesn't allow anonymous votes
	ErrVoteCantBeAnonymous = Error{"API_ERRORS.VOTE_CANT_BE_ANONYMOUS", "The group doesn't allow anonymous votes"}

	// ErrUniqueAdmin is used when the group's only admin tries to leave the group
	ErrUniqueAdmin = Error{"API_ERRORS.UNIQUE_ADMIN", "The user is the only admin on the group"}

	// ErrVotingAlreadyCreated is used when a group already opened a voting for the day
	ErrVotingAlreadyCreated = Error{"API_ERRORS.VOTING_ALREADY_CREATED", "The group already has a voting for today"}
)
