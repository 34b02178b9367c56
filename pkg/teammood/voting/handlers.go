package voting

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teammood/teammood/pkg/teammood/auth"
	"github.com/teammood/teammood/pkg/teammood/httpapi"
	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Handler handles voting and vote requests
type Handler struct {
	service *Service
}

// NewHandler creates a new voting handler. The window is how long votings
// accept votes after creation.
func NewHandler(db *gorm.DB, window time.Duration) *Handler {
	return &Handler{service: NewService(db, window)}
}

// CreateVotingRequest represents the voting creation request body
type CreateVotingRequest struct {
	GroupID uint `json:"group_id" binding:"required"`
}

// CreateVoteRequest represents the vote creation request body
type CreateVoteRequest struct {
	Score     *int   `json:"score" binding:"required"`
	Comment   string `json:"comment"`
	Anonymous bool   `json:"anonymous"`
}

// VotingResponse represents voting data in responses
type VotingResponse struct {
	ID        uint      `json:"id"`
	GroupID   uint      `json:"group_id"`
	Day       string    `json:"day"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy *uint     `json:"created_by,omitempty"`
	Average   *float64  `json:"average,omitempty"`
}

// VoteResponse represents vote data in responses
type VoteResponse struct {
	ID        uint      `json:"id"`
	VotingID  uint      `json:"voting_id"`
	CreatedBy *uint     `json:"created_by,omitempty"`
	Anonymous bool      `json:"anonymous"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toVotingResponse(voting models.Voting) VotingResponse {
	return VotingResponse{
		ID:        voting.ID,
		GroupID:   voting.GroupID,
		Day:       voting.Day,
		CreatedAt: voting.CreatedAt,
		CreatedBy: voting.CreatedByID,
		Average:   voting.Average,
	}
}

func toVoteResponse(vote models.Vote) VoteResponse {
	return VoteResponse{
		ID:        vote.ID,
		VotingID:  vote.VotingID,
		CreatedBy: vote.CreatedByID,
		Anonymous: vote.Anonymous(),
		Score:     vote.Score,
		Comment:   vote.Comment,
		CreatedAt: vote.CreatedAt,
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// CreateVoting opens a new voting
// @Summary Open a voting
// @Description Open a voting window for one of the current user's groups
// @Tags votings
// @Accept json
// @Produce json
// @Param request body CreateVotingRequest true "Target group"
// @Success 201 {object} VotingResponse
// @Failure 403 {object} result.Error "Not a member"
// @Failure 409 {object} result.Error "Voting already opened today"
// @Security BearerAuth
// @Router /votings [post]
func (h *Handler) CreateVoting(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateVotingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.CreateVoting(CreateVotingInput{
		CurrentUserID: userID,
		GroupID:       req.GroupID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create voting"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusCreated, toVotingResponse(res.Value()))
}

// GetVoting returns a single voting
// @Summary Get a voting
// @Description Get a voting reachable through one of the current user's groups
// @Tags votings
// @Produce json
// @Param id path int true "Voting ID"
// @Success 200 {object} VotingResponse
// @Failure 404 {object} result.Error "Voting not found"
// @Security BearerAuth
// @Router /votings/{id} [get]
func (h *Handler) GetVoting(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetVoting(GetVotingInput{CurrentUserID: userID, VotingID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get voting"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusOK, toVotingResponse(res.Value()))
}

// CreateVote casts a vote
// @Summary Cast a vote
// @Description Cast the current user's vote in an open voting
// @Tags votings
// @Accept json
// @Produce json
// @Param id path int true "Voting ID"
// @Param request body CreateVoteRequest true "Vote"
// @Success 201 {object} VoteResponse
// @Failure 400 {object} result.Error "Invalid score, expired voting or forbidden anonymity"
// @Failure 403 {object} result.Error "Not a member"
// @Failure 409 {object} result.Error "Already voted"
// @Security BearerAuth
// @Router /votings/{id}/votes [post]
func (h *Handler) CreateVote(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.CreateVote(CreateVoteInput{
		CurrentUserID: userID,
		VotingID:      id,
		Score:         req.Score,
		Comment:       req.Comment,
		Anonymous:     req.Anonymous,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vote"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusCreated, toVoteResponse(res.Value()))
}

// ListVotes returns the votes of a voting
// @Summary List votes
// @Description List the votes of a voting, anonymous last
// @Tags votings
// @Produce json
// @Param id path int true "Voting ID"
// @Success 200 {array} VoteResponse
// @Security BearerAuth
// @Router /votings/{id}/votes [get]
func (h *Handler) ListVotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	votes, err := h.service.ListVotesVoting(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list votes"})
		return
	}

	response := make([]VoteResponse, 0, len(votes))
	for _, vote := range votes {
		response = append(response, toVoteResponse(vote))
	}
	c.JSON(http.StatusOK, response)
}

// ListGroupVotings returns a group's votings in a date range
// @Summary List group votings
// @Description List a group's votings created inside the from/to range
// @Tags votings
// @Produce json
// @Param id path int true "Group ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} VotingResponse
// @Security BearerAuth
// @Router /groups/{id}/votings [get]
func (h *Handler) ListGroupVotings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	from, to, err := httpapi.DateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	votings, err := h.service.ListVotingsGroup(ListVotingsGroupInput{
		GroupID:  id,
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list votings"})
		return
	}

	response := make([]VotingResponse, 0, len(votings))
	for _, voting := range votings {
		response = append(response, toVotingResponse(voting))
	}
	c.JSON(http.StatusOK, response)
}

// GetLastGroupVoting returns a group's most recent voting
// @Summary Get last voting
// @Description Get the most recent voting of one of the current user's groups
// @Tags votings
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} VotingResponse
// @Failure 404 {object} result.Error "No votings yet"
// @Security BearerAuth
// @Router /groups/{id}/votings/last [get]
func (h *Handler) GetLastGroupVoting(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetLastVotingByGroup(GetLastVotingInput{
		CurrentUserID: userID,
		GroupID:       id,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get last voting"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusOK, toVotingResponse(res.Value()))
}

// ListMemberVotes returns one member's votes in a group and range
// @Summary List a member's votes
// @Description List one group member's votes across the group's votings
// @Tags votings
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "Member's user ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} VoteResponse
// @Failure 403 {object} result.Error "Not a member"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId}/votes [get]
func (h *Handler) ListMemberVotes(c *gin.Context) {
	currentUserID, _ := auth.GetUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	from, to, err := httpapi.DateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.ListUserVotesInGroup(UserVotesInGroupInput{
		CurrentUserID: currentUserID,
		UserID:        targetID,
		GroupID:       id,
		FromDate:      from,
		ToDate:        to,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list votes"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	response := make([]VoteResponse, 0, len(res.Value()))
	for _, vote := range res.Value() {
		response = append(response, toVoteResponse(vote))
	}
	c.JSON(http.StatusOK, response)
}

// RegisterRoutes registers voting routes. Group-scoped reads live under the
// groups router so the path parameters line up with the groups package.
func (h *Handler) RegisterRoutes(votings, groups *gin.RouterGroup) {
	votings.Use(auth.AuthMiddleware())
	votings.POST("", h.CreateVoting)
	votings.GET("/:id", h.GetVoting)
	votings.GET("/:id/votes", h.ListVotes)
	votings.POST("/:id/votes", h.CreateVote)

	groups.GET("/:id/votings", h.ListGroupVotings)
	groups.GET("/:id/votings/last", h.GetLastGroupVoting)
	groups.GET("/:id/members/:userId/votes", h.ListMemberVotes)
}
