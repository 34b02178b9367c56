package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teammood/teammood/pkg/teammood/auth"
	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Handler handles admin requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UserResponse represents user data in admin responses
type UserResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	SystemRole string `json:"system_role"`
	CreatedAt  string `json:"created_at"`
	GroupCount int64  `json:"group_count"`
	VoteCount  int64  `json:"vote_count"`
}

// GroupSummary represents group data in admin responses
type GroupSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	VotingCount int64  `json:"voting_count"`
}

// StatsResponse represents system statistics
type StatsResponse struct {
	TotalUsers   int64 `json:"total_users"`
	TotalGroups  int64 `json:"total_groups"`
	TotalVotings int64 `json:"total_votings"`
	TotalVotes   int64 `json:"total_votes"`
	AdminUsers   int64 `json:"admin_users"`
}

func (h *Handler) toUserResponse(user models.User) UserResponse {
	var groupCount, voteCount int64
	h.db.Model(&models.GroupMembership{}).Where("user_id = ?", user.ID).Count(&groupCount)
	h.db.Model(&models.Vote{}).Where("created_by_id = ?", user.ID).Count(&voteCount)

	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		SystemRole: string(user.SystemRole),
		CreatedAt:  user.CreatedAt.UTC().Format(time.RFC3339),
		GroupCount: groupCount,
		VoteCount:  voteCount,
	}
}

// ListUsers returns all users (admin only)
// @Summary List users
// @Description List all users; system admins only
// @Tags admin
// @Produce json
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User

	query := h.db.Order("created_at DESC")

	// Optional search by email or name
	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	// Optional filter by role
	if role := c.Query("role"); role != "" {
		query = query.Where("system_role = ?", role)
	}

	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = h.toUserResponse(user)
	}
	c.JSON(http.StatusOK, responses)
}

// GetUser returns a single user by ID (admin only)
// @Summary Get a user
// @Description Get a user by ID; system admins only
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, h.toUserResponse(user))
}

// ListGroups returns all groups (admin only)
// @Summary List groups
// @Description List all groups with member and voting counts; system admins only
// @Tags admin
// @Produce json
// @Success 200 {array} GroupSummary
// @Security BearerAuth
// @Router /admin/groups [get]
func (h *Handler) ListGroups(c *gin.Context) {
	var groups []models.Group
	if err := h.db.Order("id").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	responses := make([]GroupSummary, len(groups))
	for i, group := range groups {
		var memberCount, votingCount int64
		h.db.Model(&models.GroupMembership{}).Where("group_id = ?", group.ID).Count(&memberCount)
		h.db.Model(&models.Voting{}).Where("group_id = ?", group.ID).Count(&votingCount)

		responses[i] = GroupSummary{
			ID:          group.ID,
			Name:        group.Name,
			MemberCount: memberCount,
			VotingCount: votingCount,
		}
	}
	c.JSON(http.StatusOK, responses)
}

// Stats returns system-wide counts (admin only)
// @Summary System statistics
// @Description Totals across users, groups, votings and votes; system admins only
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var stats StatsResponse
	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.Group{}).Count(&stats.TotalGroups)
	h.db.Model(&models.Voting{}).Count(&stats.TotalVotings)
	h.db.Model(&models.Vote{}).Count(&stats.TotalVotes)
	h.db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&stats.AdminUsers)

	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(auth.AuthMiddleware(), auth.RequireAdmin())
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.GET("/groups", h.ListGroups)
	rg.GET("/stats", h.Stats)
}
