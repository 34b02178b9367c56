package groups

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teammood/teammood/pkg/teammood/auth"
	"github.com/teammood/teammood/pkg/teammood/httpapi"
	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/gorm"
)

// Handler handles group management requests
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{service: NewService(db)}
}

// CreateGroupRequest represents the group creation request body
type CreateGroupRequest struct {
	Name                 string `json:"name" binding:"required"`
	AnonymousVoteAllowed bool   `json:"anonymous_vote_allowed"`
	VisibleMemberList    bool   `json:"visible_member_list"`
}

// UpdateGroupRequest represents the group update request body
type UpdateGroupRequest struct {
	Name                 string `json:"name" binding:"required"`
	AnonymousVoteAllowed bool   `json:"anonymous_vote_allowed"`
	VisibleMemberList    bool   `json:"visible_member_list"`
}

// AddMemberRequest invites a user into the group by email
type AddMemberRequest struct {
	Email   string `json:"email" binding:"required,email"`
	AsAdmin bool   `json:"as_admin"`
}

// GroupResponse represents group data in responses
type GroupResponse struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	AnonymousVoteAllowed bool   `json:"anonymous_vote_allowed"`
	VisibleMemberList    bool   `json:"visible_member_list"`
	IsCurrentUserAdmin   bool   `json:"is_current_user_admin"`
}

// MemberResponse represents a group member in responses
type MemberResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) toGroupResponse(group models.Group, currentUserID uint) GroupResponse {
	isAdmin, _ := h.service.IsAdmin(currentUserID, group.ID)
	return GroupResponse{
		ID:                   group.ID,
		Name:                 group.Name,
		AnonymousVoteAllowed: group.AnonymousVoteAllowed,
		VisibleMemberList:    group.VisibleMemberList,
		IsCurrentUserAdmin:   isAdmin,
	}
}

func groupID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return 0, false
	}
	return uint(id), true
}

// Create handles group creation
// @Summary Create a group
// @Description Create a group; the creator becomes its first admin
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.service.CreateGroup(CreateGroupInput{
		CurrentUserID:        userID,
		Name:                 req.Name,
		AnonymousVoteAllowed: req.AnonymousVoteAllowed,
		VisibleMemberList:    req.VisibleMemberList,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, h.toGroupResponse(group, userID))
}

// Update handles group settings changes
// @Summary Update a group
// @Description Update a group's settings; group admins only
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body UpdateGroupRequest true "New settings"
// @Success 200 {object} GroupResponse
// @Failure 403 {object} result.Error "Not a group admin"
// @Failure 404 {object} result.Error "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := groupID(c)
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.UpdateGroup(UpdateGroupInput{
		CurrentUserID:        userID,
		GroupID:              id,
		Name:                 req.Name,
		AnonymousVoteAllowed: req.AnonymousVoteAllowed,
		VisibleMemberList:    req.VisibleMemberList,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusOK, h.toGroupResponse(res.Value(), userID))
}

// Get returns a single group
// @Summary Get a group
// @Description Get a group the current user belongs to
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupResponse
// @Failure 403 {object} result.Error "Not a member"
// @Failure 404 {object} result.Error "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := groupID(c)
	if !ok {
		return
	}

	res, err := h.service.GetGroup(userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get group"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusOK, h.toGroupResponse(res.Value(), userID))
}

// List returns the current user's groups
// @Summary List my groups
// @Description List the groups the current user belongs to
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	groups, err := h.service.ListGroupsUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}

	response := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, h.toGroupResponse(group, userID))
	}
	c.JSON(http.StatusOK, response)
}

// AddMember invites a user into the group
// @Summary Add a member
// @Description Add a user to the group by email; group admins only
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body AddMemberRequest true "User to add"
// @Success 201 {object} MemberResponse
// @Failure 403 {object} result.Error "Not a group admin"
// @Failure 404 {object} result.Error "Group or user not found"
// @Failure 409 {object} result.Error "Already a member"
// @Security BearerAuth
// @Router /groups/{id}/members [post]
func (h *Handler) AddMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := groupID(c)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.AddUserToGroup(AddUserToGroupInput{
		CurrentUserID: userID,
		GroupID:       id,
		Email:         req.Email,
		AsAdmin:       req.AsAdmin,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	membership := res.Value()
	c.JSON(http.StatusCreated, gin.H{
		"user_id":  membership.UserID,
		"group_id": membership.GroupID,
		"role":     string(membership.Role),
	})
}

// Leave removes the current user from the group
// @Summary Leave a group
// @Description Leave the group; the sole remaining admin can't leave
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} result.Error "Sole admin"
// @Failure 403 {object} result.Error "Not a member"
// @Security BearerAuth
// @Router /groups/{id}/leave [post]
func (h *Handler) Leave(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := groupID(c)
	if !ok {
		return
	}

	res, err := h.service.LeaveGroup(userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		return
	}
	if res.HasErrors() {
		httpapi.Fail(c, *res.Err())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group"})
}

// ListMembers returns the group's member list
// @Summary List group members
// @Description List the group's members; hidden member lists yield an empty list for plain members
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} MemberResponse
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := groupID(c)
	if !ok {
		return
	}

	users, err := h.service.ListUsersGroup(userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	response := make([]MemberResponse, 0, len(users))
	for _, user := range users {
		response = append(response, MemberResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		})
	}
	c.JSON(http.StatusOK, response)
}

// RegisterRoutes registers group routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(auth.AuthMiddleware())
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/:id/members", h.AddMember)
	rg.POST("/:id/leave", h.Leave)
}
