package groups

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/teammood/teammood/pkg/teammood/auth"
	"github.com/teammood/teammood/pkg/teammood/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)
	handler.RegisterRoutes(r.Group("/api/groups"))
	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email string) (models.User, string) {
	user := models.User{Email: email, Name: "Test User"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	token, err := auth.GenerateToken(user.ID, user.Email, string(user.SystemRole))
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return user, token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorCode(resp *httptest.ResponseRecorder) string {
	var failure struct {
		Code string `json:"code"`
	}
	json.Unmarshal(resp.Body.Bytes(), &failure)
	return failure.Code
}

func TestCreateGroupMakesCreatorAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user, token := createTestUser(t, db, "creator@example.com")

	resp := doJSON(router, "POST", "/api/groups", token, CreateGroupRequest{
		Name:                 "Mood Team",
		AnonymousVoteAllowed: true,
		VisibleMemberList:    true,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)
	if group.Name != "Mood Team" {
		t.Errorf("Expected name Mood Team, got %s", group.Name)
	}
	if !group.IsCurrentUserAdmin {
		t.Error("Expected creator to be group admin")
	}

	var membership models.GroupMembership
	if err := db.Where("user_id = ? AND group_id = ?", user.ID, group.ID).First(&membership).Error; err != nil {
		t.Fatalf("Expected a membership row: %v", err)
	}
	if !membership.IsAdmin() {
		t.Error("Expected admin membership for creator")
	}
}

func TestGetGroupRequiresMembership(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, adminToken := createTestUser(t, db, "creator@example.com")
	_, outsiderToken := createTestUser(t, db, "outsider@example.com")

	resp := doJSON(router, "POST", "/api/groups", adminToken, CreateGroupRequest{Name: "Team"})
	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)

	resp = doJSON(router, "GET", fmt.Sprintf("/api/groups/%d", group.ID), adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for member, got %d", resp.Code)
	}

	resp = doJSON(router, "GET", fmt.Sprintf("/api/groups/%d", group.ID), outsiderToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for outsider, got %d", resp.Code)
	}
	if errorCode(resp) != "API_ERRORS.USER_NOT_IN_GROUP" {
		t.Errorf("Expected USER_NOT_IN_GROUP, got %s", errorCode(resp))
	}

	resp = doJSON(router, "GET", "/api/groups/9999", adminToken, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing group, got %d", resp.Code)
	}
}

func TestUpdateGroupAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, adminToken := createTestUser(t, db, "creator@example.com")
	member, memberToken := createTestUser(t, db, "member@example.com")

	resp := doJSON(router, "POST", "/api/groups", adminToken, CreateGroupRequest{Name: "Team"})
	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})

	update := UpdateGroupRequest{Name: "Renamed", AnonymousVoteAllowed: true, VisibleMemberList: true}

	resp = doJSON(router, "PUT", fmt.Sprintf("/api/groups/%d", group.ID), memberToken, update)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for plain member, got %d", resp.Code)
	}
	if errorCode(resp) != "API_ERRORS.NOT_AN_ADMIN" {
		t.Errorf("Expected NOT_AN_ADMIN, got %s", errorCode(resp))
	}

	resp = doJSON(router, "PUT", fmt.Sprintf("/api/groups/%d", group.ID), adminToken, update)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for admin, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Name != "Renamed" || !updated.AnonymousVoteAllowed {
		t.Errorf("Expected updated settings, got %+v", updated)
	}
}

func TestAddMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, adminToken := createTestUser(t, db, "creator@example.com")
	_, memberToken := createTestUser(t, db, "member@example.com")

	resp := doJSON(router, "POST", "/api/groups", adminToken, CreateGroupRequest{Name: "Team"})
	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)
	membersPath := fmt.Sprintf("/api/groups/%d/members", group.ID)

	resp = doJSON(router, "POST", membersPath, adminToken, AddMemberRequest{Email: "member@example.com"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// Adding twice conflicts.
	resp = doJSON(router, "POST", membersPath, adminToken, AddMemberRequest{Email: "member@example.com"})
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", resp.Code)
	}
	if errorCode(resp) != "API_ERRORS.USER_ALREADY_ON_GROUP" {
		t.Errorf("Expected USER_ALREADY_ON_GROUP, got %s", errorCode(resp))
	}

	// Plain members can't invite.
	createTestUser(t, db, "third@example.com")
	resp = doJSON(router, "POST", membersPath, memberToken, AddMemberRequest{Email: "third@example.com"})
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for plain member, got %d", resp.Code)
	}

	// Unknown target user.
	resp = doJSON(router, "POST", membersPath, adminToken, AddMemberRequest{Email: "ghost@example.com"})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown user, got %d", resp.Code)
	}
}

func TestLeaveGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, adminToken := createTestUser(t, db, "creator@example.com")
	member, memberToken := createTestUser(t, db, "member@example.com")

	resp := doJSON(router, "POST", "/api/groups", adminToken, CreateGroupRequest{Name: "Team"})
	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})
	leavePath := fmt.Sprintf("/api/groups/%d/leave", group.ID)

	// The sole admin can't leave.
	resp = doJSON(router, "POST", leavePath, adminToken, nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for sole admin, got %d", resp.Code)
	}
	if errorCode(resp) != "API_ERRORS.UNIQUE_ADMIN" {
		t.Errorf("Expected UNIQUE_ADMIN, got %s", errorCode(resp))
	}

	// A plain member leaves fine.
	resp = doJSON(router, "POST", leavePath, memberToken, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for member leave, got %d: %s", resp.Code, resp.Body.String())
	}

	// Leaving twice fails with USER_NOT_IN_GROUP.
	resp = doJSON(router, "POST", leavePath, memberToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 on second leave, got %d", resp.Code)
	}
}

func TestLeaveGroupAfterPromotingAnotherAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, adminToken := createTestUser(t, db, "creator@example.com")
	member, _ := createTestUser(t, db, "member@example.com")

	resp := doJSON(router, "POST", "/api/groups", adminToken, CreateGroupRequest{Name: "Team"})
	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})

	resp = doJSON(router, "POST", fmt.Sprintf("/api/groups/%d/leave", group.ID), adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 once another admin exists, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListMembersVisibility(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, adminToken := createTestUser(t, db, "creator@example.com")
	member, memberToken := createTestUser(t, db, "member@example.com")

	// Hidden member list.
	resp := doJSON(router, "POST", "/api/groups", adminToken, CreateGroupRequest{
		Name:              "Team",
		VisibleMemberList: false,
	})
	var group GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})
	membersPath := fmt.Sprintf("/api/groups/%d/members", group.ID)

	// Admins always see the list.
	resp = doJSON(router, "GET", membersPath, adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var members []MemberResponse
	json.Unmarshal(resp.Body.Bytes(), &members)
	if len(members) != 2 {
		t.Errorf("Expected 2 members for admin, got %d", len(members))
	}

	// Plain members degrade to an empty list instead of an error.
	resp = doJSON(router, "GET", membersPath, memberToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	json.Unmarshal(resp.Body.Bytes(), &members)
	if len(members) != 0 {
		t.Errorf("Expected empty list for plain member, got %d", len(members))
	}
}

func TestListGroupsUser(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	_, token := createTestUser(t, db, "creator@example.com")
	_, otherToken := createTestUser(t, db, "other@example.com")

	doJSON(router, "POST", "/api/groups", token, CreateGroupRequest{Name: "One"})
	doJSON(router, "POST", "/api/groups", token, CreateGroupRequest{Name: "Two"})
	doJSON(router, "POST", "/api/groups", otherToken, CreateGroupRequest{Name: "Theirs"})

	resp := doJSON(router, "GET", "/api/groups", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var groups []GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &groups)
	if len(groups) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(groups))
	}
}
