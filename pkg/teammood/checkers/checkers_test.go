package checkers

import (
	"testing"
	"time"

	"github.com/teammood/teammood/pkg/teammood/models"
	"github.com/teammood/teammood/pkg/teammood/result"
	"github.com/teammood/teammood/pkg/teammood/store"
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

func intPtr(v int) *int { return &v }

func TestVoteScoreBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		valid bool
	}{
		{"nil score", nil, false},
		{"zero", intPtr(0), false},
		{"lower bound", intPtr(1), true},
		{"middle", intPtr(3), true},
		{"upper bound", intPtr(5), true},
		{"above upper bound", intPtr(6), false},
		{"negative", intPtr(-1), false},
	}

	checker := VoteScoreBoundaries{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := checker.Check(tt.score)
			if tt.valid && check.HasError() {
				t.Errorf("Expected valid score, got %v", check.Err())
			}
			if !tt.valid {
				if !check.HasError() {
					t.Fatal("Expected invalid score")
				}
				if check.Err().Code != result.ErrScoreIsInvalid.Code {
					t.Errorf("Expected SCORE_IS_INVALID, got %s", check.Err().Code)
				}
			}
		})
	}
}

func TestVotingHasExpired(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	tests := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{"just created", createdAt, false},
		{"within window", createdAt.Add(12 * time.Hour), false},
		{"exactly at boundary", createdAt.Add(window), false},
		{"one second past", createdAt.Add(window + time.Second), true},
		{"long past", createdAt.Add(72 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := VotingHasExpired{Window: window, Now: func() time.Time { return tt.now }}
			check := checker.Check(&models.Voting{CreatedAt: createdAt})
			if tt.expired != check.HasError() {
				t.Errorf("Expected expired=%v, got error=%v", tt.expired, check.Err())
			}
		})
	}

	t.Run("absent voting", func(t *testing.T) {
		checker := VotingHasExpired{Window: window}
		if !checker.Check(nil).HasError() {
			t.Error("Expected failure for absent voting")
		}
	})
}

func TestVoteAnonymousAllowedInGroup(t *testing.T) {
	tests := []struct {
		name      string
		anonymous bool
		allowed   bool
		fails     bool
	}{
		{"named vote in strict group", false, false, false},
		{"named vote in open group", false, true, false},
		{"anonymous vote in open group", true, true, false},
		{"anonymous vote in strict group", true, false, true},
	}

	checker := VoteAnonymousAllowedInGroup{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := checker.Check(tt.anonymous, tt.allowed)
			if tt.fails != check.HasError() {
				t.Errorf("Expected fails=%v, got error=%v", tt.fails, check.Err())
			}
			if tt.fails && check.Err().Code != result.ErrVoteCantBeAnonymous.Code {
				t.Errorf("Expected VOTE_CANT_BE_ANONYMOUS, got %s", check.Err().Code)
			}
		})
	}
}

func TestUserOnlyVotedOnce(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Email: "voter@example.com", Name: "Voter"}
	db.Create(&user)
	group := models.Group{Name: "Team"}
	db.Create(&group)
	voting := models.Voting{GroupID: group.ID, Day: models.DayOf(time.Now()), CreatedAt: time.Now()}
	db.Create(&voting)

	checker := UserOnlyVotedOnce{Votes: store.NewVotes(db)}

	if checker.Check(&user, &voting).HasError() {
		t.Error("Expected pass before any vote")
	}

	db.Create(&models.Vote{VotingID: voting.ID, CreatedByID: &user.ID, Score: 4})

	check := checker.Check(&user, &voting)
	if !check.HasError() {
		t.Fatal("Expected failure after voting")
	}
	if check.Err().Code != result.ErrUserAlreadyVote.Code {
		t.Errorf("Expected USER_ALREADY_VOTE, got %s", check.Err().Code)
	}

	if checker.Check(nil, &voting).HasError() {
		t.Error("Expected pass for absent user")
	}
}

func TestUserIsInGroup(t *testing.T) {
	db := setupTestDB(t)

	member := models.User{Email: "member@example.com", Name: "Member"}
	db.Create(&member)
	outsider := models.User{Email: "outsider@example.com", Name: "Outsider"}
	db.Create(&outsider)
	group := models.Group{Name: "Team"}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})

	checker := UserIsInGroup{Memberships: store.NewMemberships(db)}

	if checker.Check(&member, &group).HasError() {
		t.Error("Expected pass for member")
	}
	if !checker.Check(&outsider, &group).HasError() {
		t.Error("Expected failure for outsider")
	}
	if !checker.Check(nil, &group).HasError() {
		t.Error("Expected failure for absent user")
	}
	if !checker.Check(&member, nil).HasError() {
		t.Error("Expected failure for absent group")
	}
}

func TestUserIsGroupAdmin(t *testing.T) {
	db := setupTestDB(t)

	admin := models.User{Email: "admin@example.com", Name: "Admin"}
	db.Create(&admin)
	member := models.User{Email: "member@example.com", Name: "Member"}
	db.Create(&member)
	group := models.Group{Name: "Team"}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: admin.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})

	checker := UserIsGroupAdmin{Memberships: store.NewMemberships(db)}

	if checker.Check(admin.ID, group.ID).HasError() {
		t.Error("Expected pass for group admin")
	}
	check := checker.Check(member.ID, group.ID)
	if !check.HasError() {
		t.Fatal("Expected failure for plain member")
	}
	if check.Err().Code != result.ErrNotAnAdmin.Code {
		t.Errorf("Expected NOT_AN_ADMIN, got %s", check.Err().Code)
	}
}

func TestUserIsNotUniqueGroupAdmin(t *testing.T) {
	db := setupTestDB(t)

	admin := models.User{Email: "admin@example.com", Name: "Admin"}
	db.Create(&admin)
	member := models.User{Email: "member@example.com", Name: "Member"}
	db.Create(&member)
	group := models.Group{Name: "Team"}
	db.Create(&group)

	adminMembership := models.GroupMembership{UserID: admin.ID, GroupID: group.ID, Role: models.GroupRoleAdmin}
	db.Create(&adminMembership)
	memberMembership := models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember}
	db.Create(&memberMembership)

	checker := UserIsNotUniqueGroupAdmin{Memberships: store.NewMemberships(db)}

	check := checker.Check(&adminMembership)
	if !check.HasError() {
		t.Fatal("Expected failure for sole admin")
	}
	if check.Err().Code != result.ErrUniqueAdmin.Code {
		t.Errorf("Expected UNIQUE_ADMIN, got %s", check.Err().Code)
	}

	if checker.Check(&memberMembership).HasError() {
		t.Error("Expected pass for non-admin member")
	}

	// A second admin releases the first one.
	db.Create(&models.GroupMembership{UserID: member.ID + 100, GroupID: group.ID, Role: models.GroupRoleAdmin})
	if checker.Check(&adminMembership).HasError() {
		t.Error("Expected pass once another admin exists")
	}
}

func TestUserCanSeeGroupMembers(t *testing.T) {
	db := setupTestDB(t)

	admin := models.User{Email: "admin@example.com", Name: "Admin"}
	db.Create(&admin)
	member := models.User{Email: "member@example.com", Name: "Member"}
	db.Create(&member)
	outsider := models.User{Email: "outsider@example.com", Name: "Outsider"}
	db.Create(&outsider)
	group := models.Group{Name: "Team", VisibleMemberList: false}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: admin.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})

	checker := UserCanSeeGroupMembers{Memberships: store.NewMemberships(db)}

	if checker.Check(admin.ID, group.ID, false).HasError() {
		t.Error("Expected admin to see a hidden member list")
	}
	check := checker.Check(member.ID, group.ID, false)
	if !check.HasError() || check.Err().Code != result.ErrNotAnAdmin.Code {
		t.Error("Expected NOT_AN_ADMIN for plain member of hidden list")
	}
	if checker.Check(member.ID, group.ID, true).HasError() {
		t.Error("Expected member to see a visible member list")
	}
	check = checker.Check(outsider.ID, group.ID, true)
	if !check.HasError() || check.Err().Code != result.ErrUserNotInGroup.Code {
		t.Error("Expected USER_NOT_IN_GROUP for outsider")
	}
}

func TestNotPresent(t *testing.T) {
	group := models.Group{Name: "Team"}
	if NotPresent(&group, result.ErrNotFound).HasError() {
		t.Error("Expected pass for present value")
	}
	check := NotPresent[models.Group](nil, result.ErrNotFound)
	if !check.HasError() || check.Err().Code != result.ErrNotFound.Code {
		t.Error("Expected NOT_FOUND for absent value")
	}
}
