package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestDayOf(t *testing.T) {
	// Day is derived in UTC regardless of the timestamp's zone.
	behind := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, behind)
	if got := DayOf(late); got != "2026-03-11" {
		t.Errorf("Expected 2026-03-11, got %s", got)
	}
	if got := DayOf(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)); got != "2026-03-10" {
		t.Errorf("Expected 2026-03-10, got %s", got)
	}
}

func TestVotingOpenAt(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	voting := Voting{CreatedAt: createdAt}
	window := 24 * time.Hour

	if !voting.OpenAt(createdAt, window) {
		t.Error("Expected open at creation")
	}
	if !voting.OpenAt(createdAt.Add(window), window) {
		t.Error("Expected still open at exactly createdAt+window")
	}
	if voting.OpenAt(createdAt.Add(window+time.Nanosecond), window) {
		t.Error("Expected expired just past the window")
	}
}

func TestUserEmailUnique(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&User{Email: "a@example.com", Name: "A"}).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if err := db.Create(&User{Email: "a@example.com", Name: "B"}).Error; err == nil {
		t.Error("Expected duplicate email to be rejected")
	}
}

func TestMembershipUniquePerGroup(t *testing.T) {
	db := setupTestDB(t)

	user := User{Email: "a@example.com", Name: "A"}
	db.Create(&user)
	group := Group{Name: "Team"}
	db.Create(&group)

	if err := db.Create(&GroupMembership{UserID: user.ID, GroupID: group.ID}).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	if err := db.Create(&GroupMembership{UserID: user.ID, GroupID: group.ID}).Error; err == nil {
		t.Error("Expected duplicate membership to be rejected")
	}

	// Same user in a different group is fine.
	other := Group{Name: "Other"}
	db.Create(&other)
	if err := db.Create(&GroupMembership{UserID: user.ID, GroupID: other.ID}).Error; err != nil {
		t.Errorf("Expected membership in another group to succeed: %v", err)
	}
}

func TestOneVotingPerGroupPerDay(t *testing.T) {
	db := setupTestDB(t)

	group := Group{Name: "Team"}
	db.Create(&group)
	now := time.Now()

	if err := db.Create(&Voting{GroupID: group.ID, Day: DayOf(now), CreatedAt: now}).Error; err != nil {
		t.Fatalf("Failed to create voting: %v", err)
	}
	if err := db.Create(&Voting{GroupID: group.ID, Day: DayOf(now), CreatedAt: now}).Error; err == nil {
		t.Error("Expected second voting on the same day to be rejected")
	}

	tomorrow := now.Add(24 * time.Hour)
	if err := db.Create(&Voting{GroupID: group.ID, Day: DayOf(tomorrow), CreatedAt: tomorrow}).Error; err != nil {
		t.Errorf("Expected voting on the next day to succeed: %v", err)
	}
}

func TestOneVotePerUserPerVoting(t *testing.T) {
	db := setupTestDB(t)

	user := User{Email: "a@example.com", Name: "A"}
	db.Create(&user)
	group := Group{Name: "Team"}
	db.Create(&group)
	voting := Voting{GroupID: group.ID, Day: DayOf(time.Now()), CreatedAt: time.Now()}
	db.Create(&voting)

	if err := db.Create(&Vote{VotingID: voting.ID, CreatedByID: &user.ID, Score: 3}).Error; err != nil {
		t.Fatalf("Failed to create vote: %v", err)
	}
	if err := db.Create(&Vote{VotingID: voting.ID, CreatedByID: &user.ID, Score: 5}).Error; err == nil {
		t.Error("Expected second vote by the same user to be rejected")
	}
}

func TestAnonymousVotesUnconstrained(t *testing.T) {
	db := setupTestDB(t)

	group := Group{Name: "Team", AnonymousVoteAllowed: true}
	db.Create(&group)
	voting := Voting{GroupID: group.ID, Day: DayOf(time.Now()), CreatedAt: time.Now()}
	db.Create(&voting)

	// NULL created_by rows are exempt from the unique index.
	for i := 0; i < 3; i++ {
		vote := Vote{VotingID: voting.ID, Score: 2}
		if err := db.Create(&vote).Error; err != nil {
			t.Fatalf("Expected anonymous vote %d to succeed: %v", i, err)
		}
		if !vote.Anonymous() {
			t.Error("Expected vote with nil CreatedByID to be anonymous")
		}
	}
}

func TestVoteScoreCheckConstraint(t *testing.T) {
	db := setupTestDB(t)

	group := Group{Name: "Team"}
	db.Create(&group)
	voting := Voting{GroupID: group.ID, Day: DayOf(time.Now()), CreatedAt: time.Now()}
	db.Create(&voting)

	if err := db.Create(&Vote{VotingID: voting.ID, Score: 9}).Error; err == nil {
		t.Error("Expected out-of-range score to be rejected by the check constraint")
	}
}
