package users

import (
	"errors"
	"fmt"
	"testing"

	"mdbase/core/emitter"
	"mdbase/core/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupService(t *testing.T) *UserService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewUserService(db, emitter.New(), logger.NewNop())
}

func seedUser(t *testing.T, svc *UserService, username string, admin bool) *User {
	t.Helper()

	user := &User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
		IsAdmin:  admin,
	}
	if err := svc.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestUpdateRejectsTakenUsername(t *testing.T) {
	svc := setupService(t)

	seedUser(t, svc, "alice", false)
	bob := seedUser(t, svc, "bob", false)

	if _, err := svc.Update(bob.Id, &UpdateUserRequest{Username: "alice"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
	if _, err := svc.Update(bob.Id, &UpdateUserRequest{Email: "alice@example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestUpdateRehashesPassword(t *testing.T) {
	svc := setupService(t)

	alice := seedUser(t, svc, "alice", false)

	updated, err := svc.Update(alice.Id, &UpdateUserRequest{Password: "new-secret"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-secret")); err != nil {
		t.Errorf("stored password does not verify: %v", err)
	}
}

func TestDeleteGuardsSelf(t *testing.T) {
	svc := setupService(t)

	admin := seedUser(t, svc, "admin", true)
	other := seedUser(t, svc, "other", false)

	if err := svc.Delete(admin.Id, admin.Id); err == nil {
		t.Error("deleting your own account should fail")
	}
	if err := svc.Delete(other.Id, admin.Id); err != nil {
		t.Errorf("deleting another account failed: %v", err)
	}
	if _, err := svc.GetById(other.Id); err == nil {
		t.Error("deleted account should be gone")
	}
}

func TestToggleAdminGuardsSelf(t *testing.T) {
	svc := setupService(t)

	admin := seedUser(t, svc, "admin", true)
	other := seedUser(t, svc, "other", false)

	if _, err := svc.ToggleAdmin(admin.Id, admin.Id); err == nil {
		t.Error("toggling your own admin flag should fail")
	}

	toggled, err := svc.ToggleAdmin(other.Id, admin.Id)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !toggled.IsAdmin {
		t.Error("expected admin after toggle")
	}
}

func TestGetAllPaginates(t *testing.T) {
	svc := setupService(t)

	for i := 0; i < 25; i++ {
		seedUser(t, svc, fmt.Sprintf("user%02d", i), false)
	}

	page := 2
	limit := 10
	result, err := svc.GetAll(&page, &limit)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 25 {
		t.Errorf("total = %d, want 25", result.Total)
	}
	if result.Pages != 3 {
		t.Errorf("pages = %d, want 3", result.Pages)
	}
	items, ok := result.Items.([]*UserResponse)
	if !ok {
		t.Fatalf("items have type %T", result.Items)
	}
	if len(items) != 10 {
		t.Errorf("page 2 has %d items, want 10", len(items))
	}
}

func TestEnsurePluginUserIdempotent(t *testing.T) {
	svc := setupService(t)

	first, created, err := svc.EnsurePluginUser()
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if !created {
		t.Error("first call should create the account")
	}
	if first.Username != PluginUserUsername || first.Email != PluginUserEmail {
		t.Errorf("unexpected plugin account: %s / %s", first.Username, first.Email)
	}
	if first.IsAdmin {
		t.Error("plugin account must not be admin")
	}

	second, created, err := svc.EnsurePluginUser()
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if created {
		t.Error("second call should reuse the account")
	}
	if second.Id != first.Id {
		t.Errorf("second call returned a different account: %d vs %d", second.Id, first.Id)
	}
}
