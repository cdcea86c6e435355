package authentication

import (
	"errors"
	"testing"

	"mdbase/core/app/users"
	"mdbase/core/config"
	"mdbase/core/emitter"
	"mdbase/core/logger"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 24,
	}
	return NewAuthService(db, emitter.New(), logger.NewNop(), cfg)
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	svc := setupService(t)

	first, err := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !first.IsAdmin {
		t.Error("first registered user should be admin")
	}

	second, err := svc.Register(&RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if second.IsAdmin {
		t.Error("second registered user should not be admin")
	}
}

func TestRegisterUniqueness(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Register(&RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}

	_, err = svc.Register(&RegisterRequest{Username: "carol", Email: "alice@example.com", Password: "secret1"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := setupService(t)

	registered, err := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(&LoginRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token.TokenType != "bearer" {
		t.Errorf("token type = %q, want bearer", token.TokenType)
	}

	parsed, err := jwt.Parse(token.AccessToken, func(t *jwt.Token) (any, error) {
		return []byte(svc.Config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if uint(claims["user_id"].(float64)) != registered.Id {
		t.Errorf("token user_id = %v, want %d", claims["user_id"], registered.Id)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(&LoginRequest{Username: "nobody", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUpdateProfileUniqueness(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	bob, err := svc.Register(&RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = svc.UpdateProfile(bob.Id, &users.UpdateUserRequest{Username: "alice"})
	if !errors.Is(err, users.ErrUsernameTaken) {
		t.Errorf("err = %v, want users.ErrUsernameTaken", err)
	}

	updated, err := svc.UpdateProfile(bob.Id, &users.UpdateUserRequest{Username: "robert"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "robert" {
		t.Errorf("username = %q, want robert", updated.Username)
	}
}
