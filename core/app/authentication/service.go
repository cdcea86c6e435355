package authentication

import (
	"errors"
	"time"

	"mdbase/core/app/users"
	"mdbase/core/config"
	"mdbase/core/emitter"
	"mdbase/core/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RegisterEvent = "authentication.register"
	LoginEvent    = "authentication.login"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
	Config  *config.Config
	Users   *users.UserService
}

func NewAuthService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		DB:      db,
		Emitter: emitter,
		Logger:  logger,
		Config:  cfg,
		Users:   users.NewUserService(db, emitter, logger),
	}
}

// Register creates a new account. The first account in an empty users table
// is promoted to admin.
func (s *AuthService) Register(req *RegisterRequest) (*users.User, error) {
	var count int64
	if err := s.DB.Model(&users.User{}).
		Where("username = ?", req.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	if err := s.DB.Model(&users.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error("failed to hash password", logger.String("error", err.Error()))
		return nil, err
	}

	var total int64
	if err := s.DB.Model(&users.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	user := &users.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		IsAdmin:  total == 0, // bootstrap: first account administers the instance
	}

	if err := s.DB.Create(user).Error; err != nil {
		s.Logger.Error("failed to create user", logger.String("error", err.Error()))
		return nil, err
	}

	s.Emitter.Emit(RegisterEvent, user)

	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *AuthService) Login(req *LoginRequest) (*TokenResponse, error) {
	var user users.User
	if err := s.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		s.Logger.Error("failed to sign token",
			logger.String("error", err.Error()),
			logger.Uint("user_id", user.Id))
		return nil, err
	}

	s.Emitter.Emit(LoginEvent, &user)

	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *AuthService) issueToken(user *users.User) (string, error) {
	now := time.Now()
	expiry := time.Duration(s.Config.JWTExpirationHours) * time.Hour

	claims := Claims{
		UserId:   user.Id,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Config.JWTSecret))
}

// GetProfile loads the account behind a token subject.
func (s *AuthService) GetProfile(userId uint) (*users.User, error) {
	var user users.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial self-update with the same uniqueness rules
// as the users module.
func (s *AuthService) UpdateProfile(userId uint, req *users.UpdateUserRequest) (*users.User, error) {
	return s.Users.Update(userId, req)
}
