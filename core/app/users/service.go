package users

import (
	"errors"
	"fmt"

	"mdbase/core/emitter"
	"mdbase/core/logger"
	"mdbase/core/types"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	UpdateUserEvent = "users.update"
	DeleteUserEvent = "users.delete"
)

// Plugin default account used by the anonymous Chrome-extension routes.
const (
	PluginUserUsername = "chrome_plugin_user"
	PluginUserEmail    = "chrome_plugin@example.com"
	pluginUserPassword = "chrome_plugin_password_123"
)

var (
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
)

type UserService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
}

func NewUserService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger) *UserService {
	if db == nil {
		panic("db is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &UserService{
		DB:      db,
		Emitter: emitter,
		Logger:  logger,
	}
}

// GetById gets a user by ID.
func (s *UserService) GetById(id uint) (*User, error) {
	var user User
	if err := s.DB.First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.Logger.Error("Database error while fetching user",
				logger.String("error", err.Error()),
				logger.Uint("user_id", id))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetAll returns a page of users.
func (s *UserService) GetAll(page *int, limit *int) (*types.PaginatedResponse, error) {
	var items []*User
	var total int64

	defaultPage := 1
	defaultLimit := 20
	if page == nil {
		page = &defaultPage
	}
	if limit == nil {
		limit = &defaultLimit
	}

	query := s.DB.Model(&User{})

	if err := query.Count(&total).Error; err != nil {
		s.Logger.Error("failed to count users", logger.String("error", err.Error()))
		return nil, err
	}

	offset := (*page - 1) * *limit
	if err := query.Order("id ASC").Offset(offset).Limit(*limit).Find(&items).Error; err != nil {
		s.Logger.Error("failed to get users", logger.String("error", err.Error()))
		return nil, err
	}

	responses := make([]*UserResponse, len(items))
	for i, item := range items {
		responses[i] = item.ToResponse()
	}

	return &types.PaginatedResponse{
		Items:       responses,
		Total:       total,
		Pages:       types.TotalPages(total, *limit),
		CurrentPage: *page,
		PerPage:     *limit,
	}, nil
}

// Update applies a partial update, enforcing username and email uniqueness
// against other accounts.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*User, error) {
	item := &User{}
	if err := s.DB.First(item, id).Error; err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != item.Username {
		var count int64
		if err := s.DB.Model(&User{}).
			Where("username = ? AND id <> ?", req.Username, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
		item.Username = req.Username
	}

	if req.Email != "" && req.Email != item.Email {
		var count int64
		if err := s.DB.Model(&User{}).
			Where("email = ? AND id <> ?", req.Email, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		item.Email = req.Email
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.Logger.Error("failed to hash password", logger.String("error", err.Error()))
			return nil, err
		}
		item.Password = string(hashed)
	}

	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to update user",
			logger.String("error", err.Error()),
			logger.Uint("user_id", id))
		return nil, err
	}

	s.Emitter.Emit(UpdateUserEvent, item)

	return item, nil
}

// Delete removes an account permanently. Deleting your own account is
// rejected.
func (s *UserService) Delete(id uint, requesterId uint) error {
	if id == requesterId {
		return errors.New("cannot delete your own account")
	}

	item := &User{}
	if err := s.DB.First(item, id).Error; err != nil {
		return err
	}

	if err := s.DB.Delete(item).Error; err != nil {
		s.Logger.Error("failed to delete user",
			logger.String("error", err.Error()),
			logger.Uint("user_id", id))
		return err
	}

	s.Emitter.Emit(DeleteUserEvent, item)

	return nil
}

// ToggleAdmin flips the admin flag of another account.
func (s *UserService) ToggleAdmin(id uint, requesterId uint) (*User, error) {
	if id == requesterId {
		return nil, errors.New("cannot change your own admin flag")
	}

	item := &User{}
	if err := s.DB.First(item, id).Error; err != nil {
		return nil, err
	}

	item.IsAdmin = !item.IsAdmin
	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to toggle admin flag",
			logger.String("error", err.Error()),
			logger.Uint("user_id", id))
		return nil, err
	}

	s.Emitter.Emit(UpdateUserEvent, item)

	return item, nil
}

// EnsurePluginUser returns the Chrome-extension default account, creating it
// on first use.
func (s *UserService) EnsurePluginUser() (*User, bool, error) {
	var user User
	err := s.DB.Where("username = ?", PluginUserUsername).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(pluginUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	user = User{
		Username: PluginUserUsername,
		Email:    PluginUserEmail,
		Password: string(hashed),
		IsAdmin:  false,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		s.Logger.Error("failed to create plugin default user",
			logger.String("error", err.Error()))
		return nil, false, err
	}

	return &user, true, nil
}
