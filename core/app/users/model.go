package users

import (
	"time"
)

// User represents an account. Passwords are stored as bcrypt hashes and
// never serialized.
type User struct {
	Id        uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"column:username;unique;not null;size:80"`
	Email     string    `json:"email" gorm:"column:email;unique;not null;size:120"`
	Password  string    `json:"-" gorm:"column:password_hash;size:255;not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"column:is_admin;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for the User model.
func (m *User) TableName() string {
	return "users"
}

// UpdateUserRequest represents a partial account update. Every field is
// optional; empty means "leave unchanged".
type UpdateUserRequest struct {
	Username string `json:"username,omitempty" binding:"omitempty,min=3,max=80"`
	Email    string `json:"email,omitempty" binding:"omitempty,email,max=120"`
	Password string `json:"password,omitempty" binding:"omitempty,min=6,max=255"`
}

// UserResponse represents the API response for a User.
type UserResponse struct {
	Id        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToResponse converts the User to a UserResponse.
func (m *User) ToResponse() *UserResponse {
	if m == nil {
		return nil
	}
	return &UserResponse{
		Id:        m.Id,
		Username:  m.Username,
		Email:     m.Email,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
}
