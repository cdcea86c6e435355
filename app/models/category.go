package models

import (
	"time"
)

// Category groups documents under a unique name.
type Category struct {
	Id          uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"column:name;unique;not null;size:50"`
	Description string    `json:"description" gorm:"column:description;size:200"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for the Category model.
func (m *Category) TableName() string {
	return "categories"
}

// CreateCategoryRequest represents the payload for creating a Category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description,omitempty" binding:"omitempty,max=200"`
}

// UpdateCategoryRequest represents a partial Category update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=200"`
}

// CategoryResponse represents the API response for a Category.
type CategoryResponse struct {
	Id          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts the model to an API response.
func (m *Category) ToResponse() *CategoryResponse {
	if m == nil {
		return nil
	}
	return &CategoryResponse{
		Id:          m.Id,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
