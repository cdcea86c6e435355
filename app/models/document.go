package models

import (
	"encoding/json"
	"time"

	"mdbase/core/app/users"

	"gorm.io/gorm"
)

// Document statuses. Kept as integers for parity with the stored data.
const (
	StatusDraft     = 0
	StatusPublished = 1
	StatusArchived  = 2
)

// Document represents a Markdown document. Content is a block-structure JSON
// object; ContentText holds the plain text extracted from it and feeds the
// search queries. Title and Excerpt are denormalized copies kept on the row.
type Document struct {
	Id         uint            `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserId     uint            `json:"user_id" gorm:"column:user_id;not null;index:idx_user_id_status"`
	CategoryId *uint           `json:"category_id" gorm:"column:category_id;index"`
	Title      string          `json:"title" gorm:"column:title;not null;size:255"`
	Excerpt    string          `json:"excerpt" gorm:"column:excerpt;size:500"`
	Content    json.RawMessage `json:"content" gorm:"column:content;type:json"`
	ContentText string         `json:"-" gorm:"column:content_text;type:text"`
	Slug       string          `json:"slug" gorm:"column:slug;unique;size:255"`
	Status     int             `json:"status" gorm:"column:status;default:0;index:idx_user_id_status"`
	IsPinned   bool            `json:"is_pinned" gorm:"column:is_pinned;default:false;index"`
	CreatedAt  time.Time       `json:"created_at" gorm:"column:created_at;index"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"column:deleted_at;index"`

	Author   *users.User `json:"-" gorm:"foreignKey:UserId;references:Id"`
	Category *Category   `json:"-" gorm:"foreignKey:CategoryId;references:Id"`
}

// TableName returns the table name for the Document model.
func (m *Document) TableName() string {
	return "documents"
}

// CreateDocumentRequest represents the payload for creating a Document.
type CreateDocumentRequest struct {
	Title      string          `json:"title" binding:"required,min=1,max=255"`
	Excerpt    string          `json:"excerpt,omitempty" binding:"omitempty,max=500"`
	Content    json.RawMessage `json:"content,omitempty"`
	Slug       string          `json:"slug,omitempty" binding:"omitempty,max=255"`
	Status     int             `json:"status,omitempty" binding:"omitempty,gte=0,lte=2"`
	IsPinned   bool            `json:"is_pinned,omitempty"`
	CategoryId *uint           `json:"category_id,omitempty"`
}

// UpdateDocumentRequest represents a partial Document update. Pointer fields
// distinguish "absent" from zero values.
type UpdateDocumentRequest struct {
	Title      *string         `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Excerpt    *string         `json:"excerpt,omitempty" binding:"omitempty,max=500"`
	Content    json.RawMessage `json:"content,omitempty"`
	Slug       *string         `json:"slug,omitempty" binding:"omitempty,max=255"`
	Status     *int            `json:"status,omitempty" binding:"omitempty,gte=0,lte=2"`
	IsPinned   *bool           `json:"is_pinned,omitempty"`
	CategoryId *uint           `json:"category_id,omitempty"`
}

// DocumentResponse represents the API response for a Document.
type DocumentResponse struct {
	Id             uint            `json:"id"`
	UserId         uint            `json:"user_id"`
	CategoryId     *uint           `json:"category_id"`
	Title          string          `json:"title"`
	Excerpt        string          `json:"excerpt"`
	Content        json.RawMessage `json:"content"`
	Slug           string          `json:"slug"`
	Status         int             `json:"status"`
	IsPinned       bool            `json:"is_pinned"`
	AuthorUsername string          `json:"author_username,omitempty"`
	CategoryName   string          `json:"category_name,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
}

// ToResponse converts the model to an API response.
func (m *Document) ToResponse() *DocumentResponse {
	if m == nil {
		return nil
	}
	response := &DocumentResponse{
		Id:         m.Id,
		UserId:     m.UserId,
		CategoryId: m.CategoryId,
		Title:      m.Title,
		Excerpt:    m.Excerpt,
		Content:    m.Content,
		Slug:       m.Slug,
		Status:     m.Status,
		IsPinned:   m.IsPinned,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		response.DeletedAt = &t
	}
	if m.Author != nil {
		response.AuthorUsername = m.Author.Username
	}
	if m.Category != nil {
		response.CategoryName = m.Category.Name
	}
	return response
}

// Preload preloads the model's relationships.
func (m *Document) Preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Category")
}
