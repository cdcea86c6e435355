package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"mdbase/app/models"
	"mdbase/core/app/users"
	"mdbase/core/emitter"
	"mdbase/core/logger"
	"mdbase/core/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	CreateDocumentEvent  = "documents.create"
	UpdateDocumentEvent  = "documents.update"
	DeleteDocumentEvent  = "documents.delete"
	PublishDocumentEvent = "documents.publish"
	PinDocumentEvent     = "documents.pin"
)

// ErrInvalidFileType rejects uploads that are not Markdown files.
var ErrInvalidFileType = errors.New("only .md files are supported")

type DocumentService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
	Users   *users.UserService
}

func NewDocumentService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger, users *users.UserService) *DocumentService {
	return &DocumentService{
		DB:      db,
		Emitter: emitter,
		Logger:  logger,
		Users:   users,
	}
}

// extractContentText pulls the plain text out of a block-structure content
// document. A top-level "markdown" string wins; otherwise every string found
// under a "text" key is collected in document order.
func extractContentText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var root any
	if err := json.Unmarshal(content, &root); err != nil {
		return ""
	}

	if obj, ok := root.(map[string]any); ok {
		if md, ok := obj["markdown"].(string); ok {
			return md
		}
	}

	var parts []string
	var walk func(node any)
	walk = func(node any) {
		switch v := node.(type) {
		case map[string]any:
			if text, ok := v["text"].(string); ok && text != "" {
				parts = append(parts, text)
			}
			for _, child := range v {
				switch child.(type) {
				case map[string]any, []any:
					walk(child)
				}
			}
		case []any:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(root)

	return strings.Join(parts, "\n")
}

// uniqueSlug derives a URL-safe slug from base and appends -1, -2, ... until
// no other document holds it. Soft-deleted rows still occupy their slug.
func (s *DocumentService) uniqueSlug(base string, excludeId uint) (string, error) {
	candidate := slug.Make(base)
	if candidate == "" {
		candidate = "document"
	}

	original := candidate
	for i := 1; ; i++ {
		var count int64
		query := s.DB.Unscoped().Model(&models.Document{}).Where("slug = ?", candidate)
		if excludeId != 0 {
			query = query.Where("id <> ?", excludeId)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", original, i)
	}
}

func (s *DocumentService) Create(userId uint, req *models.CreateDocumentRequest) (*models.Document, error) {
	slugBase := req.Slug
	if slugBase == "" {
		slugBase = req.Title
	}
	docSlug, err := s.uniqueSlug(slugBase, 0)
	if err != nil {
		return nil, err
	}

	item := &models.Document{
		UserId:      userId,
		CategoryId:  req.CategoryId,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		ContentText: extractContentText(req.Content),
		Slug:        docSlug,
		Status:      req.Status,
		IsPinned:    req.IsPinned,
	}

	if err := s.DB.Create(item).Error; err != nil {
		s.Logger.Error("failed to create document", logger.String("error", err.Error()))
		return nil, err
	}

	s.Emitter.Emit(CreateDocumentEvent, item)

	return s.GetById(item.Id)
}

// Upload stores a Markdown file as a new draft document. The file body is
// kept under a "markdown" key so extraction and search see the raw text.
func (s *DocumentService) Upload(userId uint, file *multipart.FileHeader, docType string) (*models.Document, error) {
	if !strings.EqualFold(filepath.Ext(file.Filename), ".md") {
		return nil, ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	title := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	if docType == "" {
		docType = "markdown"
	}

	content, err := json.Marshal(map[string]string{
		"markdown": string(data),
		"type":     docType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}

	return s.Create(userId, &models.CreateDocumentRequest{
		Title:   title,
		Content: content,
		Status:  models.StatusDraft,
	})
}

// CreateFromPlugin creates a document on behalf of the seeded plugin user,
// provisioning that user on first use.
func (s *DocumentService) CreateFromPlugin(req *models.CreateDocumentRequest) (*models.Document, error) {
	pluginUser, _, err := s.Users.EnsurePluginUser()
	if err != nil {
		return nil, fmt.Errorf("failed to ensure plugin user: %w", err)
	}
	return s.Create(pluginUser.Id, req)
}

func (s *DocumentService) Update(id uint, req *models.UpdateDocumentRequest) (*models.Document, error) {
	item := &models.Document{}
	if err := s.DB.First(item, id).Error; err != nil {
		s.Logger.Error("failed to find document for update",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Excerpt != nil {
		item.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		item.Content = req.Content
		item.ContentText = extractContentText(req.Content)
	}
	if req.Slug != nil && *req.Slug != item.Slug {
		docSlug, err := s.uniqueSlug(*req.Slug, item.Id)
		if err != nil {
			return nil, err
		}
		item.Slug = docSlug
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.IsPinned != nil {
		item.IsPinned = *req.IsPinned
	}
	if req.CategoryId != nil {
		item.CategoryId = req.CategoryId
	}

	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to update document",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return nil, err
	}

	result, err := s.GetById(item.Id)
	if err != nil {
		return nil, err
	}

	s.Emitter.Emit(UpdateDocumentEvent, result)

	return result, nil
}

// Delete soft-deletes a document. The row survives with a deletion timestamp
// until the purge job reaps it.
func (s *DocumentService) Delete(id uint) error {
	item := &models.Document{}
	if err := s.DB.First(item, id).Error; err != nil {
		s.Logger.Error("failed to find document for deletion",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return err
	}

	if err := s.DB.Delete(item).Error; err != nil {
		s.Logger.Error("failed to delete document",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return err
	}

	s.Emitter.Emit(DeleteDocumentEvent, item)

	return nil
}

// Publish sets a document's status to published.
func (s *DocumentService) Publish(id uint) (*models.Document, error) {
	item := &models.Document{}
	if err := s.DB.First(item, id).Error; err != nil {
		return nil, err
	}

	item.Status = models.StatusPublished
	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to publish document",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return nil, err
	}

	s.Emitter.Emit(PublishDocumentEvent, item)

	return s.GetById(id)
}

// TogglePin flips a document's pin flag.
func (s *DocumentService) TogglePin(id uint) (*models.Document, error) {
	item := &models.Document{}
	if err := s.DB.First(item, id).Error; err != nil {
		return nil, err
	}

	item.IsPinned = !item.IsPinned
	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to toggle pin",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return nil, err
	}

	s.Emitter.Emit(PinDocumentEvent, item)

	return s.GetById(id)
}

func (s *DocumentService) GetById(id uint) (*models.Document, error) {
	item := &models.Document{}

	query := item.Preload(s.DB)
	if err := query.First(item, id).Error; err != nil {
		return nil, err
	}

	return item, nil
}

func (s *DocumentService) GetAll(page, perPage int, status *int, categoryId *uint) (*types.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	query := s.DB.Model(&models.Document{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if categoryId != nil {
		query = query.Where("category_id = ?", *categoryId)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.Logger.Error("failed to count documents", logger.String("error", err.Error()))
		return nil, err
	}

	var items []*models.Document
	offset := (page - 1) * perPage
	listQuery := (&models.Document{}).Preload(s.DB)
	if status != nil {
		listQuery = listQuery.Where("status = ?", *status)
	}
	if categoryId != nil {
		listQuery = listQuery.Where("category_id = ?", *categoryId)
	}
	if err := listQuery.Order("created_at DESC").Offset(offset).Limit(perPage).Find(&items).Error; err != nil {
		s.Logger.Error("failed to get documents", logger.String("error", err.Error()))
		return nil, err
	}

	responses := make([]*models.DocumentResponse, len(items))
	for i, item := range items {
		responses[i] = item.ToResponse()
	}

	return &types.PaginatedResponse{
		Items:       responses,
		Total:       total,
		Pages:       types.TotalPages(total, perPage),
		CurrentPage: page,
		PerPage:     perPage,
	}, nil
}
