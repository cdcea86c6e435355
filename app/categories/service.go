package categories

import (
	"errors"
	"fmt"

	"mdbase/app/models"
	"mdbase/core/emitter"
	"mdbase/core/logger"
	"mdbase/core/types"

	"gorm.io/gorm"
)

const (
	CreateCategoryEvent = "categories.create"
	UpdateCategoryEvent = "categories.update"
	DeleteCategoryEvent = "categories.delete"
)

var (
	// ErrNameTaken signals a unique-name collision with another category.
	ErrNameTaken = errors.New("category name already exists")
	// ErrCategoryInUse blocks deletion while documents still reference the category.
	ErrCategoryInUse = errors.New("category still has documents")
)

type CategoryService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
}

func NewCategoryService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger) *CategoryService {
	return &CategoryService{
		DB:      db,
		Emitter: emitter,
		Logger:  logger,
	}
}

func (s *CategoryService) GetAll() ([]*models.Category, error) {
	var items []*models.Category
	if err := s.DB.Order("name ASC").Find(&items).Error; err != nil {
		s.Logger.Error("failed to list categories", logger.String("error", err.Error()))
		return nil, err
	}
	return items, nil
}

func (s *CategoryService) GetById(id uint) (*models.Category, error) {
	item := &models.Category{}
	if err := s.DB.First(item, id).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CategoryService) Create(req *models.CreateCategoryRequest) (*models.Category, error) {
	taken, err := s.nameTaken(req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	item := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.DB.Create(item).Error; err != nil {
		s.Logger.Error("failed to create category", logger.String("error", err.Error()))
		return nil, err
	}

	s.Emitter.Emit(CreateCategoryEvent, item)

	return item, nil
}

func (s *CategoryService) Update(id uint, req *models.UpdateCategoryRequest) (*models.Category, error) {
	item := &models.Category{}
	if err := s.DB.First(item, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != item.Name {
		taken, err := s.nameTaken(*req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNameTaken
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}

	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to update category",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return nil, err
	}

	s.Emitter.Emit(UpdateCategoryEvent, item)

	return item, nil
}

// Delete removes a category. Deletion is refused while any live document
// still references it.
func (s *CategoryService) Delete(id uint) error {
	item := &models.Category{}
	if err := s.DB.First(item, id).Error; err != nil {
		return err
	}

	var count int64
	if err := s.DB.Model(&models.Document{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count category documents: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.DB.Delete(item).Error; err != nil {
		s.Logger.Error("failed to delete category",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
		return err
	}

	s.Emitter.Emit(DeleteCategoryEvent, item)

	return nil
}

// GetDocuments lists the category's published documents, newest first.
func (s *CategoryService) GetDocuments(id uint, page, perPage int) (*types.PaginatedResponse, error) {
	if _, err := s.GetById(id); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	query := s.DB.Model(&models.Document{}).
		Where("category_id = ? AND status = ?", id, models.StatusPublished)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*models.Document
	offset := (page - 1) * perPage
	listQuery := (&models.Document{}).Preload(s.DB).
		Where("category_id = ? AND status = ?", id, models.StatusPublished)
	if err := listQuery.Order("created_at DESC").Offset(offset).Limit(perPage).Find(&items).Error; err != nil {
		s.Logger.Error("failed to list category documents",
			logger.String("error", err.Error()),
			logger.Int("id", int(id)))
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

func (s *CategoryService) nameTaken(name string, excludeId uint) (bool, error) {
	var count int64
	query := s.DB.Model(&models.Category{}).Where("name = ?", name)
	if excludeId != 0 {
		query = query.Where("id <> ?", excludeId)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}
