package categories

import (
	"errors"
	"net/http"
	"strconv"

	"mdbase/app/models"
	"mdbase/core/logger"
	"mdbase/core/router"
	"mdbase/core/router/middleware"
	"mdbase/core/types"

	"gorm.io/gorm"
)

type CategoryController struct {
	service *CategoryService
	logger  logger.Logger
}

func NewCategoryController(service *CategoryService, logger logger.Logger) *CategoryController {
	return &CategoryController{
		service: service,
		logger:  logger,
	}
}

func (c *CategoryController) Routes(router *router.RouterGroup) {
	router.GET("/categories", c.List)
	router.GET("/categories/:id", c.Get)
	router.GET("/categories/:id/documents", c.ListDocuments)

	admin := router.Group("/categories")
	admin.Use(middleware.RequireAdmin())
	admin.POST("", c.Create)
	admin.PUT(":id", c.Update)
	admin.DELETE(":id", c.Delete)
}

// List godoc
// @Summary List all categories
// @Tags App/Categories
// @Accept json
// @Produce json
// @Success 200 {array} models.CategoryResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /categories [get]
func (c *CategoryController) List(ctx *router.Context) error {
	items, err := c.service.GetAll()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch categories"})
	}

	responses := make([]*models.CategoryResponse, len(items))
	for i, item := range items {
		responses[i] = item.ToResponse()
	}

	return ctx.JSON(http.StatusOK, responses)
}

// Get godoc
// @Summary Get a category
// @Tags App/Categories
// @Accept json
// @Produce json
// @Param id path int true "Category Id"
// @Success 200 {object} models.CategoryResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /categories/{id} [get]
func (c *CategoryController) Get(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid category id"})
	}

	item, err := c.service.GetById(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Category not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch category"})
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// ListDocuments godoc
// @Summary List a category's published documents
// @Tags App/Categories
// @Accept json
// @Produce json
// @Param id path int true "Category Id"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} types.PaginatedResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /categories/{id}/documents [get]
func (c *CategoryController) ListDocuments(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid category id"})
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(ctx.DefaultQuery("per_page", "10"))

	result, err := c.service.GetDocuments(uint(id), page, perPage)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Category not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch category documents"})
	}

	return ctx.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create a category
// @Tags App/Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateCategoryRequest true "Category payload"
// @Success 201 {object} models.CategoryResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse
// @Router /categories [post]
func (c *CategoryController) Create(ctx *router.Context) error {
	var req models.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.Create(&req)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create category"})
	}

	return ctx.JSON(http.StatusCreated, item.ToResponse())
}

// Update godoc
// @Summary Update a category
// @Tags App/Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category Id"
// @Param input body models.UpdateCategoryRequest true "Update payload"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /categories/{id} [put]
func (c *CategoryController) Update(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid category id"})
	}

	var req models.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.Update(uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameTaken):
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Category not found"})
		default:
			return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to update category"})
		}
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// Delete godoc
// @Summary Delete a category
// @Description Refused while documents still reference the category
// @Tags App/Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category Id"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /categories/{id} [delete]
func (c *CategoryController) Delete(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid category id"})
	}

	if err := c.service.Delete(uint(id)); err != nil {
		switch {
		case errors.Is(err, ErrCategoryInUse):
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Category not found"})
		default:
			return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to delete category"})
		}
	}

	return ctx.JSON(http.StatusOK, types.SuccessResponse{Message: "Category deleted successfully"})
}
