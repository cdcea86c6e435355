package documents

import (
	"errors"
	"net/http"
	"strconv"

	"mdbase/app/models"
	"mdbase/core/logger"
	"mdbase/core/router"
	"mdbase/core/types"

	"gorm.io/gorm"
)

type DocumentController struct {
	service *DocumentService
	logger  logger.Logger
}

func NewDocumentController(service *DocumentService, logger logger.Logger) *DocumentController {
	return &DocumentController{
		service: service,
		logger:  logger,
	}
}

func (c *DocumentController) Routes(router *router.RouterGroup) {
	router.GET("/documents", c.List)
	router.GET("/documents/:id", c.Get)
	router.POST("/documents", c.Create)
	router.POST("/documents/upload", c.Upload)
	router.POST("/documents/plugin", c.CreateFromPlugin)
	router.PUT("/documents/:id", c.Update)
	router.DELETE("/documents/:id", c.Delete)
	router.POST("/documents/:id/publish", c.Publish)
	router.POST("/documents/:id/pin", c.TogglePin)
}

// List godoc
// @Summary List documents
// @Description Paginated document list with optional status and category filters
// @Tags App/Documents
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Param status query int false "Status filter (0 draft, 1 published, 2 archived)"
// @Param category_id query int false "Category filter"
// @Success 200 {object} types.PaginatedResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /documents [get]
func (c *DocumentController) List(ctx *router.Context) error {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(ctx.DefaultQuery("per_page", "10"))

	var status *int
	if raw := ctx.Query("status"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < models.StatusDraft || value > models.StatusArchived {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid status filter"})
		}
		status = &value
	}

	var categoryId *uint
	if raw := ctx.Query("category_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid category_id filter"})
		}
		id := uint(value)
		categoryId = &id
	}

	result, err := c.service.GetAll(page, perPage, status, categoryId)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch documents"})
	}

	return ctx.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a document
// @Tags App/Documents
// @Accept json
// @Produce json
// @Param id path int true "Document Id"
// @Success 200 {object} models.DocumentResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /documents/{id} [get]
func (c *DocumentController) Get(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid document id"})
	}

	item, err := c.service.GetById(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch document"})
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// Create godoc
// @Summary Create a document
// @Tags App/Documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateDocumentRequest true "Document payload"
// @Success 201 {object} models.DocumentResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /documents [post]
func (c *DocumentController) Create(ctx *router.Context) error {
	userId := ctx.GetUint("user_id")
	if userId == 0 {
		return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}

	var req models.CreateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.Create(userId, &req)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create document: " + err.Error()})
	}

	return ctx.JSON(http.StatusCreated, item.ToResponse())
}

// Upload godoc
// @Summary Upload a Markdown file as a new draft document
// @Tags App/Documents
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Markdown file (.md)"
// @Param type formData string false "Content type label"
// @Success 201 {object} models.DocumentResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /documents/upload [post]
func (c *DocumentController) Upload(ctx *router.Context) error {
	userId := ctx.GetUint("user_id")
	if userId == 0 {
		return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing file"})
	}

	item, err := c.service.Upload(userId, file, ctx.FormValue("type"))
	if err != nil {
		if errors.Is(err, ErrInvalidFileType) {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to upload document: " + err.Error()})
	}

	return ctx.JSON(http.StatusCreated, item.ToResponse())
}

// CreateFromPlugin godoc
// @Summary Create a document from the browser extension
// @Description Anonymous write path backed by the seeded plugin user
// @Tags App/Documents
// @Accept json
// @Produce json
// @Param input body models.CreateDocumentRequest true "Document payload"
// @Success 201 {object} models.DocumentResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /documents/plugin [post]
func (c *DocumentController) CreateFromPlugin(ctx *router.Context) error {
	var req models.CreateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.CreateFromPlugin(&req)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create document: " + err.Error()})
	}

	return ctx.JSON(http.StatusCreated, item.ToResponse())
}

// Update godoc
// @Summary Update a document
// @Tags App/Documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Document Id"
// @Param input body models.UpdateDocumentRequest true "Update payload"
// @Success 200 {object} models.DocumentResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /documents/{id} [put]
func (c *DocumentController) Update(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid document id"})
	}

	if allowed, err := c.requireOwnerOrAdmin(ctx, uint(id)); !allowed {
		return err
	}

	var req models.UpdateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.Update(uint(id), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to update document: " + err.Error()})
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// Delete godoc
// @Summary Soft-delete a document
// @Tags App/Documents
// @Accept json
// @Produce json
// @Param id path int true "Document Id"
// @Success 200 {object} types.SuccessResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /documents/{id} [delete]
func (c *DocumentController) Delete(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid document id"})
	}

	if err := c.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to delete document"})
	}

	return ctx.JSON(http.StatusOK, types.SuccessResponse{Message: "Document deleted successfully"})
}

// Publish godoc
// @Summary Publish a document
// @Tags App/Documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Document Id"
// @Success 200 {object} models.DocumentResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /documents/{id}/publish [post]
func (c *DocumentController) Publish(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid document id"})
	}

	if allowed, err := c.requireOwnerOrAdmin(ctx, uint(id)); !allowed {
		return err
	}

	item, err := c.service.Publish(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to publish document"})
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// TogglePin godoc
// @Summary Toggle a document's pin flag
// @Tags App/Documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Document Id"
// @Success 200 {object} models.DocumentResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /documents/{id}/pin [post]
func (c *DocumentController) TogglePin(ctx *router.Context) error {
	if !ctx.GetBool("is_admin") {
		return ctx.JSON(http.StatusForbidden, types.ErrorResponse{Error: "Admin access required"})
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid document id"})
	}

	item, err := c.service.TogglePin(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to toggle pin"})
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// requireOwnerOrAdmin writes the 401/403/404 response itself when access is
// denied. The caller proceeds only when allowed is true.
func (c *DocumentController) requireOwnerOrAdmin(ctx *router.Context, id uint) (allowed bool, err error) {
	userId := ctx.GetUint("user_id")
	if userId == 0 {
		return false, ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}
	if ctx.GetBool("is_admin") {
		return true, nil
	}

	item, err := c.service.GetById(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Document not found"})
		}
		return false, ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch document"})
	}
	if item.UserId != userId {
		return false, ctx.JSON(http.StatusForbidden, types.ErrorResponse{Error: "Not the document owner"})
	}
	return true, nil
}
