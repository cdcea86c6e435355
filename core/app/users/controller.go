package users

import (
	"errors"
	"net/http"
	"strconv"

	"mdbase/core/logger"
	"mdbase/core/router"
	"mdbase/core/router/middleware"
	"mdbase/core/types"

	"gorm.io/gorm"
)

type UserController struct {
	service *UserService
	logger  logger.Logger
}

func NewUserController(service *UserService, logger logger.Logger) *UserController {
	return &UserController{
		service: service,
		logger:  logger,
	}
}

func (c *UserController) Routes(router *router.RouterGroup) {
	// Seed endpoint for the Chrome extension, intentionally unauthenticated.
	router.POST("/users/plugin-default", c.CreatePluginDefault)

	usersGroup := router.Group("/users")
	usersGroup.GET("/:id", c.Get)
	usersGroup.PUT("/:id", c.Update)

	adminGroup := router.Group("/users")
	adminGroup.Use(middleware.RequireAdmin())
	adminGroup.GET("", c.List)
	adminGroup.DELETE("/:id", c.Delete)
	adminGroup.POST("/:id/toggle-admin", c.ToggleAdmin)
}

// List godoc
// @Summary List users
// @Description Get a paginated list of users (Admin only)
// @Tags Core/Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Number of items per page"
// @Success 200 {object} types.PaginatedResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /users [get]
func (c *UserController) List(ctx *router.Context) error {
	var page, limit *int

	if pageStr := ctx.Query("page"); pageStr != "" {
		if pageNum, err := strconv.Atoi(pageStr); err == nil && pageNum > 0 {
			page = &pageNum
		} else {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid page number"})
		}
	}

	if limitStr := ctx.Query("per_page"); limitStr != "" {
		if limitNum, err := strconv.Atoi(limitStr); err == nil && limitNum > 0 && limitNum <= 100 {
			limit = &limitNum
		} else {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid per_page number"})
		}
	}

	paginatedResponse, err := c.service.GetAll(page, limit)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch users: " + err.Error()})
	}

	return ctx.JSON(http.StatusOK, paginatedResponse)
}

// Get godoc
// @Summary Get a user
// @Description Get a user by id (self or admin)
// @Tags Core/Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} UserResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) Get(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}

	if ctx.GetUint("user_id") == 0 {
		return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}
	if ctx.GetUint("user_id") != uint(id) && !ctx.GetBool("is_admin") {
		return ctx.JSON(http.StatusForbidden, types.ErrorResponse{Error: "No permission to access this user"})
	}

	item, err := c.service.GetById(uint(id))
	if err != nil {
		return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
	}

	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// Update godoc
// @Summary Update a user
// @Description Update a user by id (self or admin)
// @Tags Core/Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param users body UpdateUserRequest true "Update user request"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}

	if ctx.GetUint("user_id") == 0 {
		return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}
	if ctx.GetUint("user_id") != uint(id) && !ctx.GetBool("is_admin") {
		return ctx.JSON(http.StatusForbidden, types.ErrorResponse{Error: "No permission to modify this user"})
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.Update(uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		default:
			return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to update user: " + err.Error()})
		}
	}

	return ctx.JSON(http.StatusOK, types.SuccessResponse{
		Message: "User updated successfully",
		Data:    item.ToResponse(),
	})
}

// Delete godoc
// @Summary Delete a user
// @Description Delete a user by id (Admin only, cannot delete yourself)
// @Tags Core/Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}

	if err := c.service.Delete(uint(id), ctx.GetUint("user_id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
		}
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Failed to delete user: " + err.Error()})
	}

	return ctx.JSON(http.StatusOK, types.SuccessResponse{Message: "User deleted successfully"})
}

// ToggleAdmin godoc
// @Summary Toggle a user's admin flag
// @Description Flip the admin flag of another user (Admin only)
// @Tags Core/Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /users/{id}/toggle-admin [post]
func (c *UserController) ToggleAdmin(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}

	item, err := c.service.ToggleAdmin(uint(id), ctx.GetUint("user_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
		}
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	}

	state := "disabled"
	if item.IsAdmin {
		state = "enabled"
	}
	return ctx.JSON(http.StatusOK, types.SuccessResponse{
		Message: "Admin privileges " + state,
		Data:    item.ToResponse(),
	})
}

// CreatePluginDefault godoc
// @Summary Create the Chrome extension default user
// @Description Idempotently create the default account used by the browser extension (no auth)
// @Tags Core/Users
// @Accept json
// @Produce json
// @Success 200 {object} types.SuccessResponse
// @Success 201 {object} types.SuccessResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /users/plugin-default [post]
func (c *UserController) CreatePluginDefault(ctx *router.Context) error {
	user, created, err := c.service.EnsurePluginUser()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create default user: " + err.Error()})
	}

	if !created {
		return ctx.JSON(http.StatusOK, types.SuccessResponse{
			Message: "Default user already exists",
			Data:    user.ToResponse(),
		})
	}
	return ctx.JSON(http.StatusCreated, types.SuccessResponse{
		Message: "Default user created successfully",
		Data:    user.ToResponse(),
	})
}
