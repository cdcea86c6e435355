package authentication

import (
	"errors"
	"net/http"

	"mdbase/core/app/users"
	"mdbase/core/logger"
	"mdbase/core/router"
	"mdbase/core/types"

	"gorm.io/gorm"
)

type AuthController struct {
	service *AuthService
	logger  logger.Logger
}

func NewAuthController(service *AuthService, logger logger.Logger) *AuthController {
	return &AuthController{
		service: service,
		logger:  logger,
	}
}

func (c *AuthController) Routes(router *router.RouterGroup) {
	router.POST("/auth/register", c.Register)
	router.POST("/auth/login", c.Login)
	router.GET("/auth/profile", c.GetProfile)
	router.PUT("/auth/profile", c.UpdateProfile)
}

// Register godoc
// @Summary Register a new account
// @Description Create an account; the first account becomes admin
// @Tags Core/Auth
// @Accept json
// @Produce json
// @Param input body RegisterRequest true "Register request"
// @Success 201 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *router.Context) error {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	user, err := c.service.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		default:
			return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to register: " + err.Error()})
		}
	}

	return ctx.JSON(http.StatusCreated, types.SuccessResponse{
		Message: "Registered successfully",
		Data:    user.ToResponse(),
	})
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and issue a bearer token
// @Tags Core/Auth
// @Accept json
// @Produce json
// @Param input body LoginRequest true "Login request"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *router.Context) error {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	token, err := c.service.Login(&req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: err.Error()})
		}
		c.logger.Error("Login failed", logger.String("error", err.Error()))
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to log in"})
	}

	return ctx.JSON(http.StatusOK, token)
}

// GetProfile godoc
// @Summary Get the authenticated profile
// @Description Get the account behind the bearer token
// @Tags Core/Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /auth/profile [get]
func (c *AuthController) GetProfile(ctx *router.Context) error {
	id := ctx.GetUint("user_id")
	if id == 0 {
		return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}

	user, err := c.service.GetProfile(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch profile"})
	}

	return ctx.JSON(http.StatusOK, user.ToResponse())
}

// UpdateProfile godoc
// @Summary Update the authenticated profile
// @Description Update username, email or password of the current account
// @Tags Core/Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body users.UpdateUserRequest true "Update request"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *router.Context) error {
	id := ctx.GetUint("user_id")
	if id == 0 {
		return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
	}

	var req users.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	user, err := c.service.UpdateProfile(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrEmailTaken):
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
		default:
			return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to update profile: " + err.Error()})
		}
	}

	return ctx.JSON(http.StatusOK, types.SuccessResponse{
		Message: "Profile updated successfully",
		Data:    user.ToResponse(),
	})
}
