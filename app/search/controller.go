package search

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"mdbase/core/logger"
	"mdbase/core/router"
	"mdbase/core/types"
)

type SearchController struct {
	service *SearchService
	logger  logger.Logger
}

func NewSearchController(service *SearchService, logger logger.Logger) *SearchController {
	return &SearchController{
		service: service,
		logger:  logger,
	}
}

func (c *SearchController) Routes(router *router.RouterGroup) {
	router.GET("/documents/search", c.Search)
}

// Search godoc
// @Summary Search documents by keyword
// @Description Basic substring search or MySQL fulltext search with highlight snippets
// @Tags App/Search
// @Accept json
// @Produce json
// @Param keyword query string true "Keyword (1-200 characters)"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 50)"
// @Param search_mode query string false "basic (default) or fulltext"
// @Param highlight query bool false "Generate highlight fragments (default true)"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /documents/search [get]
func (c *SearchController) Search(ctx *router.Context) error {
	started := time.Now()

	opts, err := parseSearchOptions(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	}

	response, err := c.service.Search(opts)
	if err != nil {
		if errors.Is(err, ErrUnsupportedSearchMode) {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		}
		c.logger.Error("search failed",
			logger.String("keyword", opts.Keyword),
			logger.String("mode", opts.Mode),
			logger.String("error", err.Error()))
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}

	elapsed := float64(time.Since(started).Microseconds()) / 1000.0
	response.SearchTimeMs = math.Round(elapsed*100) / 100

	return ctx.JSON(http.StatusOK, response)
}

// parseSearchOptions validates the query parameters before anything touches
// the store.
func parseSearchOptions(ctx *router.Context) (SearchOptions, error) {
	opts := SearchOptions{
		Keyword:   ctx.Query("keyword"),
		Mode:      ctx.DefaultQuery("search_mode", ModeBasic),
		Highlight: true,
	}

	if opts.Keyword == "" {
		return opts, errors.New("keyword is required")
	}
	if n := len([]rune(opts.Keyword)); n > KeywordMaxLen {
		return opts, errors.New("keyword must be at most 200 characters")
	}

	if opts.Mode != ModeBasic && opts.Mode != ModeFulltext {
		return opts, errors.New("search_mode must be basic or fulltext")
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return opts, errors.New("page must be a positive integer")
	}
	opts.Page = page

	perPage, err := strconv.Atoi(ctx.DefaultQuery("per_page", strconv.Itoa(PerPageDefault)))
	if err != nil || perPage < 1 || perPage > PerPageMax {
		return opts, errors.New("per_page must be between 1 and 50")
	}
	opts.PerPage = perPage

	if raw := ctx.Query("highlight"); raw != "" {
		highlight, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.New("highlight must be a boolean")
		}
		opts.Highlight = highlight
	}

	return opts, nil
}
