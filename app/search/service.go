package search

import (
	"fmt"

	"mdbase/app/models"
	"mdbase/core/logger"
	"mdbase/core/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SearchService struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewSearchService(db *gorm.DB, logger logger.Logger) *SearchService {
	return &SearchService{
		DB:     db,
		Logger: logger,
	}
}

// searchRow is a Document plus the relevance score projected by the
// fulltext query. The column is absent in basic mode and left nil.
type searchRow struct {
	models.Document
	RelevanceScore *float64 `gorm:"column:relevance_score"`
}

// Search runs the keyword matcher and assembles the result items. The count
// query and the page query share one predicate so total can never drift from
// the returned page.
func (s *SearchService) Search(opts SearchOptions) (*SearchResponse, error) {
	var (
		rows  []*searchRow
		total int64
		err   error
	)

	switch opts.Mode {
	case ModeFulltext:
		rows, total, err = s.fulltextQuery(opts)
	default:
		rows, total, err = s.basicQuery(opts)
	}
	if err != nil {
		return nil, err
	}

	items := make([]*SearchResult, len(rows))
	for i, row := range rows {
		result := &SearchResult{
			DocumentResponse: row.Document.ToResponse(),
			RelevanceScore:   row.RelevanceScore,
			ContentPreview:   BuildPreview(row.ContentText, opts.Keyword),
		}
		if opts.Highlight {
			result.Highlights = BuildHighlight(row.Title, row.Excerpt, row.ContentText, opts.Keyword)
		}
		items[i] = result
	}

	return &SearchResponse{
		Items:       items,
		Total:       total,
		Pages:       types.TotalPages(total, opts.PerPage),
		CurrentPage: opts.Page,
		PerPage:     opts.PerPage,
		Keyword:     opts.Keyword,
		SearchMode:  opts.Mode,
	}, nil
}

// basicQuery matches the keyword as a literal substring of title, excerpt or
// content text. Case sensitivity follows the store collation; on MySQL the
// comparison is forced case-sensitive with BINARY, matching the original
// behavior of this endpoint. Ordering is the coarse three-tier sort: title
// matches, then excerpt matches, then most recently updated.
func (s *SearchService) basicQuery(opts SearchOptions) ([]*searchRow, int64, error) {
	pattern := "%" + opts.Keyword + "%"

	likeOp := "LIKE"
	if s.DB.Dialector.Name() == "mysql" {
		likeOp = "LIKE BINARY"
	}
	predicate := fmt.Sprintf("title %s ? OR excerpt %s ? OR content_text %s ?", likeOp, likeOp, likeOp)

	var total int64
	countQuery := s.DB.Model(&models.Document{}).Where(predicate, pattern, pattern, pattern)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	var rows []*searchRow
	pageQuery := s.DB.Model(&models.Document{}).
		Where(predicate, pattern, pattern, pattern).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                fmt.Sprintf("CASE WHEN title %s ? THEN 0 ELSE 1 END, CASE WHEN excerpt %s ? THEN 0 ELSE 1 END, updated_at DESC", likeOp, likeOp),
			Vars:               []any{pattern, pattern},
			WithoutParentheses: true,
		}}).
		Offset((opts.Page - 1) * opts.PerPage).
		Limit(opts.PerPage)

	if err := pageQuery.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	return rows, total, nil
}

// fulltextQuery delegates ranking to the store's natural-language fulltext
// match. Only MySQL carries the index; everywhere else the mode fails with
// ErrUnsupportedSearchMode rather than degrading to basic.
func (s *SearchService) fulltextQuery(opts SearchOptions) ([]*searchRow, int64, error) {
	if s.DB.Dialector.Name() != "mysql" {
		return nil, 0, ErrUnsupportedSearchMode
	}

	const match = "MATCH(title, excerpt, content_text) AGAINST (? IN NATURAL LANGUAGE MODE)"

	var total int64
	countQuery := s.DB.Model(&models.Document{}).Where(match, opts.Keyword)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	var rows []*searchRow
	pageQuery := s.DB.Model(&models.Document{}).
		Select("documents.*, "+match+" AS relevance_score", opts.Keyword).
		Where(match, opts.Keyword).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "relevance_score DESC, updated_at DESC",
			WithoutParentheses: true,
		}}).
		Offset((opts.Page - 1) * opts.PerPage).
		Limit(opts.PerPage)

	if err := pageQuery.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	return rows, total, nil
}
