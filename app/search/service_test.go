package search

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"mdbase/app/models"
	"mdbase/core/app/users"
	"mdbase/core/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupSearchDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &models.Category{}, &models.Document{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

var seedSeq int

func seedDocument(t *testing.T, db *gorm.DB, title, excerpt, contentText string, updatedAt time.Time) *models.Document {
	t.Helper()

	seedSeq++
	doc := &models.Document{
		UserId:      1,
		Title:       title,
		Excerpt:     excerpt,
		ContentText: contentText,
		Slug:        fmt.Sprintf("doc-%d", seedSeq),
		Status:      models.StatusPublished,
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
	// Force updated_at past the gorm-managed value so tier ties break the way
	// the test expects.
	if err := db.Model(doc).UpdateColumn("updated_at", updatedAt).Error; err != nil {
		t.Fatalf("failed to set updated_at: %v", err)
	}
	return doc
}

func TestSearchBasicTierOrdering(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	now := time.Now()
	contentOnly := seedDocument(t, db, "Unrelated", "nothing here", "body mentions golang", now)
	excerptHit := seedDocument(t, db, "Another", "golang in excerpt", "plain body", now.Add(-time.Hour))
	titleHit := seedDocument(t, db, "golang guide", "nothing", "plain body", now.Add(-2*time.Hour))

	resp, err := svc.Search(SearchOptions{Keyword: "golang", Page: 1, PerPage: 10, Mode: ModeBasic, Highlight: true})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Total)
	}

	wantOrder := []uint{titleHit.Id, excerptHit.Id, contentOnly.Id}
	for i, want := range wantOrder {
		if resp.Items[i].Id != want {
			t.Errorf("item %d = doc %d, want %d", i, resp.Items[i].Id, want)
		}
	}
}

func TestSearchBasicRecencyBreaksTies(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	now := time.Now()
	older := seedDocument(t, db, "golang basics", "", "text", now.Add(-time.Hour))
	newer := seedDocument(t, db, "golang advanced", "", "text", now)

	resp, err := svc.Search(SearchOptions{Keyword: "golang", Page: 1, PerPage: 10, Mode: ModeBasic})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Items[0].Id != newer.Id || resp.Items[1].Id != older.Id {
		t.Errorf("tie should break by recency: got [%d %d], want [%d %d]",
			resp.Items[0].Id, resp.Items[1].Id, newer.Id, older.Id)
	}
}

func TestSearchPagination(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	for i := 0; i < 25; i++ {
		seedDocument(t, db, fmt.Sprintf("widget %d", i), "", "body", time.Now().Add(-time.Duration(i)*time.Minute))
	}

	resp, err := svc.Search(SearchOptions{Keyword: "widget", Page: 3, PerPage: 10, Mode: ModeBasic})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Total != 25 {
		t.Errorf("total = %d, want 25", resp.Total)
	}
	if resp.Pages != 3 {
		t.Errorf("pages = %d, want 3", resp.Pages)
	}
	if len(resp.Items) != 5 {
		t.Errorf("page 3 has %d items, want 5", len(resp.Items))
	}
	if resp.CurrentPage != 3 || resp.PerPage != 10 {
		t.Errorf("echoed pagination = (%d, %d), want (3, 10)", resp.CurrentPage, resp.PerPage)
	}
}

func TestSearchExcludesSoftDeleted(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	kept := seedDocument(t, db, "golang kept", "", "body", time.Now())
	removed := seedDocument(t, db, "golang removed", "", "body", time.Now())
	if err := db.Delete(removed).Error; err != nil {
		t.Fatalf("failed to soft-delete: %v", err)
	}

	resp, err := svc.Search(SearchOptions{Keyword: "golang", Page: 1, PerPage: 10, Mode: ModeBasic})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	if resp.Items[0].Id != kept.Id {
		t.Errorf("got doc %d, want %d", resp.Items[0].Id, kept.Id)
	}
}

func TestSearchRelevanceAbsentInBasicMode(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	seedDocument(t, db, "golang", "", "body", time.Now())

	resp, err := svc.Search(SearchOptions{Keyword: "golang", Page: 1, PerPage: 10, Mode: ModeBasic})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Items[0].RelevanceScore != nil {
		t.Errorf("relevance score should be nil in basic mode, got %v", *resp.Items[0].RelevanceScore)
	}
}

func TestSearchFulltextUnsupported(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	seedDocument(t, db, "golang", "", "body", time.Now())

	_, err := svc.Search(SearchOptions{Keyword: "golang", Page: 1, PerPage: 10, Mode: ModeFulltext})
	if !errors.Is(err, ErrUnsupportedSearchMode) {
		t.Fatalf("err = %v, want ErrUnsupportedSearchMode", err)
	}
}

func TestSearchPreviewPresentWithoutHighlight(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	seedDocument(t, db, "golang", "", "the golang body text", time.Now())

	resp, err := svc.Search(SearchOptions{Keyword: "golang", Page: 1, PerPage: 10, Mode: ModeBasic, Highlight: false})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	item := resp.Items[0]
	if item.Highlights != nil {
		t.Errorf("highlights should be absent when not requested, got %+v", item.Highlights)
	}
	if item.ContentPreview == "" {
		t.Error("content preview must be present regardless of the highlight flag")
	}
}

func TestSearchHighlightAttached(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	seedDocument(t, db, "Hello World", "", "This is a hello test document with more than fifty characters of padding text here", time.Now())

	resp, err := svc.Search(SearchOptions{Keyword: "hello", Page: 1, PerPage: 10, Mode: ModeBasic, Highlight: true})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	item := resp.Items[0]
	if item.Highlights == nil {
		t.Fatal("expected highlights")
	}
	if item.Highlights.Title != "<mark>Hello</mark> World" {
		t.Errorf("title highlight = %q", item.Highlights.Title)
	}
}

func TestSearchNoMatches(t *testing.T) {
	db := setupSearchDB(t)
	svc := NewSearchService(db, logger.NewNop())

	resp, err := svc.Search(SearchOptions{Keyword: "nothing", Page: 1, PerPage: 10, Mode: ModeBasic})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Total != 0 || len(resp.Items) != 0 || resp.Pages != 0 {
		t.Errorf("empty search: total=%d items=%d pages=%d", resp.Total, len(resp.Items), resp.Pages)
	}
}
