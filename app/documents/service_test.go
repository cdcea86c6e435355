package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"mdbase/app/models"
	"mdbase/core/app/users"
	"mdbase/core/emitter"
	"mdbase/core/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupService(t *testing.T) *DocumentService {
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

	em := emitter.New()
	log := logger.NewNop()
	return NewDocumentService(db, em, log, users.NewUserService(db, em, log))
}

func TestExtractContentText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "markdown key wins",
			content: `{"markdown": "# Title\n\nBody", "type": "markdown"}`,
			want:    "# Title\n\nBody",
		},
		{
			name:    "text fields collected from blocks",
			content: `{"blocks": [{"text": "first"}, {"text": "second"}]}`,
			want:    "first\nsecond",
		},
		{
			name:    "nested text fields",
			content: `{"blocks": [{"children": [{"text": "deep"}]}]}`,
			want:    "deep",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
		{
			name:    "invalid json",
			content: "{not json",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractContentText(json.RawMessage(tt.content))
			if got != tt.want {
				t.Errorf("extractContentText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateDerivesUniqueSlugs(t *testing.T) {
	svc := setupService(t)

	first, err := svc.Create(1, &models.CreateDocumentRequest{Title: "My Note"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.Create(1, &models.CreateDocumentRequest{Title: "My Note"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	third, err := svc.Create(1, &models.CreateDocumentRequest{Title: "My Note"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.Slug != "my-note" {
		t.Errorf("first slug = %q, want my-note", first.Slug)
	}
	if second.Slug != "my-note-1" {
		t.Errorf("second slug = %q, want my-note-1", second.Slug)
	}
	if third.Slug != "my-note-2" {
		t.Errorf("third slug = %q, want my-note-2", third.Slug)
	}
}

func TestCreateExtractsContentText(t *testing.T) {
	svc := setupService(t)

	doc, err := svc.Create(1, &models.CreateDocumentRequest{
		Title:   "Note",
		Content: json.RawMessage(`{"markdown": "plain body"}`),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if doc.ContentText != "plain body" {
		t.Errorf("content_text = %q, want %q", doc.ContentText, "plain body")
	}
}

func TestUpdateReextractsContentText(t *testing.T) {
	svc := setupService(t)

	doc, err := svc.Create(1, &models.CreateDocumentRequest{
		Title:   "Note",
		Content: json.RawMessage(`{"markdown": "before"}`),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(doc.Id, &models.UpdateDocumentRequest{
		Content: json.RawMessage(`{"markdown": "after"}`),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ContentText != "after" {
		t.Errorf("content_text = %q, want %q", updated.ContentText, "after")
	}
}

func TestSoftDeleteHidesDocument(t *testing.T) {
	svc := setupService(t)

	doc, err := svc.Create(1, &models.CreateDocumentRequest{Title: "Gone soon"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(doc.Id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := svc.GetById(doc.Id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("soft-deleted document should be invisible, err = %v", err)
	}

	// The row itself survives for the purge job.
	var count int64
	if err := svc.DB.Unscoped().Model(&models.Document{}).
		Where("id = ? AND deleted_at IS NOT NULL", doc.Id).
		Count(&count).Error; err != nil {
		t.Fatalf("unscoped count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the soft-deleted row to remain, count = %d", count)
	}
}

func TestPublishSetsStatus(t *testing.T) {
	svc := setupService(t)

	doc, err := svc.Create(1, &models.CreateDocumentRequest{Title: "Draft", Status: models.StatusDraft})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	published, err := svc.Publish(doc.Id)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != models.StatusPublished {
		t.Errorf("status = %d, want %d", published.Status, models.StatusPublished)
	}
}

func TestTogglePinFlips(t *testing.T) {
	svc := setupService(t)

	doc, err := svc.Create(1, &models.CreateDocumentRequest{Title: "Pinnable"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pinned, err := svc.TogglePin(doc.Id)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !pinned.IsPinned {
		t.Error("expected pinned after first toggle")
	}

	unpinned, err := svc.TogglePin(doc.Id)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if unpinned.IsPinned {
		t.Error("expected unpinned after second toggle")
	}
}

func TestCreateFromPluginSeedsUserOnce(t *testing.T) {
	svc := setupService(t)

	first, err := svc.CreateFromPlugin(&models.CreateDocumentRequest{Title: "Clip one"})
	if err != nil {
		t.Fatalf("plugin create failed: %v", err)
	}
	second, err := svc.CreateFromPlugin(&models.CreateDocumentRequest{Title: "Clip two"})
	if err != nil {
		t.Fatalf("plugin create failed: %v", err)
	}

	if first.UserId != second.UserId {
		t.Errorf("plugin documents should share one user: %d vs %d", first.UserId, second.UserId)
	}

	var count int64
	if err := svc.DB.Model(&users.User{}).
		Where("username = ?", users.PluginUserUsername).
		Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("plugin user seeded %d times, want 1", count)
	}
}

func TestGetAllFilters(t *testing.T) {
	svc := setupService(t)

	category := &models.Category{Name: "notes"}
	if err := svc.DB.Create(category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	for i := 0; i < 3; i++ {
		req := &models.CreateDocumentRequest{Title: fmt.Sprintf("Draft %d", i), Status: models.StatusDraft}
		if i == 0 {
			req.Status = models.StatusPublished
			req.CategoryId = &category.Id
		}
		if _, err := svc.Create(1, req); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	published := models.StatusPublished
	result, err := svc.GetAll(1, 10, &published, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("published filter total = %d, want 1", result.Total)
	}

	result, err = svc.GetAll(1, 10, nil, &category.Id)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("category filter total = %d, want 1", result.Total)
	}

	result, err = svc.GetAll(1, 10, nil, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("unfiltered total = %d, want 3", result.Total)
	}
}

func TestUploadRejectsNonMarkdown(t *testing.T) {
	svc := setupService(t)

	header := buildFileHeader(t, "notes.txt", "plain text")
	if _, err := svc.Upload(1, header, ""); !errors.Is(err, ErrInvalidFileType) {
		t.Errorf("err = %v, want ErrInvalidFileType", err)
	}
}

func TestUploadCreatesDraft(t *testing.T) {
	svc := setupService(t)

	header := buildFileHeader(t, "meeting-notes.md", "# Agenda\n\nItems")
	doc, err := svc.Upload(1, header, "")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if doc.Title != "meeting-notes" {
		t.Errorf("title = %q, want meeting-notes", doc.Title)
	}
	if doc.Status != models.StatusDraft {
		t.Errorf("status = %d, want draft", doc.Status)
	}
	if doc.ContentText != "# Agenda\n\nItems" {
		t.Errorf("content_text = %q", doc.ContentText)
	}

	var stored map[string]string
	if err := json.Unmarshal(doc.Content, &stored); err != nil {
		t.Fatalf("content is not a JSON object: %v", err)
	}
	if stored["markdown"] != "# Agenda\n\nItems" || stored["type"] != "markdown" {
		t.Errorf("stored content = %v", stored)
	}
}

// buildFileHeader assembles a real multipart.FileHeader by parsing a form the
// way the HTTP layer would.
func buildFileHeader(t *testing.T, filename, body string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}
