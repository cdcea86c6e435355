package documents

import (
	"strings"

	"mdbase/app/models"
	"mdbase/core/app/users"
	"mdbase/core/logger"
	"mdbase/core/module"
	"mdbase/core/router"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Logger     logger.Logger
	Service    *DocumentService
	Controller *DocumentController
}

// Init creates and initializes the Document module with all dependencies
func Init(deps module.Dependencies) module.Module {
	userService := users.NewUserService(deps.DB, deps.Emitter, deps.Logger)
	service := NewDocumentService(deps.DB, deps.Emitter, deps.Logger, userService)
	controller := NewDocumentController(service, deps.Logger)

	return &Module{
		DB:         deps.DB,
		Logger:     deps.Logger,
		Service:    service,
		Controller: controller,
	}
}

// Routes registers the module routes
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}

func (m *Module) Init() error {
	return m.Migrate()
}

func (m *Module) Migrate() error {
	// The category table must exist before the document FK constraint.
	if err := m.DB.AutoMigrate(&models.Category{}, &models.Document{}); err != nil {
		return err
	}
	return m.ensureFulltextIndex()
}

// ensureFulltextIndex creates the natural-language index the fulltext search
// mode relies on. Only MySQL supports it; other dialects simply skip it and
// fulltext searches report the mode as unsupported.
func (m *Module) ensureFulltextIndex() error {
	if m.DB.Dialector.Name() != "mysql" {
		return nil
	}

	err := m.DB.Exec("CREATE FULLTEXT INDEX idx_documents_fulltext ON documents (title, excerpt, content_text)").Error
	if err != nil && strings.Contains(err.Error(), "Duplicate key name") {
		return nil
	}
	if err != nil {
		m.Logger.Warn("failed to create fulltext index", logger.String("error", err.Error()))
	}
	return nil
}

func (m *Module) GetModels() []any {
	return []any{
		&models.Document{},
	}
}
