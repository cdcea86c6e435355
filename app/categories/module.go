package categories

import (
	"mdbase/app/models"
	"mdbase/core/module"
	"mdbase/core/router"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *CategoryService
	Controller *CategoryController
}

// Init creates and initializes the Category module with all dependencies
func Init(deps module.Dependencies) module.Module {
	service := NewCategoryService(deps.DB, deps.Emitter, deps.Logger)
	controller := NewCategoryController(service, deps.Logger)

	return &Module{
		DB:         deps.DB,
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
	return m.DB.AutoMigrate(&models.Category{})
}

func (m *Module) GetModels() []any {
	return []any{
		&models.Category{},
	}
}
