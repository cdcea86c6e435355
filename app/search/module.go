package search

import (
	"mdbase/core/module"
	"mdbase/core/router"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *SearchService
	Controller *SearchController
}

// Init creates and initializes the Search module with all dependencies
func Init(deps module.Dependencies) module.Module {
	service := NewSearchService(deps.DB, deps.Logger)
	controller := NewSearchController(service, deps.Logger)

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
