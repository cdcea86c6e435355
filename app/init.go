package app

import (
	"mdbase/app/categories"
	"mdbase/app/documents"
	"mdbase/app/search"
	"mdbase/core/module"
)

// AppModules implements module.Provider for the application modules.
type AppModules struct{}

// NewAppModules creates the application module provider.
func NewAppModules() *AppModules {
	return &AppModules{}
}

// GetModules returns the app modules to initialize. This is the only
// function to touch when adding a new app module.
func (am *AppModules) GetModules(deps module.Dependencies) map[string]module.Module {
	modules := make(map[string]module.Module)

	modules["categories"] = categories.Init(deps)
	modules["documents"] = documents.Init(deps)
	modules["search"] = search.Init(deps)

	return modules
}
