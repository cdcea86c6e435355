package app

import (
	"mdbase/core/app/authentication"
	"mdbase/core/app/users"
	"mdbase/core/module"
)

// CoreModules implements module.Provider for the framework-level modules.
type CoreModules struct{}

// NewCoreModules creates the core module provider.
func NewCoreModules() *CoreModules {
	return &CoreModules{}
}

// GetModules returns the core modules to initialize. This is the only
// function to touch when adding a new core module.
func (cm *CoreModules) GetModules(deps module.Dependencies) map[string]module.Module {
	modules := make(map[string]module.Module)

	modules["users"] = users.Init(deps)
	modules["authentication"] = authentication.Init(deps)

	return modules
}
