package module

import (
	"mdbase/core/logger"
	"mdbase/core/router"
)

// Provider supplies a named set of modules. Both the core set
// (authentication, users) and the app set (documents, categories, search)
// implement it.
type Provider interface {
	GetModules(deps Dependencies) map[string]Module
}

// Initializer drives the register → init → migrate → routes lifecycle.
type Initializer struct {
	logger logger.Logger
}

// NewInitializer creates an initializer.
func NewInitializer(logger logger.Logger) *Initializer {
	return &Initializer{logger: logger}
}

// Initialize runs the full lifecycle for every module in the set. A module
// that fails a step is logged and skipped; the rest continue.
func (i *Initializer) Initialize(modules map[string]Module, deps Dependencies) []Module {
	var initialized []Module

	for name, mod := range modules {
		if err := RegisterModule(name, mod); err != nil {
			i.logger.Error("Failed to register module",
				logger.String("module", name),
				logger.String("error", err.Error()))
			continue
		}

		if initModule, ok := mod.(interface{ Init() error }); ok {
			if err := initModule.Init(); err != nil {
				i.logger.Error("Failed to initialize module",
					logger.String("module", name),
					logger.String("error", err.Error()))
				continue
			}
		}

		if migrator, ok := mod.(interface{ Migrate() error }); ok {
			if err := migrator.Migrate(); err != nil {
				i.logger.Error("Failed to migrate module",
					logger.String("module", name),
					logger.String("error", err.Error()))
				continue
			}
		}

		if routeModule, ok := mod.(interface{ Routes(*router.RouterGroup) }); ok {
			routeModule.Routes(deps.Router)
		}

		initialized = append(initialized, mod)
	}

	return initialized
}

// Orchestrator runs a provider's module set through an initializer.
type Orchestrator struct {
	initializer *Initializer
	provider    Provider
}

// NewOrchestrator pairs a provider with an initializer.
func NewOrchestrator(initializer *Initializer, provider Provider) *Orchestrator {
	return &Orchestrator{initializer: initializer, provider: provider}
}

// InitializeModules builds and initializes the provider's modules.
func (o *Orchestrator) InitializeModules(deps Dependencies) ([]Module, error) {
	modules := o.provider.GetModules(deps)
	if len(modules) == 0 {
		return []Module{}, nil
	}
	return o.initializer.Initialize(modules, deps), nil
}
