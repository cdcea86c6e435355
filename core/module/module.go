package module

import (
	"fmt"
	"sync"

	"mdbase/core/config"
	"mdbase/core/emitter"
	"mdbase/core/logger"
	"mdbase/core/router"

	"gorm.io/gorm"
)

// Module is the minimal contract for a feature module. Optional lifecycle
// hooks (Init, Migrate) are discovered via type assertion by the initializer.
type Module interface {
	Routes(router *router.RouterGroup)
}

// DefaultModule provides no-op implementations so modules only declare what
// they need.
type DefaultModule struct{}

func (DefaultModule) Routes(*router.RouterGroup) {}

// Dependencies carries everything a module can receive at construction.
type Dependencies struct {
	DB      *gorm.DB
	Router  *router.RouterGroup
	Logger  logger.Logger
	Emitter *emitter.Emitter
	Config  *config.Config
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Module)
)

// RegisterModule records a module under a unique name.
func RegisterModule(name string, mod Module) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("module already registered: %s", name)
	}
	registry[name] = mod
	return nil
}

// GetModule returns a previously registered module.
func GetModule(name string) (Module, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	mod, ok := registry[name]
	return mod, ok
}
