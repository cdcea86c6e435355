package authentication

import (
	"mdbase/core/module"
	"mdbase/core/router"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *AuthService
	Controller *AuthController
}

// Init creates and initializes the Authentication module.
func Init(deps module.Dependencies) module.Module {
	service := NewAuthService(deps.DB, deps.Emitter, deps.Logger, deps.Config)
	controller := NewAuthController(service, deps.Logger)

	return &Module{
		DB:         deps.DB,
		Service:    service,
		Controller: controller,
	}
}

// Routes registers the module routes.
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}
