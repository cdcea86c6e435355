package users

import (
	"mdbase/core/module"
	"mdbase/core/router"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *UserService
	Controller *UserController
}

// Init creates and initializes the User module with all dependencies.
func Init(deps module.Dependencies) module.Module {
	service := NewUserService(deps.DB, deps.Emitter, deps.Logger)
	controller := NewUserController(service, deps.Logger)

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

func (m *Module) Migrate() error {
	return m.DB.AutoMigrate(&User{})
}

func (m *Module) GetModels() []any {
	return []any{
		&User{},
	}
}
