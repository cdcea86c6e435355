package main

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	appmodules "mdbase/app"
	"mdbase/app/jobs"
	coremodules "mdbase/core/app"
	"mdbase/core/config"
	"mdbase/core/database"
	"mdbase/core/emitter"
	"mdbase/core/logger"
	"mdbase/core/module"
	"mdbase/core/router"
	"mdbase/core/router/middleware"
	"mdbase/core/scheduler"

	"github.com/joho/godotenv"
)

// @title Markdown Manager API
// @description Personal Markdown document management backend
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @version 1.0.0
// @BasePath /api
// @schemes http https
// @accept json
// @produce json
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your token with the prefix "Bearer "

// App wires configuration, storage, routing and the module sets together.
type App struct {
	config    *config.Config
	db        *database.Database
	router    *router.Router
	logger    logger.Logger
	emitter   *emitter.Emitter
	scheduler *scheduler.CronScheduler

	running bool
	verbose bool
}

// New creates a new application instance
func New() *App {
	verbose := false
	for _, arg := range os.Args {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
			break
		}
	}
	return &App{verbose: verbose}
}

// Start initializes and starts the application
func (app *App) Start() error {
	return app.
		loadEnvironment().
		initConfig().
		initLogger().
		initDatabase().
		initInfrastructure().
		initRouter().
		registerModules().
		initScheduler().
		setupRoutes().
		displayServerInfo().
		run()
}

// loadEnvironment loads environment variables
func (app *App) loadEnvironment() *App {
	if err := godotenv.Load(); err != nil {
		// Non-fatal - continue without .env file
	}
	return app
}

// initConfig initializes configuration
func (app *App) initConfig() *App {
	app.config = config.NewConfig()
	return app
}

// initLogger initializes the logger
func (app *App) initLogger() *App {
	logConfig := logger.Config{
		Environment: app.config.Env,
		LogPath:     "logs",
		Level:       "debug",
	}

	log, err := logger.NewLogger(logConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	app.logger = log
	return app
}

// initDatabase initializes the database connection
func (app *App) initDatabase() *App {
	db, err := database.InitDB(app.config)
	if err != nil {
		app.logger.Error("Failed to initialize database", logger.String("error", err.Error()))
		panic(fmt.Sprintf("Database initialization failed: %v", err))
	}

	app.db = db

	if app.verbose {
		app.logger.Info("Database connected", logger.String("driver", app.config.DBDriver))
	}

	return app
}

// initInfrastructure initializes core infrastructure components
func (app *App) initInfrastructure() *App {
	app.emitter = emitter.New()
	return app
}

// initRouter initializes the router with middleware
func (app *App) initRouter() *App {
	app.router = router.New()
	app.setupMiddleware()

	if app.verbose {
		app.logger.Info("Router and middleware initialized")
	}

	return app
}

// setupMiddleware configures request logging, CORS and the auth context
func (app *App) setupMiddleware() {
	app.router.Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			start := time.Now()
			err := next(c)

			app.logger.Info("Request",
				logger.String("method", c.Request.Method),
				logger.String("path", c.Request.URL.Path),
				logger.Int("status", c.Writer.Status()),
				logger.Duration("duration", time.Since(start)),
				logger.String("ip", c.ClientIP()),
			)
			return err
		}
	})

	if app.config.CORSEnabled {
		app.router.Use(middleware.CORSMiddleware(app.config.CORSAllowedOrigins))
	}

	app.router.Use(middleware.AuthContext(app.db.DB, app.config.JWTSecret))
}

// registerModules initializes the core and app module sets in order
func (app *App) registerModules() *App {
	deps := module.Dependencies{
		DB:      app.db.DB,
		Router:  app.router.Group("/api"),
		Logger:  app.logger,
		Emitter: app.emitter,
		Config:  app.config,
	}

	initializer := module.NewInitializer(app.logger)

	// Core modules own the users table and must migrate first.
	coreOrchestrator := module.NewOrchestrator(initializer, coremodules.NewCoreModules())
	coreInitialized, err := coreOrchestrator.InitializeModules(deps)
	if err != nil {
		app.logger.Error("Failed to initialize core modules", logger.String("error", err.Error()))
	}

	appOrchestrator := module.NewOrchestrator(initializer, appmodules.NewAppModules())
	appInitialized, err := appOrchestrator.InitializeModules(deps)
	if err != nil {
		app.logger.Error("Failed to initialize app modules", logger.String("error", err.Error()))
	}

	if app.verbose {
		app.logger.Info("Modules registered",
			logger.Int("core", len(coreInitialized)),
			logger.Int("app", len(appInitialized)))
	}

	return app
}

// initScheduler registers and starts the background jobs
func (app *App) initScheduler() *App {
	app.scheduler = jobs.SetupScheduler(app.db.DB, app.config, app.logger)
	app.scheduler.Start()

	if app.verbose {
		app.logger.Info("Scheduler started")
	}

	return app
}

// setupRoutes sets up basic system routes
func (app *App) setupRoutes() *App {
	app.router.GET("/health", func(c *router.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"version": app.config.Version,
		})
	})

	app.router.GET("/", func(c *router.Context) error {
		return c.JSON(200, map[string]any{
			"message": app.config.AppName,
			"version": app.config.Version,
		})
	})

	return app
}

// displayServerInfo shows server startup information
func (app *App) displayServerInfo() *App {
	localIP := app.getLocalIP()
	port := app.config.ServerPort

	fmt.Printf("\n\033[1;32m%s Ready!\033[0m\n\n", app.config.AppName)
	fmt.Printf("\033[36mServer URLs:\033[0m\n")
	fmt.Printf("  Local:   http://localhost%s\n", port)
	fmt.Printf("  Network: http://%s%s\n\n", localIP, port)

	return app
}

// getLocalIP gets the local network IP address
func (app *App) getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return "localhost"
}

// run starts the HTTP server
func (app *App) run() error {
	app.running = true
	port := app.config.ServerPort

	if app.verbose {
		app.logger.Info("Server starting", logger.String("port", port))
	}

	err := app.router.Run(port)
	if err != nil {
		if strings.Contains(err.Error(), "bind: address already in use") {
			app.logger.Error("Server failed to start - Port already in use",
				logger.String("port", port),
				logger.String("error", err.Error()))
			return fmt.Errorf("port %s is already in use. Stop the other server or change SERVER_PORT", port)
		}
		app.logger.Error("Server failed to start",
			logger.String("error", err.Error()))
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Stop halts the scheduler. The HTTP listener ends with the process.
func (app *App) Stop() error {
	if !app.running {
		return nil
	}

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	app.logger.Info("Shutting down gracefully...")
	app.running = false
	return nil
}

func main() {
	app := New()

	if err := app.Start(); err != nil {
		fmt.Printf("\n\033[31mApplication failed to start:\033[0m\n%v\n\n", err)
		os.Exit(1)
	}
}
