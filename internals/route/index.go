// file: internals/route/index.go
package routes

import (
	"context"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	masjidRoute "masjidfinder_backend/internals/features/masjids/masjids/route"
	masjidService "masjidfinder_backend/internals/features/masjids/masjids/service"
	requestRoute "masjidfinder_backend/internals/features/requests/route"
	requestService "masjidfinder_backend/internals/features/requests/service"
	authRoute "masjidfinder_backend/internals/features/users/auth/route"
	authService "masjidfinder_backend/internals/features/users/auth/service"
	userRoute "masjidfinder_backend/internals/features/users/user/route"
	userService "masjidfinder_backend/internals/features/users/user/service"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/middlewares"
)

var startTime time.Time

// Deps: semua service yang sudah dirakit main (atau test).
type Deps struct {
	Auth     *authService.AuthService
	Identity *userService.IdentityService
	Masjids  *masjidService.MasjidService
	Workflow *requestService.WorkflowService
	// Protect = AuthMiddleware yang sudah dikonfigurasi
	Protect fiber.Handler
	// HealthCheck: nil = selalu sehat
	HealthCheck func(ctx context.Context) error
	Environment string
}

// NewApp: fiber app lengkap (config, middleware, routes, 404).
func NewApp(deps Deps, opts middlewares.Options) *fiber.App {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.JsonFromError,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	middlewares.SetupMiddlewares(app, opts)
	SetupRoutes(app, deps)

	// ❌ 404 paling akhir
	app.Use(func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusNotFound, "Route not found")
	})
	return app
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	BaseRoutes(app, deps)

	api := app.Group("/api")

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, deps.Auth, deps.Identity, deps.Protect)
	userRoute.UserRoutes(api, deps.Identity, deps.Protect)

	log.Println("[INFO] Setting up MasjidRoutes...")
	masjidRoute.MasjidRoutes(api, deps.Masjids, deps.Protect)

	log.Println("[INFO] Setting up RequestRoutes...")
	requestRoute.RequestRoutes(api, deps.Workflow, deps.Protect)
}
