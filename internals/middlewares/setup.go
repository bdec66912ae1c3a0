package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"masjidfinder_backend/internals/middlewares/logger"
)

type Options struct {
	CORSOrigins     []string
	CORSAllowVercel bool
	RequestTimeout  time.Duration
	// AccessLog: matikan di test biar output bersih
	AccessLog bool
}

// SetupMiddlewares memasang middleware global dengan urutan tetap.
func SetupMiddlewares(app *fiber.App, opts Options) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}

	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(opts.RequestTimeout))
	app.Use(CorsMiddleware(opts.CORSOrigins, opts.CORSAllowVercel))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	if opts.AccessLog {
		app.Use(logger.LoggerMiddleware())
	}
}
