package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware menangkap panic; error-nya diteruskan ke ErrorHandler (500).
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] reqid=%v %s %s: %v\n%s", c.Locals(LocRequestID), c.Method(), c.OriginalURL(), e, debug.Stack())
		},
	})
}
