// middlewares/cors.go

package middlewares

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var vercelOrigin = regexp.MustCompile(`^https://[a-z0-9-]+(\.[a-z0-9-]+)*\.vercel\.app$`)

// CorsMiddleware: origin dari config + (opsional) semua *.vercel.app
func CorsMiddleware(origins []string, allowVercel bool) fiber.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}

	return cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			if allowed[origin] {
				return true
			}
			return allowVercel && vercelOrigin.MatchString(origin)
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	})
}
