package middlewares

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocRequestID    = "reqid"
)

// RequestContext: Request-ID + timing + deadline per request (dipakai lewat c.UserContext()).
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(HeaderRequestID, id)
		c.Locals(LocRequestID, id)

		start := time.Now()
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		// error dirender di sini, status di log = status ke client
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
