// helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Simpan raw JWT di Locals dari middleware (dipakai ulang saat logout)
const LocRawToken = "raw_token"

// GetRawAccessToken mengembalikan access token dari:
// 1) Locals("raw_token") yang diset middleware
// 2) Authorization header "Bearer <token>"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	tok, _ := ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
	return tok
}

// ExtractBearerToken: toleransi spasi ganda, prefix case-insensitive, kutip di kiri/kanan.
func ExtractBearerToken(header string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(header))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", false
	}
	return tok, true
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
