package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
)

// OriginAllowed rejects browser requests from origins outside
// ALLOWED_ORIGINS. Entries are matched case-insensitively and may use a
// leading "*." to allow every subdomain, which covers preview deploys
// of the web client. An empty allowlist disables the check.
func OriginAllowed() fiber.Handler {
	allowed := parseAllowlist(os.Getenv("ALLOWED_ORIGINS"))
	return func(c *fiber.Ctx) error {
		origin := strings.TrimSpace(c.Get("Origin"))
		if origin == "" || len(allowed) == 0 {
			return c.Next()
		}
		if !allowed.matches(origin) {
			return httpx.Forbidden(c, "forbidden_origin", "Origin not allowed")
		}
		return c.Next()
	}
}

type originAllowlist []string

func parseAllowlist(s string) originAllowlist {
	var out originAllowlist
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (l originAllowlist) matches(origin string) bool {
	origin = strings.ToLower(origin)
	for _, a := range l {
		if a == origin {
			return true
		}
		// "https://*.kiit.ac.in" matches any subdomain at that scheme.
		if scheme, host, ok := strings.Cut(a, "://"); ok && strings.HasPrefix(host, "*.") {
			if rest, found := strings.CutPrefix(origin, scheme+"://"); found &&
				strings.HasSuffix(rest, host[1:]) {
				return true
			}
		}
	}
	return false
}
