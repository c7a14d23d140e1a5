package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	// Origins are exact origins or patterns with a single leading "*." for
	// subdomains, e.g. "https://*.dico.co.id". Empty means any origin.
	Origins []string

	Credentials bool
	Methods     []string
	Headers     []string
	Expose      []string

	// MaxAge in seconds for cached preflight responses
	MaxAge int
}

// DefaultCORSConfig allows the dashboard front-end origins.
func DefaultCORSConfig(origins ...string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return CORSConfig{
		Origins:     origins,
		Credentials: true,
		Methods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
		Headers:     []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization},
		Expose:      []string{fiber.HeaderContentLength},
		MaxAge:      3600,
	}
}

type originMatcher struct {
	exact    map[string]bool
	suffixes []string
	any      bool
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]bool, len(origins)), any: len(origins) == 0}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://*")
			m.suffixes = append(m.suffixes, scheme+"://|"+host)
		case o != "":
			m.exact[o] = true
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if m.any || m.exact[origin] {
		return true
	}
	for _, s := range m.suffixes {
		scheme, host, _ := strings.Cut(s, "|")
		if strings.HasPrefix(origin, scheme) && strings.HasSuffix(origin, host) {
			return true
		}
	}
	return false
}

// CORS echoes allowed origins back and answers preflight requests.
func CORS(config ...CORSConfig) fiber.Handler {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	match := newOriginMatcher(cfg.Origins)
	methods := strings.Join(cfg.Methods, ",")
	headers := strings.Join(cfg.Headers, ",")
	expose := strings.Join(cfg.Expose, ",")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *fiber.Ctx) error {
		c.Vary(fiber.HeaderOrigin)

		origin := c.Get(fiber.HeaderOrigin)
		if match.allows(origin) {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			if cfg.Credentials {
				c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			}
			if expose != "" {
				c.Set(fiber.HeaderAccessControlExposeHeaders, expose)
			}
		}

		if c.Method() != fiber.MethodOptions {
			return c.Next()
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, methods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, headers)
		c.Set(fiber.HeaderAccessControlMaxAge, maxAge)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
