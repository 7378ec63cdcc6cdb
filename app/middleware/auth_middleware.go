// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/amirphl/bkm-notes/app/services"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/gofiber/fiber/v3"
)

// Paths with their own access rules
const (
	CronPath    = "/cron"
	AddNotePath = "/addNote"

	// IngestTokenLocal holds the accepted bearer token of an /addNote request
	IngestTokenLocal = "ingest_token"
)

// AuthMiddleware guards the service with an ingestion token allow-list and an
// optional client IP allow-list
type AuthMiddleware struct {
	tokens    [][]byte
	whitelist map[string]struct{}
}

// NewAuthMiddleware creates the access gate. Blank entries are ignored; an
// empty whitelist admits every client.
func NewAuthMiddleware(authTokens, ipWhitelist []string) *AuthMiddleware {
	m := &AuthMiddleware{whitelist: make(map[string]struct{}, len(ipWhitelist))}
	for _, token := range authTokens {
		if token = strings.TrimSpace(token); token != "" {
			m.tokens = append(m.tokens, []byte(token))
		}
	}
	for _, ip := range ipWhitelist {
		if ip = strings.TrimSpace(ip); ip != "" {
			m.whitelist[ip] = struct{}{}
		}
	}
	return m
}

// Gate applies the access rules to every request
func (m *AuthMiddleware) Gate() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			if apiKey := c.Get("apikey"); apiKey != "" {
				c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+apiKey)
			}
		}

		switch normalizePath(c.Path()) {
		case CronPath:
			return c.Next()
		case AddNotePath:
			token := bearerToken(c.Get(fiber.HeaderAuthorization))
			if !m.validToken(token) {
				return unauthorised(c)
			}
			c.Locals(IngestTokenLocal, strings.Clone(token))
			return c.Next()
		}

		if len(m.whitelist) > 0 {
			ip := utils.ClientIP(c.Get(fiber.HeaderXForwardedFor), c.Get("X-Real-IP"), c.IP())
			if _, ok := m.whitelist[ip]; !ok {
				log.Printf("IP whitelist failure: %s %s %s", ip, c.Method(), c.Path())
				return unauthorised(c)
			}
		}

		return c.Next()
	}
}

// validToken compares against every configured token in constant time
func (m *AuthMiddleware) validToken(token string) bool {
	if token == "" {
		return false
	}
	candidate := []byte(token)
	match := 0
	for _, t := range m.tokens {
		match |= subtle.ConstantTimeCompare(candidate, t)
	}
	return match == 1
}

// IngestThrottle rejects /addNote bursts per token once the gate accepted the token
func IngestThrottle(throttle *services.IngestThrottle) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, _ := c.Locals(IngestTokenLocal).(string)
		if !throttle.Allow(token) {
			return c.Status(fiber.StatusTooManyRequests).JSON(map[string]string{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// normalizePath drops a trailing slash so /addNote/ cannot skip the token check
func normalizePath(path string) string {
	if len(path) > 1 {
		return strings.TrimRight(path, "/")
	}
	return path
}

func unauthorised(c fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).SendString(utils.UnauthorisedMessage)
}
