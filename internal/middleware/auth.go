package middleware

import (
	"net/http"
	"strings"

	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// claimsContextKey is the echo context key under which the verified
// identity claims are stored. Handlers must go through ClaimsFromContext
// instead of reading it directly.
const claimsContextKey = "identity_claims"

// AuthMiddleware is the access gate for all protected routes. It extracts
// the bearer token from the Authorization header, verifies signature and
// expiry, and attaches the decoded claims to the request context as
// trusted, server-asserted identity. Missing, malformed, invalid and
// expired tokens are all rejected with 401 before any handler runs; no
// distinction between the failure modes is surfaced to the caller.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set(claimsContextKey, claims)

		log.Debug("Request authenticated",
			zap.Uint("user_id", claims.UserID),
			zap.Uint("tenant_id", claims.TenantID),
			zap.String("role", string(claims.Role)))

		return next(c)
	}
}

// ClaimsFromContext returns the verified identity claims attached by
// AuthMiddleware. The boolean is false when the route was not guarded by
// the gate.
func ClaimsFromContext(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*jwtutil.UserClaims)
	return claims, ok
}
