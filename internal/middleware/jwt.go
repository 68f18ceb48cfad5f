package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/flea-market/internal/repository" // blacklist lookups
	"github.com/iliyamo/flea-market/internal/utils"      // token parsing
)

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// rejects revoked tokens, and injects the token's identity claims into the
// request context. The provided secret must match the one used when issuing
// tokens; tokens is the blacklist store consulted on every call. Protected
// handlers can read `c.Get("user_id")`, `c.Get("username")`, `c.Get("role")`
// and `c.Get("jti")`.
//
// Every token failure (missing, malformed, expired or revoked) answers
// with a 401.
func JWTAuth(secret string, tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
			}

			// A signature-valid, unexpired token is still rejected once its
			// jti has been blacklisted by logout.
			revoked, err := tokens.IsRevoked(c.Request().Context(), claims.JTI)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Token has been revoked"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			c.Set("jti", claims.JTI)
			c.Set("token_exp", claims.Exp)
			return next(c)
		}
	}
}
