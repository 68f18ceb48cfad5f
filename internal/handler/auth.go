package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // sentinel errors from user lookups
	"net/http"     // HTTP status codes and primitives
	"strings"      // string trimming and normalization
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/flea-market/internal/config"     // app configuration
	"github.com/iliyamo/flea-market/internal/model"      // role constants
	"github.com/iliyamo/flea-market/internal/repository" // DB repositories
	"github.com/iliyamo/flea-market/internal/utils"      // hashing and token issuing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a regular user account. Duplicate username or email
// answers 409; missing fields answer 400.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing username, email, or password"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing username, email, or password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists || err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"msg": "User with that username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":      "User registered successfully",
		"username": req.Username,
	})
}

// Login verifies credentials and issues a signed access token whose payload
// carries the user's id, username, role and a unique jti.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing username or password"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing username or password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Bad username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Bad username or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": access.Token,
		"user_id":      u.ID,
		"username":     u.Username,
		"role":         u.Role,
	})
}

// Logout blacklists the caller's token by jti until its natural expiry.
// Requires a valid bearer; the JWT middleware has already placed jti and
// expiry in the context.
func (h *AuthHandler) Logout(c echo.Context) error {
	jti := getString(c, "jti")
	if jti == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}
	exp, ok := c.Get("token_exp").(time.Time)
	if !ok {
		exp = time.Now().UTC().Add(time.Duration(h.Cfg.AccessTTLMin) * time.Minute)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, jti, exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Successfully logged out"})
}

// Protected echoes the authenticated identity back to the caller.
func (h *AuthHandler) Protected(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"logged_in_as": echo.Map{
			"id":       uid,
			"username": getString(c, "username"),
			"role":     getString(c, "role"),
		},
	})
}
