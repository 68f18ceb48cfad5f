package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flea-market/internal/config"
	"github.com/iliyamo/flea-market/internal/model"
	"github.com/iliyamo/flea-market/internal/repository"
)

// AdminHandler exposes the role-gated moderation surface. Every route here
// sits behind JWTAuth + RequireRole("admin") in the router; the handlers do
// not re-check the role.
type AdminHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Requests *repository.RequestRepo
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, requests *repository.RequestRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Requests: requests}
}

// adminUser is the per-user projection exposed to admins. Password hashes
// never leave the repository layer.
type adminUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAdmin handles POST /api/admin/create_admin_user. Anyone already
// admin can mint more admins; there is no secondary verification.
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
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

	_, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, model.RoleAdmin, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists || err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"msg": "User with that username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":      "Admin user created successfully",
		"username": req.Username,
	})
}

// ListRequests handles GET /api/admin/requests: every request in the system
// with resolved item and user names.
func (h *AdminHandler) ListRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Requests.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteRequest handles DELETE /api/admin/requests/:id. Hard delete,
// regardless of status or ownership.
func (h *AdminHandler) DeleteRequest(c echo.Context) error {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Invalid request id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.Delete(ctx, requestID); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg": fmt.Sprintf("Request %d deleted successfully", requestID),
	})
}
