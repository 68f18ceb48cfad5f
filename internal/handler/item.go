package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flea-market/internal/repository"
)

// ItemHandler serves the listing endpoints: authenticated creation and the
// public browse view.
type ItemHandler struct {
	Items *repository.ItemRepo
}

func NewItemHandler(items *repository.ItemRepo) *ItemHandler {
	return &ItemHandler{Items: items}
}

type createItemReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url"`
	Location    *string `json:"location"`
}

// Create handles POST /api/items. Title, description and category are
// required; image and location are optional. The new item is owned by the
// caller and starts available.
func (h *ItemHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}
	var req createItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing title, description, or category"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing title, description, or category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Items.Create(ctx, req.Title, req.Description, req.Category, req.ImageURL, req.Location, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":     "Item created successfully",
		"item_id": id,
	})
}

// List handles GET /api/items. Public; only available items are returned,
// each annotated with its owner's username.
func (h *ItemHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Items.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	return c.JSON(http.StatusOK, items)
}
