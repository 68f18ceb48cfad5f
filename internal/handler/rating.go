package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flea-market/internal/repository"
)

// RatingHandler records user-to-user ratings. Write-only; there is no read
// endpoint.
type RatingHandler struct {
	Ratings *repository.RatingRepo
}

func NewRatingHandler(ratings *repository.RatingRepo) *RatingHandler {
	return &RatingHandler{Ratings: ratings}
}

type createRatingReq struct {
	RatedUserID uint64  `json:"rated_user_id"`
	Score       int     `json:"score"`
	Comment     *string `json:"comment"`
}

// Create handles POST /api/ratings. Score must be 1-5 and the rated user
// must exist.
func (h *RatingHandler) Create(c echo.Context) error {
	raterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}
	var req createRatingReq
	if err := c.Bind(&req); err != nil || req.RatedUserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing rated_user_id or score"})
	}
	if req.Score < 1 || req.Score > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Score must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Ratings.Create(ctx, raterID, req.RatedUserID, uint8(req.Score), req.Comment)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":       "Rating submitted successfully",
		"rating_id": id,
	})
}
