package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flea-market/internal/model"
	"github.com/iliyamo/flea-market/internal/queue"
	"github.com/iliyamo/flea-market/internal/repository"
	publisher "github.com/iliyamo/flea-market/internal/service"
)

// RequestHandler drives the item request workflow: creation with the
// duplicate-pending guard, the owner-only status transition, and the
// sent/received projections. Creation runs inside a transaction holding a
// row lock on the item so two concurrent identical requests cannot both
// pass the existence check.
type RequestHandler struct {
	Requests *repository.RequestRepo
	Items    *repository.ItemRepo
	Users    *repository.UserRepo
}

func NewRequestHandler(requests *repository.RequestRepo, items *repository.ItemRepo, users *repository.UserRepo) *RequestHandler {
	if requests == nil || items == nil || users == nil {
		panic("nil repository passed to NewRequestHandler")
	}
	return &RequestHandler{Requests: requests, Items: items, Users: users}
}

type createRequestReq struct {
	ItemID uint64 `json:"item_id"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// Create handles POST /api/requests.
func (h *RequestHandler) Create(c echo.Context) error {
	requesterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil || req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Missing item_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Requests.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ownerID, err := h.Requests.LockItemTx(ctx, tx, req.ItemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	if ownerID == requesterID {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Cannot request your own item"})
	}
	exists, err := h.Requests.PendingExistsTx(ctx, tx, req.ItemID, requesterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"msg": "You already have a pending request for this item"})
	}
	id, err := h.Requests.InsertTx(ctx, tx, req.ItemID, requesterID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":        "Request sent successfully",
		"request_id": id,
	})
}

// UpdateStatus handles PUT /api/requests/:id/status. Only the snapshotted
// item owner may transition, and only out of pending; accepted and rejected
// are terminal. A successful accept publishes a request.accepted event.
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Invalid request id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Invalid status. Must be 'accepted' or 'rejected'."})
	}
	if req.Status != model.StatusAccepted && req.Status != model.StatusRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Invalid status. Must be 'accepted' or 'rejected'."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.UpdateStatus(ctx, requestID, callerID, req.Status); err != nil {
		switch err {
		case repository.ErrRequestNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Request not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"msg": "Unauthorized: You do not own this request"})
		case repository.ErrNotPending:
			cur, gerr := h.Requests.GetByID(ctx, requestID)
			if gerr != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{
				"msg": fmt.Sprintf("Request status is already '%s'. Cannot change.", cur.Status),
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
		}
	}

	if req.Status == model.StatusAccepted {
		h.publishAccepted(ctx, requestID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg": fmt.Sprintf("Request %d status updated to %s", requestID, req.Status),
	})
}

// publishAccepted emits a request.accepted event for downstream consumers.
// Lookups tolerate deleted references and publish failures are ignored; the
// transition already committed.
func (h *RequestHandler) publishAccepted(ctx context.Context, requestID uint64) {
	r, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		return
	}
	ev := queue.RequestAcceptedEvent{
		RequestID:   r.ID,
		ItemID:      r.ItemID,
		ItemTitle:   "Unknown Item",
		RequesterID: r.RequesterID,
		Requester:   "Unknown Requester",
		OwnerID:     r.ItemOwnerID,
		Owner:       "Unknown Owner",
		AcceptedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if it, err := h.Items.GetByID(ctx, r.ItemID); err == nil {
		ev.ItemTitle = it.Title
	}
	if u, err := h.Users.GetByID(ctx, r.RequesterID); err == nil {
		ev.Requester = u.Username
	}
	if u, err := h.Users.GetByID(ctx, r.ItemOwnerID); err == nil {
		ev.Owner = u.Username
	}
	_ = publisher.PublishRequestAccepted(ctx, ev)
}

// ListSent handles GET /api/requests/sent.
func (h *RequestHandler) ListSent(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Requests.ListSent(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	return c.JSON(http.StatusOK, out)
}

// ListReceived handles GET /api/requests/received.
func (h *RequestHandler) ListReceived(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Requests.ListReceived(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Internal server error"})
	}
	return c.JSON(http.StatusOK, out)
}
