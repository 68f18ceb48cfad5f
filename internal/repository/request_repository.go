package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flea-market/internal/model"
)

// RequestRepo provides persistence for the item request workflow. Creation
// runs inside a caller-owned transaction so the duplicate-pending check and
// the insert are atomic: the item row is locked with FOR UPDATE, which
// serializes concurrent requests for the same item and closes the
// check-then-insert race.
type RequestRepo struct{ db *sql.DB }

func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RequestRepo) DB() *sql.DB { return r.db }

// LockItemTx loads an item's owner inside the transaction, taking a row
// lock. Returns ErrItemNotFound when the item does not exist.
func (r *RequestRepo) LockItemTx(ctx context.Context, tx *sql.Tx, itemID uint64) (ownerID uint64, err error) {
	err = tx.QueryRowContext(ctx,
		"SELECT owner_id FROM items WHERE id=? FOR UPDATE", itemID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, ErrItemNotFound
	}
	return ownerID, err
}

// PendingExistsTx reports whether the requester already has a pending
// request for the item. Must run inside the same transaction that holds
// the item lock.
func (r *RequestRepo) PendingExistsTx(ctx context.Context, tx *sql.Tx, itemID, requesterID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM requests WHERE item_id=? AND requester_id=? AND status='pending' LIMIT 1",
		itemID, requesterID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertTx inserts a new pending request snapshotting the item owner and
// returns its ID.
func (r *RequestRepo) InsertTx(ctx context.Context, tx *sql.Tx, itemID, requesterID, itemOwnerID uint64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO requests (item_id, requester_id, item_owner_id, status, requested_at) VALUES (?,?,?,'pending',?)",
		itemID, requesterID, itemOwnerID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a request by id. sql.ErrNoRows maps to ErrRequestNotFound.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.Request, error) {
	var req model.Request
	err := r.db.QueryRowContext(ctx,
		"SELECT id,item_id,requester_id,item_owner_id,status,requested_at FROM requests WHERE id=? LIMIT 1",
		id).
		Scan(&req.ID, &req.ItemID, &req.RequesterID, &req.ItemOwnerID, &req.Status, &req.RequestedAt)
	if err == sql.ErrNoRows {
		return req, ErrRequestNotFound
	}
	return req, err
}

// UpdateStatus transitions a request out of pending on behalf of callerID.
// The WHERE clause re-checks ownership and pending state so the transition
// happens at most once even under concurrent calls; when zero rows are
// affected the request is re-read to report the precise failure.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id, callerID uint64, newStatus string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE requests SET status=? WHERE id=? AND item_owner_id=? AND status='pending'",
		newStatus, id, callerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return err // ErrRequestNotFound or a real DB error
	}
	if req.ItemOwnerID != callerID {
		return ErrForbidden
	}
	return ErrNotPending
}

// Delete hard-deletes a request regardless of status. Admin surface only.
// Returns ErrRequestNotFound when nothing was deleted.
func (r *RequestRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM requests WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// SentRequest is the projection returned to a requester: their request plus
// the item title and the counterpart's username. Deleted references degrade
// to "Unknown ..." placeholders.
type SentRequest struct {
	RequestID         uint64 `json:"request_id"`
	ItemTitle         string `json:"item_title"`
	ItemOwnerUsername string `json:"item_owner_username"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at"`
}

// ReceivedRequest mirrors SentRequest from the item owner's side.
type ReceivedRequest struct {
	RequestID         uint64 `json:"request_id"`
	ItemTitle         string `json:"item_title"`
	RequesterUsername string `json:"requester_username"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at"`
}

// ListSent returns every request the user has made, newest first.
func (r *RequestRepo) ListSent(ctx context.Context, requesterID uint64) ([]SentRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, COALESCE(i.title, 'Unknown Item'), COALESCE(o.username, 'Unknown Owner'),
		       r.status, r.requested_at
		FROM requests r
		LEFT JOIN items i ON i.id = r.item_id
		LEFT JOIN users o ON o.id = r.item_owner_id
		WHERE r.requester_id = ?
		ORDER BY r.requested_at DESC, r.id DESC`, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SentRequest, 0)
	for rows.Next() {
		var (
			sr SentRequest
			at time.Time
		)
		if err := rows.Scan(&sr.RequestID, &sr.ItemTitle, &sr.ItemOwnerUsername, &sr.Status, &at); err != nil {
			return nil, err
		}
		sr.RequestedAt = at.UTC().Format(isoTime)
		out = append(out, sr)
	}
	return out, rows.Err()
}

// ListReceived returns every request targeting items the user owns,
// newest first.
func (r *RequestRepo) ListReceived(ctx context.Context, ownerID uint64) ([]ReceivedRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, COALESCE(i.title, 'Unknown Item'), COALESCE(q.username, 'Unknown Requester'),
		       r.status, r.requested_at
		FROM requests r
		LEFT JOIN items i ON i.id = r.item_id
		LEFT JOIN users q ON q.id = r.requester_id
		WHERE r.item_owner_id = ?
		ORDER BY r.requested_at DESC, r.id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReceivedRequest, 0)
	for rows.Next() {
		var (
			rr ReceivedRequest
			at time.Time
		)
		if err := rows.Scan(&rr.RequestID, &rr.ItemTitle, &rr.RequesterUsername, &rr.Status, &at); err != nil {
			return nil, err
		}
		rr.RequestedAt = at.UTC().Format(isoTime)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// AdminRequest is the global projection for the admin surface: both
// counterpart usernames are resolved.
type AdminRequest struct {
	RequestID         uint64 `json:"request_id"`
	ItemID            uint64 `json:"item_id"`
	ItemTitle         string `json:"item_title"`
	RequesterID       uint64 `json:"requester_id"`
	RequesterUsername string `json:"requester_username"`
	ItemOwnerID       uint64 `json:"item_owner_id"`
	ItemOwnerUsername string `json:"item_owner_username"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at"`
}

// ListAll returns every request in the system with resolved names.
func (r *RequestRepo) ListAll(ctx context.Context) ([]AdminRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.item_id, COALESCE(i.title, 'Unknown Item'),
		       r.requester_id, COALESCE(q.username, 'Unknown Requester'),
		       r.item_owner_id, COALESCE(o.username, 'Unknown Owner'),
		       r.status, r.requested_at
		FROM requests r
		LEFT JOIN items i ON i.id = r.item_id
		LEFT JOIN users q ON q.id = r.requester_id
		LEFT JOIN users o ON o.id = r.item_owner_id
		ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AdminRequest, 0)
	for rows.Next() {
		var (
			ar AdminRequest
			at time.Time
		)
		if err := rows.Scan(&ar.RequestID, &ar.ItemID, &ar.ItemTitle,
			&ar.RequesterID, &ar.RequesterUsername,
			&ar.ItemOwnerID, &ar.ItemOwnerUsername,
			&ar.Status, &at); err != nil {
			return nil, err
		}
		ar.RequestedAt = at.UTC().Format(isoTime)
		out = append(out, ar)
	}
	return out, rows.Err()
}
