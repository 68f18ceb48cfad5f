package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRequestMock(t *testing.T) (*RequestRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRequestRepo(db), mock
}

const updateStatusSQL = "UPDATE requests SET status=? WHERE id=? AND item_owner_id=? AND status='pending'"

func requestRow(id, itemID, requesterID, ownerID uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "item_id", "requester_id", "item_owner_id", "status", "requested_at"}).
		AddRow(id, itemID, requesterID, ownerID, status, time.Now())
}

func TestUpdateStatusSuccess(t *testing.T) {
	r, mock := newRequestMock(t)
	mock.ExpectExec(regexp.QuoteMeta(updateStatusSQL)).
		WithArgs("accepted", uint64(5), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.UpdateStatus(context.Background(), 5, 2, "accepted"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	r, mock := newRequestMock(t)
	mock.ExpectExec(regexp.QuoteMeta(updateStatusSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id,item_id,requester_id,item_owner_id,status,requested_at FROM requests").
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "requester_id", "item_owner_id", "status", "requested_at"}))

	if err := r.UpdateStatus(context.Background(), 5, 2, "accepted"); err != ErrRequestNotFound {
		t.Errorf("err = %v, want ErrRequestNotFound", err)
	}
}

func TestUpdateStatusWrongOwner(t *testing.T) {
	r, mock := newRequestMock(t)
	mock.ExpectExec(regexp.QuoteMeta(updateStatusSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id,item_id,requester_id,item_owner_id,status,requested_at FROM requests").
		WillReturnRows(requestRow(5, 1, 3, 99, "pending")) // owned by 99, caller is 2

	if err := r.UpdateStatus(context.Background(), 5, 2, "accepted"); err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatusAlreadySettled(t *testing.T) {
	r, mock := newRequestMock(t)
	mock.ExpectExec(regexp.QuoteMeta(updateStatusSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id,item_id,requester_id,item_owner_id,status,requested_at FROM requests").
		WillReturnRows(requestRow(5, 1, 3, 2, "accepted")) // right owner, terminal state

	if err := r.UpdateStatus(context.Background(), 5, 2, "rejected"); err != ErrNotPending {
		t.Errorf("err = %v, want ErrNotPending", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	r, mock := newRequestMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM requests WHERE id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM requests WHERE id=?")).
		WithArgs(uint64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := r.Delete(context.Background(), 6); err != ErrRequestNotFound {
		t.Errorf("err = %v, want ErrRequestNotFound", err)
	}
}

func TestListSentProjection(t *testing.T) {
	r, mock := newRequestMock(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM requests r").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "username", "status", "requested_at"}).
			AddRow(10, "Drill", "bob", "pending", at).
			AddRow(9, "Unknown Item", "Unknown Owner", "rejected", at))

	out, err := r.ListSent(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListSent: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ItemTitle != "Drill" || out[0].RequestedAt != "2025-03-01T12:00:00" {
		t.Errorf("unexpected first row: %+v", out[0])
	}
	if out[1].ItemOwnerUsername != "Unknown Owner" {
		t.Errorf("deleted owner should degrade to placeholder, got %+v", out[1])
	}
}
