package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flea-market/internal/repository"
)

func newItemHandler(t *testing.T) (*ItemHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newDB(t)
	return NewItemHandler(repository.NewItemRepo(db)), mock
}

func TestCreateItemSuccess(t *testing.T) {
	h, mock := newItemHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO items (title, description, category, image_url, location, is_available, owner_id) VALUES (?,?,?,?,?,1,?)")).
		WithArgs("Old bike", "Rusty but rides", "vehicles", nil, nil, 3).
		WillReturnResult(sqlmock.NewResult(12, 1))

	c, rec := post(echo.New(), "/api/items",
		`{"title":"Old bike","description":"Rusty but rides","category":"vehicles"}`)
	asUser(c, 3)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"item_id":12`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItemMissingField(t *testing.T) {
	h, _ := newItemHandler(t)

	for _, body := range []string{
		`{"description":"d","category":"c"}`,
		`{"title":"t","category":"c"}`,
		`{"title":"t","description":"d"}`,
		`{"title":"  ","description":"d","category":"c"}`,
	} {
		c, rec := post(echo.New(), "/api/items", body)
		asUser(c, 3)
		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestListItemsPublic(t *testing.T) {
	h, mock := newItemHandler(t)

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT i.id, i.title, i.description, i.category").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "description", "category", "image_url", "location",
				"is_available", "username", "created_at"}).
			AddRow(1, "Old bike", "Rusty", "vehicles", nil, "Berlin", true, "alice", created))

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.List(echo.New().NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "alice", out[0]["owner_username"])
	require.Equal(t, "2025-03-01T12:00:00", out[0]["created_at"])
}

func TestListItemsEmptyIsArray(t *testing.T) {
	h, mock := newItemHandler(t)

	mock.ExpectQuery("SELECT i.id, i.title, i.description, i.category").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "description", "category", "image_url", "location",
				"is_available", "username", "created_at"}))

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.List(echo.New().NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateRatingSuccess(t *testing.T) {
	db, mock := newDB(t)
	h := NewRatingHandler(repository.NewRatingRepo(db))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ratings (rater_id, rated_user_id, score, comment) VALUES (?,?,?,?)")).
		WithArgs(3, 2, 5, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	c, rec := post(echo.New(), "/api/ratings", `{"rated_user_id":2,"score":5}`)
	asUser(c, 3)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"rating_id":7`)
}

func TestCreateRatingValidation(t *testing.T) {
	db, _ := newDB(t)
	h := NewRatingHandler(repository.NewRatingRepo(db))

	for _, body := range []string{
		`{"score":5}`,
		`{"rated_user_id":2,"score":0}`,
		`{"rated_user_id":2,"score":6}`,
	} {
		c, rec := post(echo.New(), "/api/ratings", body)
		asUser(c, 3)
		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestCreateRatingUnknownUser(t *testing.T) {
	db, mock := newDB(t)
	h := NewRatingHandler(repository.NewRatingRepo(db))

	mock.ExpectExec("INSERT INTO ratings").
		WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails"))

	c, rec := post(echo.New(), "/api/ratings", `{"rated_user_id":999,"score":4}`)
	asUser(c, 3)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "User not found")
}
