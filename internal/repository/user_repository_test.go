package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestUserCreate(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)")).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), "user").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := r.Create(context.Background(), "alice", "Alice@Example.com ", "pw", "user", 4)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserCreateDuplicateMapping(t *testing.T) {
	tests := []struct {
		name    string
		driver  error
		want    error
	}{
		{
			"duplicate username",
			errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.uq_users_username'"),
			ErrUsernameExists,
		},
		{
			"duplicate email",
			errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.uq_users_email'"),
			ErrEmailExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newMock(t)
			mock.ExpectExec("INSERT INTO users").
				WillReturnError(tt.driver)

			_, err := r.Create(context.Background(), "alice", "a@b.c", "pw", "user", 4)
			if err != tt.want {
				t.Errorf("Create err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectQuery("SELECT id,username,email,password_hash,role,created_at FROM users WHERE id=").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}))

	_, err := r.GetByID(context.Background(), 99)
	if err != ErrUserNotFound {
		t.Errorf("GetByID err = %v, want ErrUserNotFound", err)
	}
}

func TestUserListAll(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("SELECT id,username,email,password_hash,role,created_at FROM users ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}).
			AddRow(1, "admin", "admin@x.io", "h", "admin", now).
			AddRow(2, "bob", "bob@x.io", "h", "user", now))

	users, err := r.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].Role != "admin" || users[1].Username != "bob" {
		t.Errorf("unexpected rows: %+v", users)
	}
}
