package repository

import (
	"context"
	"database/sql"
	"strings"
)

// RatingRepo persists user-to-user ratings. Write-only: the service records
// ratings but exposes no read endpoint.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Create inserts a rating and returns its ID. A missing rated user trips
// the foreign key and is reported as ErrUserNotFound.
func (r *RatingRepo) Create(ctx context.Context, raterID, ratedUserID uint64, score uint8, comment *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ratings (rater_id, rated_user_id, score, comment) VALUES (?,?,?,?)",
		raterID, ratedUserID, score, comment)
	if err != nil {
		// 1452 = foreign key constraint fails
		if strings.Contains(err.Error(), "1452") {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
