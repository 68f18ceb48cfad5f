package model

import "time"

// Rating is a user-to-user star rating, mirroring the `ratings` table.
// Ratings are write-only: the service records them but exposes no read
// endpoint.
type Rating struct {
	ID          uint64    // ratings.id
	RaterID     uint64    // ratings.rater_id
	RatedUserID uint64    // ratings.rated_user_id
	Score       uint8     // ratings.score (1-5)
	Comment     *string   // ratings.comment (nullable)
	CreatedAt   time.Time // ratings.created_at
}
