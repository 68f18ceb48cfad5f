package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flea-market/internal/model"
)

// isoTime matches the timestamp format used in API responses.
const isoTime = "2006-01-02T15:04:05"

type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

// Create inserts a new item owned by ownerID and returns its ID. New items
// are always available.
func (r *ItemRepo) Create(ctx context.Context, title, description, category string, imageURL, location *string, ownerID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO items (title, description, category, image_url, location, is_available, owner_id) VALUES (?,?,?,?,?,1,?)",
		title, description, category, imageURL, location, ownerID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches an item by id. sql.ErrNoRows maps to ErrItemNotFound.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (model.Item, error) {
	var it model.Item
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,description,category,image_url,location,is_available,owner_id,created_at FROM items WHERE id=? LIMIT 1",
		id).
		Scan(&it.ID, &it.Title, &it.Description, &it.Category, &it.ImageURL, &it.Location, &it.IsAvailable, &it.OwnerID, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return it, ErrItemNotFound
	}
	return it, err
}

// ItemListing is the public projection of an item: the item columns plus
// the owner's username resolved via join. A deleted owner degrades to
// "Unknown" instead of breaking the listing.
type ItemListing struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	ImageURL      *string `json:"image_url"`
	Location      *string `json:"location"`
	IsAvailable   bool    `json:"is_available"`
	OwnerUsername string  `json:"owner_username"`
	CreatedAt     string  `json:"created_at"`
}

// ListAvailable returns every available item with its owner username,
// newest first.
func (r *ItemRepo) ListAvailable(ctx context.Context) ([]ItemListing, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT i.id, i.title, i.description, i.category, i.image_url, i.location,
		       i.is_available, COALESCE(u.username, 'Unknown'), i.created_at
		FROM items i
		LEFT JOIN users u ON u.id = i.owner_id
		WHERE i.is_available = 1
		ORDER BY i.created_at DESC, i.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ItemListing, 0)
	for rows.Next() {
		var (
			it        ItemListing
			createdAt sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.Category,
			&it.ImageURL, &it.Location, &it.IsAvailable, &it.OwnerUsername, &createdAt); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			it.CreatedAt = createdAt.Time.UTC().Format(isoTime)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
