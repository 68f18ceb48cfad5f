package model

import "time"

// Item represents a listing posted by a user, mirroring the `items` table.
// Availability is set on creation and only consulted by the public listing;
// no handler currently flips it.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short listing title.
//  Description – free-form description.
//  Category    – coarse category label (e.g. "Tools", "Books").
//  ImageURL    – optional image location.
//  Location    – optional pickup area.
//  IsAvailable – whether the item shows up in the public listing.
//  OwnerID     – user who posted the item.
//  CreatedAt   – creation timestamp.
type Item struct {
	ID          uint64    // items.id
	Title       string    // items.title
	Description string    // items.description
	Category    string    // items.category
	ImageURL    *string   // items.image_url (nullable)
	Location    *string   // items.location (nullable)
	IsAvailable bool      // items.is_available
	OwnerID     uint64    // items.owner_id
	CreatedAt   time.Time // items.created_at
}
