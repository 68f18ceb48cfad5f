package model

import "time"

// Request statuses. A request starts pending and moves exactly once to
// accepted or rejected; both are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Request records one user asking another for an item, mirroring the
// `requests` table. The item owner is snapshotted at creation time so the
// workflow keeps working even if the item row later disappears.
//
// Fields:
//  ID          – primary key identifier.
//  ItemID      – item being requested.
//  RequesterID – user asking for the item.
//  ItemOwnerID – item owner at the time the request was created.
//  Status      – pending, accepted or rejected.
//  RequestedAt – creation timestamp.
type Request struct {
	ID          uint64    // requests.id
	ItemID      uint64    // requests.item_id
	RequesterID uint64    // requests.requester_id
	ItemOwnerID uint64    // requests.item_owner_id
	Status      string    // requests.status
	RequestedAt time.Time // requests.requested_at
}
