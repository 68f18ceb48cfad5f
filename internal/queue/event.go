// Package queue defines message payloads exchanged over the message broker.
package queue

// RequestAcceptedEvent is published when an item owner accepts a request.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database. Names fall back to "Unknown ..."
// placeholders when the referenced rows have been deleted.
type RequestAcceptedEvent struct {
	RequestID   uint64 `json:"request_id"`
	ItemID      uint64 `json:"item_id"`
	ItemTitle   string `json:"item_title"`
	RequesterID uint64 `json:"requester_id"`
	Requester   string `json:"requester_username"`
	OwnerID     uint64 `json:"item_owner_id"`
	Owner       string `json:"item_owner_username"`
	AcceptedAt  string `json:"accepted_at"`
}
