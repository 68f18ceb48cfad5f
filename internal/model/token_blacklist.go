package model

import "time"

// BlacklistedToken models an entry in the `token_blacklist` table. Logout
// records the jti of an otherwise-valid access token here; the JWT
// middleware rejects any bearer whose jti appears in the table. Entries
// become dead weight after the token's natural expiry and can be purged.
//
// Fields:
//  ID      – primary key identifier.
//  JTI     – unique token identifier embedded in the JWT.
//  Expires – the token's natural expiry; safe to delete the row after this.
type BlacklistedToken struct {
	ID      uint64    // token_blacklist.id
	JTI     string    // token_blacklist.jti
	Expires time.Time // token_blacklist.expires
}
