package model

import "time"

// Roles recognised by the API. Admins manage shows and accounts; partners
// only see shows they are associated with.
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
)

// User represents a row of the `users` table. Handlers define their own
// response types so the password hash never leaves the HTTP layer by
// accident; this struct carries the columns exactly as stored.
//
// Fields:
//  ID              – users.id, UUID string generated at create time.
//  Email           – users.email, unique.
//  PasswordHash    – users.password_hash (bcrypt).
//  Role            – users.role ("admin" or "partner").
//  MappedPartnerID – users.mapped_partner_id, optional back-reference to an
//                    external partner record (nullable).
type User struct {
	ID              string    // users.id
	Name            string    // users.name
	Email           string    // users.email
	PasswordHash    string    // users.password_hash
	Role            string    // users.role
	CreatedAt       time.Time // users.created_at
	MappedPartnerID *string   // users.mapped_partner_id (nullable)
}

// UserInput is the inbound payload for creating a user or partner account.
// Password arrives in plaintext and is hashed before it reaches storage.
type UserInput struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	Role            string  `json:"role"`
	MappedPartnerID *string `json:"mapped_partner_id"`
}

// ShowPartner links a show with a partner user in the `show_partners`
// association table. Rows are created and removed independently of either
// parent entity.
type ShowPartner struct {
	ShowID    string // show_partners.show_id
	PartnerID string // show_partners.partner_id
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (null while active)
	CreatedAt time.Time  // refresh_tokens.created_at
}
