package models

import "time"

// Buyer is a buyer profile row, keyed by email. Created by the buyer
// onboarding flow; this service only reads it.
type Buyer struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthUser is the identity resolved from a Supabase session token.
type AuthUser struct {
	ID    string
	Email string
}

// Buyer context states for the listing detail page.
const (
	BuyerStatusAnonymous    = "anonymous"
	BuyerStatusNeedsProfile = "needs_profile"
	BuyerStatusReady        = "ready"
)
