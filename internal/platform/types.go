package platform

import (
	"time"

	"hourlystay/internal/domain"
)

// Moderation statuses the platform reports on a listing.
const (
	ModerationPending         = "pending"
	ModerationApproved        = "approved"
	ModerationRejected        = "rejected"
	ModerationAwaitingRecheck = "awaiting_recheck"
)

// Listing is a persisted listing as the platform returns it: the draft
// fields plus server-owned state.
type Listing struct {
	domain.ListingDraft

	OwnerID          int64  `json:"owner_id"`
	ModerationStatus string `json:"moderation_status"`
	RejectionReason  string `json:"rejection_reason,omitempty"`
	Archived         bool   `json:"archived"`

	ExpertFullnessRating   int    `json:"expert_fullness_rating,omitempty"`
	ExpertFullnessFeedback string `json:"expert_fullness_feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LatLng is a resolved geocoding result.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Transaction is one balance movement on an owner account.
type Transaction struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Kind        string    `json:"kind"` // topup | charge | cashback | bonus
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Subscription is the owner's current plan state.
type Subscription struct {
	Plan      string     `json:"plan"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Balance   float64    `json:"balance"`
}

// AuctionState is a listing's slot in the city position auction.
type AuctionState struct {
	ListingID  int64   `json:"listing_id"`
	City       string  `json:"city"`
	Position   int     `json:"position"`
	CurrentBid float64 `json:"current_bid"`
	MinimumBid float64 `json:"minimum_bid"`
}

// Employee is an internal staff account managed from the admin panel.
type Employee struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// Owner is a property owner account managed from the admin panel.
type Owner struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	CompanyName string  `json:"company_name"`
	Balance     float64 `json:"balance"`
	Blocked     bool    `json:"blocked"`
}

// CallRecord is one tracked phone call routed through a virtual number.
type CallRecord struct {
	ID            int64     `json:"id"`
	ListingID     int64     `json:"listing_id"`
	VirtualNumber string    `json:"virtual_number"`
	CallerNumber  string    `json:"caller_number"`
	DurationSec   int       `json:"duration_sec"`
	StartedAt     time.Time `json:"started_at"`
}
