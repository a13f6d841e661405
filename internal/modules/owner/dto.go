package owner

import "hourlystay/internal/platform"

// DashboardListing is one row of the owner's listing table: status, expert
// feedback and the fields the row renders.
type DashboardListing struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	City             string  `json:"city"`
	Price            float64 `json:"price"`
	ImageURL         string  `json:"image_url"`
	Auction          int     `json:"auction"`
	RoomCount        int     `json:"room_count"`
	ModerationStatus string  `json:"moderation_status"`
	RejectionReason  string  `json:"rejection_reason,omitempty"`
	Archived         bool    `json:"archived"`

	ExpertFullnessRating   int    `json:"expert_fullness_rating,omitempty"`
	ExpertFullnessFeedback string `json:"expert_fullness_feedback,omitempty"`
}

func toDashboardListing(l platform.Listing) DashboardListing {
	return DashboardListing{
		ID:                     l.ID,
		Title:                  l.Title,
		City:                   l.City,
		Price:                  l.Price,
		ImageURL:               l.ImageURL,
		Auction:                l.Auction,
		RoomCount:              len(l.Rooms),
		ModerationStatus:       l.ModerationStatus,
		RejectionReason:        l.RejectionReason,
		Archived:               l.Archived,
		ExpertFullnessRating:   l.ExpertFullnessRating,
		ExpertFullnessFeedback: l.ExpertFullnessFeedback,
	}
}

// BidRequest places a position-auction bid.
type BidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
