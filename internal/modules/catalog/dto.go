package catalog

import (
	"hourlystay/internal/domain"
	"hourlystay/internal/platform"
)

// ListingCard is the catalog tile: enough to render the feed, nothing more.
type ListingCard struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	City         string  `json:"city"`
	District     string  `json:"district"`
	Price        float64 `json:"price"`
	MinHours     int     `json:"min_hours"`
	ImageURL     string  `json:"image_url"`
	Rating       float64 `json:"rating"`
	Metro        string  `json:"metro"`
	MetroWalk    int     `json:"metro_walk"`
	RoomCount    int     `json:"room_count"`
	HasParking   bool    `json:"has_parking"`
	HasWifi      bool    `json:"has_wifi"`
	PriceWarning bool    `json:"price_warning"`
}

func toCard(l platform.Listing) ListingCard {
	return ListingCard{
		ID:           l.ID,
		Title:        l.Title,
		Type:         l.Type,
		City:         l.City,
		District:     l.District,
		Price:        l.Price,
		MinHours:     l.MinHours,
		ImageURL:     l.ImageURL,
		Rating:       l.Rating,
		Metro:        l.Metro,
		MetroWalk:    l.MetroWalk,
		RoomCount:    len(l.Rooms),
		HasParking:   l.HasParking,
		HasWifi:      l.HasWifi,
		PriceWarning: l.PriceWarning,
	}
}

// ListingDetail is the full public listing page.
type ListingDetail struct {
	domain.ListingDraft
}

func toDetail(l platform.Listing) ListingDetail {
	return ListingDetail{ListingDraft: l.ListingDraft.Clone()}
}

// RoomDetail is one room category page, addressed by listing id + position.
type RoomDetail struct {
	domain.RoomCategory
	ListingID int64 `json:"listing_id"`
	Index     int   `json:"index"`
}

func toRoomDetail(r domain.RoomCategory, listingID int64, index int) RoomDetail {
	return RoomDetail{RoomCategory: r.Clone(), ListingID: listingID, Index: index}
}
