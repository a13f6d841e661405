package editor

import "hourlystay/internal/domain"

// SessionState is the editor view returned after every operation: the whole
// draft, the buffer and what the buffer currently represents.
type SessionState struct {
	ListingID    int64               `json:"listing_id"`
	Draft        domain.ListingDraft `json:"draft"`
	Buffer       domain.RoomCategory `json:"buffer"`
	BufferMode   string              `json:"buffer_mode"` // closed | creating | editing
	EditingIndex *int                `json:"editing_index,omitempty"`
}

func snapshotState(ed *Editor, listingID int64) *SessionState {
	st := &SessionState{
		ListingID: listingID,
		Draft:     ed.Draft.Clone(),
		Buffer:    ed.Buffer(),
	}
	mode, idx := ed.Mode()
	switch mode {
	case BufferCreating:
		st.BufferMode = "creating"
	case BufferEditing:
		st.BufferMode = "editing"
		st.EditingIndex = &idx
	default:
		st.BufferMode = "closed"
	}
	return st
}

// OpenRequest opens (or resumes) an editor session. Listing id 0 starts a
// new listing.
type OpenRequest struct {
	ListingID int64 `json:"listing_id"`
}

// DraftFieldsRequest merges scalar form fields into the draft. Nil fields are
// left as they are; rooms and coordinates have their own operations.
type DraftFieldsRequest struct {
	Title    *string `json:"title"`
	Type     *string `json:"type" binding:"omitempty,oneof=hotel apartment"`
	City     *string `json:"city"`
	District *string `json:"district"`
	Address  *string `json:"address"`

	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	MinHours *int     `json:"min_hours" binding:"omitempty,gte=1"`

	ImageURL *string `json:"image_url"`
	LogoURL  *string `json:"logo_url"`

	Metro         *string                `json:"metro"`
	MetroWalk     *int                   `json:"metro_walk" binding:"omitempty,gte=0"`
	MetroStations *[]domain.MetroStation `json:"metro_stations"`

	HasParking          *bool    `json:"has_parking"`
	ParkingType         *string  `json:"parking_type"`
	ParkingPricePerHour *float64 `json:"parking_price_per_hour" binding:"omitempty,gte=0"`
	HasMinibar          *bool    `json:"has_minibar"`
	HasBreakfast        *bool    `json:"has_breakfast"`
	HasWifi             *bool    `json:"has_wifi"`
	PriceWarning        *bool    `json:"price_warning"`

	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`

	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Website *string `json:"website"`

	Description        *string `json:"description"`
	Rules              *string `json:"rules"`
	CancellationPolicy *string `json:"cancellation_policy"`
}

func (r DraftFieldsRequest) applyTo(d *domain.ListingDraft) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&d.Title, r.Title)
	setString(&d.Type, r.Type)
	setString(&d.City, r.City)
	setString(&d.District, r.District)
	setString(&d.Address, r.Address)
	setString(&d.ImageURL, r.ImageURL)
	setString(&d.LogoURL, r.LogoURL)
	setString(&d.Metro, r.Metro)
	setString(&d.ParkingType, r.ParkingType)
	setString(&d.CheckIn, r.CheckIn)
	setString(&d.CheckOut, r.CheckOut)
	setString(&d.Phone, r.Phone)
	setString(&d.Email, r.Email)
	setString(&d.Website, r.Website)
	setString(&d.Description, r.Description)
	setString(&d.Rules, r.Rules)
	setString(&d.CancellationPolicy, r.CancellationPolicy)

	if r.Price != nil {
		d.Price = *r.Price
	}
	if r.MinHours != nil {
		d.MinHours = *r.MinHours
	}
	if r.MetroWalk != nil {
		d.MetroWalk = *r.MetroWalk
	}
	if r.MetroStations != nil {
		d.MetroStations = append([]domain.MetroStation{}, (*r.MetroStations)...)
	}
	if r.HasParking != nil {
		d.HasParking = *r.HasParking
	}
	if r.ParkingPricePerHour != nil {
		d.ParkingPricePerHour = *r.ParkingPricePerHour
	}
	if r.HasMinibar != nil {
		d.HasMinibar = *r.HasMinibar
	}
	if r.HasBreakfast != nil {
		d.HasBreakfast = *r.HasBreakfast
	}
	if r.HasWifi != nil {
		d.HasWifi = *r.HasWifi
	}
	if r.PriceWarning != nil {
		d.PriceWarning = *r.PriceWarning
	}
}

// BufferRequest replaces the room buffer contents wholesale.
type BufferRequest struct {
	Type               string   `json:"type"`
	Price              float64  `json:"price" binding:"gte=0"`
	SquareMeters       float64  `json:"square_meters" binding:"gte=0"`
	Description        string   `json:"description"`
	Features           []string `json:"features"`
	MinHours           int      `json:"min_hours" binding:"gte=0"`
	PaymentMethods     string   `json:"payment_methods"`
	CancellationPolicy string   `json:"cancellation_policy"`
}

func (r BufferRequest) toRoom(current domain.RoomCategory) domain.RoomCategory {
	room := current.Clone() // фотографии буфера живут отдельными операциями
	room.Type = r.Type
	room.Price = r.Price
	room.SquareMeters = r.SquareMeters
	room.Description = r.Description
	room.Features = append([]string{}, r.Features...)
	room.MinHours = r.MinHours
	room.PaymentMethods = r.PaymentMethods
	room.CancellationPolicy = r.CancellationPolicy
	return room
}

// TemplateRequest applies a named room preset onto the buffer.
type TemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

// ReorderRequest moves a room or photo from one index to another.
type ReorderRequest struct {
	From int `json:"from" binding:"gte=0"`
	To   int `json:"to" binding:"gte=0"`
}

// DragOverRequest is one live drag-over event on the photo gallery.
type DragOverRequest struct {
	DragIndex int `json:"drag_index" binding:"gte=0"`
	OverIndex int `json:"over_index" binding:"gte=0"`
}
