package domain

// MetroStation is one nearby metro entry on a listing.
type MetroStation struct {
	StationName string `json:"station_name"`
	WalkMinutes int    `json:"walk_minutes"`
}

// ListingDraft is the mutable working copy of a listing while the editor is
// open. It exists only in editor memory (plus the autosave store) and becomes
// durable through the platform create/update call, which returns the
// persisted listing with its id.
type ListingDraft struct {
	ID       int64  `json:"id,omitempty"`
	Title    string `json:"title"`
	Type     string `json:"type"` // hotel | apartment
	City     string `json:"city"`
	District string `json:"district"`
	Address  string `json:"address"`

	Price    float64 `json:"price"`
	Auction  int     `json:"auction"` // position slot, 999 = unranked
	MinHours int     `json:"min_hours"`

	ImageURL string   `json:"image_url"`
	LogoURL  string   `json:"logo_url"`
	Images   []string `json:"images"`

	Metro         string         `json:"metro"`
	MetroWalk     int            `json:"metro_walk"`
	MetroStations []MetroStation `json:"metro_stations"`

	HasParking          bool    `json:"has_parking"`
	ParkingType         string  `json:"parking_type"`
	ParkingPricePerHour float64 `json:"parking_price_per_hour"`
	HasMinibar          bool    `json:"has_minibar"`
	HasBreakfast        bool    `json:"has_breakfast"`
	HasWifi             bool    `json:"has_wifi"`
	PriceWarning        bool    `json:"price_warning"`

	Rooms []RoomCategory `json:"rooms"`

	Rating   float64 `json:"rating"`
	CheckIn  string  `json:"check_in"`
	CheckOut string  `json:"check_out"`

	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`

	Description        string `json:"description"`
	Rules              string `json:"rules"`
	CancellationPolicy string `json:"cancellation_policy"`

	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// NewListingDraft returns a draft with the field defaults the editor seeds
// when no existing listing is loaded.
func NewListingDraft() ListingDraft {
	return ListingDraft{
		Type:     "hotel",
		Auction:  999,
		MinHours: 1,
		Rating:   4.5,
		CheckIn:  "14:00",
		CheckOut: "12:00",
		Rooms:    []RoomCategory{},
		Images:   []string{},
	}
}

// Clone returns a deep copy. Submit reconciliation snapshots the draft before
// mutating it, so shared slices must not leak.
func (d ListingDraft) Clone() ListingDraft {
	out := d
	out.Rooms = make([]RoomCategory, len(d.Rooms))
	for i, r := range d.Rooms {
		out.Rooms[i] = r.Clone()
	}
	out.Images = append([]string{}, d.Images...)
	out.MetroStations = append([]MetroStation{}, d.MetroStations...)
	if d.Lat != nil {
		lat := *d.Lat
		out.Lat = &lat
	}
	if d.Lng != nil {
		lng := *d.Lng
		out.Lng = &lng
	}
	return out
}
