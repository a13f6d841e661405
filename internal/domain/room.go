package domain

import "strings"

// Fixed default strings used whenever a room field is left empty.
const (
	DefaultPaymentMethods     = "Наличные, банковская карта при заселении"
	DefaultCancellationPolicy = "Бесплатная отмена за 1 час до заселения"

	// CopySuffix is appended to the type of a duplicated room.
	CopySuffix = " (копия)"

	// MaxRoomPhotos caps the photo gallery of a room or listing.
	MaxRoomPhotos = 10
)

// RoomFeatures is the fixed vocabulary room feature tags are drawn from.
var RoomFeatures = []string{
	"Wi-Fi",
	"Кондиционер",
	"Телевизор",
	"Мини-бар",
	"Сейф",
	"Фен",
	"Халаты",
	"Тапочки",
	"Утюг",
	"Балкон",
	"Джакузи",
	"Кухня",
	"PlayStation",
	"Душевая кабина",
	"Ванна",
	"Двуспальная кровать",
	"Односпальная кровать",
}

// RoomCategory is one bookable unit type within a listing. While editing its
// identity is positional (index in the draft's room slice); ids exist only
// server-side after persistence.
type RoomCategory struct {
	Type               string   `json:"type"`
	Price              float64  `json:"price"`
	SquareMeters       float64  `json:"square_meters"`
	Description        string   `json:"description"`
	Images             []string `json:"images"`
	Features           []string `json:"features"`
	MinHours           int      `json:"min_hours"`
	PaymentMethods     string   `json:"payment_methods"`
	CancellationPolicy string   `json:"cancellation_policy"`
}

// EmptyRoomBuffer is the single constructor for a reset room buffer. Every
// reset site goes through it so the defaults stay consistent.
func EmptyRoomBuffer() RoomCategory {
	return RoomCategory{
		Images:             []string{},
		Features:           []string{},
		MinHours:           1,
		PaymentMethods:     DefaultPaymentMethods,
		CancellationPolicy: DefaultCancellationPolicy,
	}
}

// Valid reports whether the room can be committed: non-empty type and a
// positive price.
func (r RoomCategory) Valid() bool {
	return strings.TrimSpace(r.Type) != "" && r.Price > 0
}

// Clone returns a copy with its own slice backing.
func (r RoomCategory) Clone() RoomCategory {
	out := r
	out.Images = append([]string{}, r.Images...)
	out.Features = append([]string{}, r.Features...)
	return out
}

// Normalized returns a defensive copy with every optional field filled with
// its default. Applied to each room right before submit.
func (r RoomCategory) Normalized() RoomCategory {
	out := r.Clone()
	if out.Images == nil {
		out.Images = []string{}
	}
	if out.Features == nil {
		out.Features = []string{}
	}
	if out.MinHours < 1 {
		out.MinHours = 1
	}
	if strings.TrimSpace(out.PaymentMethods) == "" {
		out.PaymentMethods = DefaultPaymentMethods
	}
	if strings.TrimSpace(out.CancellationPolicy) == "" {
		out.CancellationPolicy = DefaultCancellationPolicy
	}
	return out
}
