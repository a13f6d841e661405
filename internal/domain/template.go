package domain

// RoomTemplate is an immutable named preset used to bulk-populate the room
// buffer. Applying one overwrites type, description, square meters and
// features; price, photos, min hours and payment/cancellation text are never
// touched.
type RoomTemplate struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SquareMeters float64  `json:"square_meters"`
	Features     []string `json:"features"`
}

var roomTemplates = []RoomTemplate{
	{
		Name:         "Стандарт",
		Description:  "Уютный номер с самым необходимым для короткого отдыха.",
		SquareMeters: 18,
		Features:     []string{"Wi-Fi", "Телевизор", "Душевая кабина", "Двуспальная кровать"},
	},
	{
		Name:         "Полулюкс",
		Description:  "Просторный номер с зоной отдыха и улучшенной отделкой.",
		SquareMeters: 28,
		Features:     []string{"Wi-Fi", "Кондиционер", "Телевизор", "Мини-бар", "Фен", "Двуспальная кровать"},
	},
	{
		Name:         "Люкс",
		Description:  "Номер повышенной комфортности с джакузи и мини-баром.",
		SquareMeters: 40,
		Features:     []string{"Wi-Fi", "Кондиционер", "Телевизор", "Мини-бар", "Сейф", "Халаты", "Джакузи", "Двуспальная кровать"},
	},
}

// Templates returns the fixed preset list for display.
func Templates() []RoomTemplate {
	out := make([]RoomTemplate, len(roomTemplates))
	for i, t := range roomTemplates {
		out[i] = t
		out[i].Features = append([]string{}, t.Features...)
	}
	return out
}

// TemplateByName looks up a preset. The second return is false for an
// unknown name.
func TemplateByName(name string) (RoomTemplate, bool) {
	for _, t := range roomTemplates {
		if t.Name == name {
			cp := t
			cp.Features = append([]string{}, t.Features...)
			return cp, true
		}
	}
	return RoomTemplate{}, false
}
