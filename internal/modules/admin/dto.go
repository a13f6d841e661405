package admin

// ModerateRequest is an admin decision on a queued listing.
type ModerateRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

// RatingRequest sets the expert fullness score on a listing.
type RatingRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// EmployeeRequest creates or updates a staff account.
type EmployeeRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required,oneof=admin employee"`
	Active   bool   `json:"active"`
}

// OwnerRequest creates or updates an owner account.
type OwnerRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Blocked     bool   `json:"blocked"`
}

// BonusRequest credits a manual bonus to an owner's balance.
type BonusRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Comment string  `json:"comment"`
}
