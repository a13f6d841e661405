package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hourlystay/internal/platform"
)

// Platform is the admin-facing slice of the backend client.
type Platform interface {
	ListListings(ctx context.Context, token string, archived bool, limit, offset int) ([]platform.Listing, error)
	GetListing(ctx context.Context, token string, id int64) (*platform.Listing, error)
	ArchiveListing(ctx context.Context, token string, id int64) error
	ModerationQueue(ctx context.Context, token, status string) ([]platform.Listing, error)
	ModerateListing(ctx context.Context, token string, id int64, action, reason string) error
	UpdateExpertRating(ctx context.Context, token string, id int64, rating int, feedback string) error

	ListEmployees(ctx context.Context, token string) ([]platform.Employee, error)
	CreateEmployee(ctx context.Context, token string, e platform.Employee) (*platform.Employee, error)
	UpdateEmployee(ctx context.Context, token string, id int64, e platform.Employee) (*platform.Employee, error)
	DeleteEmployee(ctx context.Context, token string, id int64) error

	ListOwners(ctx context.Context, token string) ([]platform.Owner, error)
	CreateOwner(ctx context.Context, token string, o platform.Owner) (*platform.Owner, error)
	UpdateOwner(ctx context.Context, token string, id int64, o platform.Owner) (*platform.Owner, error)
	AccrueBonus(ctx context.Context, token string, ownerID int64, amount float64, comment string) error

	ListCalls(ctx context.Context, token string, listingID int64, limit, offset int) ([]platform.CallRecord, error)
}

// Notifier pushes moderation outcomes to connected owner dashboards.
type Notifier interface {
	Notify(ownerID int64, event string, payload interface{})
}

const (
	EventListingApproved = "listing_approved"
	EventListingRejected = "listing_rejected"
)

type Service struct {
	backend  Platform
	notifier Notifier
}

func NewService(backend Platform, notifier Notifier) *Service {
	return &Service{backend: backend, notifier: notifier}
}

func (s *Service) notify(ownerID int64, event string, payload interface{}) {
	if s.notifier != nil && ownerID > 0 {
		s.notifier.Notify(ownerID, event, payload)
	}
}

/* ---------- LISTINGS ---------- */

func (s *Service) Listings(ctx context.Context, token string, archived bool, limit, offset int) ([]platform.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.backend.ListListings(ctx, token, archived, limit, offset)
}

func (s *Service) Listing(ctx context.Context, token string, id int64) (*platform.Listing, error) {
	l, err := s.backend.GetListing(ctx, token, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return l, nil
}

func (s *Service) Archive(ctx context.Context, token string, id int64) error {
	if err := s.backend.ArchiveListing(ctx, token, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

/* ---------- MODERATION ---------- */

var moderationStatuses = map[string]bool{
	platform.ModerationPending:         true,
	platform.ModerationAwaitingRecheck: true,
	platform.ModerationRejected:        true,
}

func (s *Service) ModerationQueue(ctx context.Context, token, status string) ([]platform.Listing, error) {
	if status == "" {
		status = platform.ModerationPending
	}
	if !moderationStatuses[status] {
		return nil, ErrBadModerationStatus
	}
	return s.backend.ModerationQueue(ctx, token, status)
}

// Moderate approves or rejects a listing. A rejection must carry a reason the
// owner will see on the dashboard.
func (s *Service) Moderate(ctx context.Context, token string, id int64, action, reason string) error {
	switch action {
	case "approve":
		reason = ""
	case "reject":
		if strings.TrimSpace(reason) == "" {
			return ErrReasonRequired
		}
	default:
		return ErrBadModerationAction
	}

	listing, err := s.backend.GetListing(ctx, token, id)
	if err != nil {
		return notFoundOr(err)
	}
	if err := s.backend.ModerateListing(ctx, token, id, action, reason); err != nil {
		return notFoundOr(err)
	}

	event := EventListingApproved
	if action == "reject" {
		event = EventListingRejected
	}
	s.notify(listing.OwnerID, event, map[string]interface{}{"listing_id": id, "reason": reason})
	return nil
}

// RateFullness stores the expert fullness score (1..5) and feedback text.
func (s *Service) RateFullness(ctx context.Context, token string, id int64, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return ErrBadRating
	}
	if err := s.backend.UpdateExpertRating(ctx, token, id, rating, feedback); err != nil {
		return notFoundOr(err)
	}
	return nil
}

/* ---------- STAFF & OWNERS ---------- */

func (s *Service) Employees(ctx context.Context, token string) ([]platform.Employee, error) {
	return s.backend.ListEmployees(ctx, token)
}

func (s *Service) CreateEmployee(ctx context.Context, token string, e platform.Employee) (*platform.Employee, error) {
	return s.backend.CreateEmployee(ctx, token, e)
}

func (s *Service) UpdateEmployee(ctx context.Context, token string, id int64, e platform.Employee) (*platform.Employee, error) {
	out, err := s.backend.UpdateEmployee(ctx, token, id, e)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return out, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, token string, id int64) error {
	if err := s.backend.DeleteEmployee(ctx, token, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func (s *Service) Owners(ctx context.Context, token string) ([]platform.Owner, error) {
	return s.backend.ListOwners(ctx, token)
}

func (s *Service) CreateOwner(ctx context.Context, token string, o platform.Owner) (*platform.Owner, error) {
	return s.backend.CreateOwner(ctx, token, o)
}

func (s *Service) UpdateOwner(ctx context.Context, token string, id int64, o platform.Owner) (*platform.Owner, error) {
	out, err := s.backend.UpdateOwner(ctx, token, id, o)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return out, nil
}

func (s *Service) AccrueBonus(ctx context.Context, token string, ownerID int64, amount float64, comment string) error {
	if amount <= 0 {
		return ErrBonusAmount
	}
	if err := s.backend.AccrueBonus(ctx, token, ownerID, amount, comment); err != nil {
		return notFoundOr(err)
	}
	return nil
}

/* ---------- CALL TRACKING ---------- */

func (s *Service) Calls(ctx context.Context, token string, listingID int64, limit, offset int) ([]platform.CallRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.backend.ListCalls(ctx, token, listingID, limit, offset)
}

func notFoundOr(err error) error {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}
