package owner

import (
	"context"
	"errors"
	"net/http"

	"hourlystay/internal/platform"
)

// Platform is the owner-facing slice of the backend client.
type Platform interface {
	OwnerListings(ctx context.Context, token string, ownerID int64) ([]platform.Listing, error)
	OwnerTransactions(ctx context.Context, token string, limit, offset int) ([]platform.Transaction, error)
	OwnerSubscription(ctx context.Context, token string) (*platform.Subscription, error)
	AuctionState(ctx context.Context, token string, listingID int64) (*platform.AuctionState, error)
	PlaceAuctionBid(ctx context.Context, token string, listingID int64, amount float64) (*platform.AuctionState, error)
	SubmitForRecheck(ctx context.Context, token string, id int64) error
}

type Service struct {
	backend Platform
}

func NewService(backend Platform) *Service {
	return &Service{backend: backend}
}

// Listings returns the owner's listings with moderation state and expert
// feedback, as shown on the dashboard.
func (s *Service) Listings(ctx context.Context, token string, ownerID int64) ([]DashboardListing, error) {
	listings, err := s.backend.OwnerListings(ctx, token, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]DashboardListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, toDashboardListing(l))
	}
	return out, nil
}

// Transactions returns the balance history page.
func (s *Service) Transactions(ctx context.Context, token string, limit, offset int) ([]platform.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.backend.OwnerTransactions(ctx, token, limit, offset)
}

// Subscription returns the plan card with the current balance.
func (s *Service) Subscription(ctx context.Context, token string) (*platform.Subscription, error) {
	return s.backend.OwnerSubscription(ctx, token)
}

// Auction returns the listing's current position slot.
func (s *Service) Auction(ctx context.Context, token string, listingID int64) (*platform.AuctionState, error) {
	st, err := s.backend.AuctionState(ctx, token, listingID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return st, nil
}

// PlaceBid relays a position bid. The auction itself is server-side; we only
// reject obviously bad amounts before making the call.
func (s *Service) PlaceBid(ctx context.Context, token string, listingID int64, amount float64) (*platform.AuctionState, error) {
	if amount <= 0 {
		return nil, ErrBidAmount
	}
	st, err := s.backend.PlaceAuctionBid(ctx, token, listingID, amount)
	if err != nil {
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, ErrBidRejected
		}
		return nil, notFoundOr(err)
	}
	return st, nil
}

// RequestRecheck asks for a repeat review after a rejection was addressed.
func (s *Service) RequestRecheck(ctx context.Context, token string, listingID int64) error {
	if err := s.backend.SubmitForRecheck(ctx, token, listingID); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func notFoundOr(err error) error {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrListingNotFound
	}
	return err
}
