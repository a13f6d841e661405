package catalog

import (
	"context"
	"errors"
	"net/http"

	"hourlystay/internal/domain"
	"hourlystay/internal/platform"
)

// Platform is the read-only slice of the backend the catalog uses. Public
// pages carry no token.
type Platform interface {
	PublicListings(ctx context.Context, city string, limit, offset int) ([]platform.Listing, error)
	GetListing(ctx context.Context, token string, id int64) (*platform.Listing, error)
}

type Service struct {
	backend Platform
}

func NewService(backend Platform) *Service {
	return &Service{backend: backend}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CityFeed returns the public catalog for a city. Ordering by auction
// position is done server-side; we only cap pagination.
func (s *Service) CityFeed(ctx context.Context, city string, limit, offset int) ([]ListingCard, error) {
	if city == "" {
		return nil, ErrCityRequired
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	listings, err := s.backend.PublicListings(ctx, city, limit, offset)
	if err != nil {
		return nil, err
	}

	cards := make([]ListingCard, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, toCard(l))
	}
	return cards, nil
}

// Listing returns the public detail page data for one listing.
func (s *Service) Listing(ctx context.Context, id int64) (*ListingDetail, error) {
	l, err := s.backend.GetListing(ctx, "", id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	detail := toDetail(*l)
	return &detail, nil
}

// Room returns one room category of a listing by its position.
func (s *Service) Room(ctx context.Context, listingID int64, index int) (*RoomDetail, error) {
	l, err := s.backend.GetListing(ctx, "", listingID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if index < 0 || index >= len(l.Rooms) {
		return nil, ErrRoomNotFound
	}
	detail := toRoomDetail(l.Rooms[index], l.ID, index)
	return &detail, nil
}

// Features returns the fixed feature vocabulary the room pages render
// chips from.
func (s *Service) Features() []string {
	return append([]string{}, domain.RoomFeatures...)
}

func notFoundOr(err error) error {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrListingNotFound
	}
	return err
}
