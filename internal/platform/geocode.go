package platform

import (
	"context"
	"net/http"
	"net/url"
)

// Geocode resolves (city, address) to coordinates. An unresolved address is
// (nil, nil), not an error: submit proceeds without coordinates either way.
func (c *Client) Geocode(ctx context.Context, city, address string) (*LatLng, error) {
	if city == "" || address == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("city", city)
	q.Set("address", address)

	var out struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.geocodeURL+"/geocode?"+q.Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	if out.Lat == nil || out.Lng == nil {
		return nil, nil
	}
	return &LatLng{Lat: *out.Lat, Lng: *out.Lng}, nil
}
