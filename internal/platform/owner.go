package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// OwnerListings returns the listings belonging to the authenticated owner.
func (c *Client) OwnerListings(ctx context.Context, token string, ownerID int64) ([]Listing, error) {
	q := url.Values{}
	q.Set("owner_id", fmt.Sprint(ownerID))
	var out []Listing
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/owner/listings?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerTransactions returns the owner's balance history.
func (c *Client) OwnerTransactions(ctx context.Context, token string, limit, offset int) ([]Transaction, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	var out []Transaction
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/owner/transactions?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerSubscription returns the owner's current plan and balance.
func (c *Client) OwnerSubscription(ctx context.Context, token string) (*Subscription, error) {
	var out Subscription
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/owner/subscription", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuctionState returns a listing's current slot in the city position auction.
// The auction itself runs server-side; we only display and relay bids.
func (c *Client) AuctionState(ctx context.Context, token string, listingID int64) (*AuctionState, error) {
	u := fmt.Sprintf("%s/auction/%d", c.baseURL, listingID)
	var out AuctionState
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlaceAuctionBid relays a bid for a listing's position.
func (c *Client) PlaceAuctionBid(ctx context.Context, token string, listingID int64, amount float64) (*AuctionState, error) {
	u := fmt.Sprintf("%s/auction/%d/bid", c.baseURL, listingID)
	var out AuctionState
	if err := c.doJSON(ctx, http.MethodPost, u, token, map[string]float64{"amount": amount}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
