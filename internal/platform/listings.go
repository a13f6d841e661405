package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hourlystay/internal/domain"
)

// CreateListing persists a new listing and returns it with its id assigned.
func (c *Client) CreateListing(ctx context.Context, token string, draft domain.ListingDraft) (*Listing, error) {
	var out Listing
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/listings", token, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateListing overwrites an existing listing with the full draft.
func (c *Client) UpdateListing(ctx context.Context, token string, id int64, draft domain.ListingDraft) (*Listing, error) {
	var out Listing
	u := fmt.Sprintf("%s/listings/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodPut, u, token, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetListing fetches one listing with full room data, for editing.
func (c *Client) GetListing(ctx context.Context, token string, id int64) (*Listing, error) {
	var out Listing
	u := fmt.Sprintf("%s/listings/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListListings returns the admin listing feed, optionally including archived.
func (c *Client) ListListings(ctx context.Context, token string, archived bool, limit, offset int) ([]Listing, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	if archived {
		q.Set("archived", "true")
	}
	var out []Listing
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/listings?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicListings returns the public catalog for a city, ordered by auction
// position server-side.
func (c *Client) PublicListings(ctx context.Context, city string, limit, offset int) ([]Listing, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	var out []Listing
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/public/listings?"+q.Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ArchiveListing soft-deletes a listing from the admin panel.
func (c *Client) ArchiveListing(ctx context.Context, token string, id int64) error {
	u := fmt.Sprintf("%s/listings/%d", c.baseURL, id)
	return c.doJSON(ctx, http.MethodDelete, u, token, nil, nil)
}

// SubmitForModeration marks a saved listing pending review. Callers treat a
// failure here as best-effort (logged, never rolled back).
func (c *Client) SubmitForModeration(ctx context.Context, token string, id int64) error {
	u := fmt.Sprintf("%s/listings/%d/moderation", c.baseURL, id)
	return c.doJSON(ctx, http.MethodPost, u, token, nil, nil)
}

// SubmitForRecheck asks for a repeat review after a rejection was addressed.
func (c *Client) SubmitForRecheck(ctx context.Context, token string, id int64) error {
	u := fmt.Sprintf("%s/listings/%d/recheck", c.baseURL, id)
	return c.doJSON(ctx, http.MethodPost, u, token, nil, nil)
}

// ModerationQueue lists listings by moderation status
// (pending | awaiting_recheck | rejected).
func (c *Client) ModerationQueue(ctx context.Context, token, status string) ([]Listing, error) {
	q := url.Values{}
	q.Set("moderation", status)
	var out []Listing
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/listings?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModerateListing applies an admin decision. Action is approve or reject;
// reason accompanies a rejection.
func (c *Client) ModerateListing(ctx context.Context, token string, id int64, action, reason string) error {
	u := fmt.Sprintf("%s/listings/%d/moderate", c.baseURL, id)
	body := map[string]string{"action": action, "reason": reason}
	return c.doJSON(ctx, http.MethodPost, u, token, body, nil)
}

// UpdateExpertRating saves the expert fullness score and feedback text.
func (c *Client) UpdateExpertRating(ctx context.Context, token string, id int64, rating int, feedback string) error {
	u := fmt.Sprintf("%s/listings/%d/expert-rating", c.baseURL, id)
	body := map[string]interface{}{
		"expert_fullness_rating":   rating,
		"expert_fullness_feedback": feedback,
	}
	return c.doJSON(ctx, http.MethodPut, u, token, body, nil)
}
