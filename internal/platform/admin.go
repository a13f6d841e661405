package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

/* ---------- EMPLOYEES ---------- */

func (c *Client) ListEmployees(ctx context.Context, token string) ([]Employee, error) {
	var out []Employee
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/admin/employees", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, token string, e Employee) (*Employee, error) {
	var out Employee
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/admin/employees", token, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, token string, id int64, e Employee) (*Employee, error) {
	var out Employee
	u := fmt.Sprintf("%s/admin/employees/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodPut, u, token, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, token string, id int64) error {
	u := fmt.Sprintf("%s/admin/employees/%d", c.baseURL, id)
	return c.doJSON(ctx, http.MethodDelete, u, token, nil, nil)
}

/* ---------- OWNERS ---------- */

func (c *Client) ListOwners(ctx context.Context, token string) ([]Owner, error) {
	var out []Owner
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/admin/owners", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateOwner(ctx context.Context, token string, o Owner) (*Owner, error) {
	var out Owner
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/admin/owners", token, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOwner(ctx context.Context, token string, id int64, o Owner) (*Owner, error) {
	var out Owner
	u := fmt.Sprintf("%s/admin/owners/%d", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodPut, u, token, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccrueBonus credits a manual bonus to an owner's balance.
func (c *Client) AccrueBonus(ctx context.Context, token string, ownerID int64, amount float64, comment string) error {
	u := fmt.Sprintf("%s/admin/owners/%d/bonus", c.baseURL, ownerID)
	body := map[string]interface{}{"amount": amount, "comment": comment}
	return c.doJSON(ctx, http.MethodPost, u, token, body, nil)
}

/* ---------- CALL TRACKING ---------- */

func (c *Client) ListCalls(ctx context.Context, token string, listingID int64, limit, offset int) ([]CallRecord, error) {
	q := url.Values{}
	if listingID > 0 {
		q.Set("listing_id", fmt.Sprint(listingID))
	}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	var out []CallRecord
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/admin/calls?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
