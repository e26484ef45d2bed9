package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListHotels returns one page of hotels matching the filter.
func (c *Client) ListHotels(ctx context.Context, filter HotelFilter) (*Page[Hotel], error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Location != "" {
		query.Set("location", filter.Location)
	}
	if filter.MinPrice != nil {
		query.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		query.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	return do[Page[Hotel]](ctx, c, http.MethodGet, "/hotels", query, nil)
}

// GetHotel fetches a single hotel by id.
func (c *Client) GetHotel(ctx context.Context, id string) (*Hotel, error) {
	return do[Hotel](ctx, c, http.MethodGet, "/hotels/"+url.PathEscape(id), nil, nil)
}

// CreateHotel creates a listing. Operator accounts only; the service enforces the role.
func (c *Client) CreateHotel(ctx context.Context, params HotelParams) (*Hotel, error) {
	return do[Hotel](ctx, c, http.MethodPost, "/hotels", nil, params)
}

// UpdateHotel replaces the mutable fields of a listing.
func (c *Client) UpdateHotel(ctx context.Context, id string, params HotelParams) (*Hotel, error) {
	return do[Hotel](ctx, c, http.MethodPut, "/hotels/"+url.PathEscape(id), nil, params)
}

// DeleteHotel removes a listing.
func (c *Client) DeleteHotel(ctx context.Context, id string) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, "/hotels/"+url.PathEscape(id), nil, nil)
	return err
}

// ToggleFavorite flips the hotel's membership in the current user's
// favorites set and returns the updated user.
func (c *Client) ToggleFavorite(ctx context.Context, hotelID string) (*User, error) {
	return do[User](ctx, c, http.MethodPost, "/hotels/"+url.PathEscape(hotelID)+"/favorite", nil, nil)
}
