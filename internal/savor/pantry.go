package savor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Pantry operations.

// Pantry lists the user's pantry items.
func (c *Client) Pantry(ctx context.Context) ([]PantryItem, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	raw, err := c.Do(ctx, http.MethodGet, "/inventory/pantry", query, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Items []PantryItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode pantry: %w", err)
	}
	return payload.Items, nil
}

// PantryItemInput describes one item for AddToPantry or
// DeductFromPantry.
type PantryItemInput struct {
	Name            string `json:"name"`
	Quantity        string `json:"quantity,omitempty"`
	Category        string `json:"category,omitempty"`
	StorageLocation string `json:"storage_location,omitempty"`
	ExpirationDate  string `json:"expiration_date,omitempty"`
}

// AddToPantry stores new pantry items.
func (c *Client) AddToPantry(ctx context.Context, items []PantryItemInput) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/inventory/pantry", nil, map[string]any{
		"user_id": c.cfg.UserID,
		"items":   items,
	})
}

// ExpiringPantryItems reports items at or past their expiry.
func (c *Client) ExpiringPantryItems(ctx context.Context) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	return c.doMap(ctx, http.MethodGet, "/inventory/pantry/expiring", query, nil)
}

// PantrySuggestions proposes meals cookable from current stock.
func (c *Client) PantrySuggestions(ctx context.Context) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	return c.doMap(ctx, http.MethodGet, "/inventory/pantry/meal-suggestions", query, nil)
}

// PantryItemUpdate carries the updatable fields of a pantry item;
// empty fields are left unchanged.
type PantryItemUpdate struct {
	Quantity        string
	Category        string
	StorageLocation string
	ExpirationDate  string
}

// UpdatePantryItem patches a pantry item.
func (c *Client) UpdatePantryItem(ctx context.Context, itemID string, update PantryItemUpdate) (*PantryItem, error) {
	payload := map[string]any{"user_id": c.cfg.UserID}
	if update.Quantity != "" {
		payload["quantity"] = update.Quantity
	}
	if update.Category != "" {
		payload["category"] = update.Category
	}
	if update.StorageLocation != "" {
		payload["storage_location"] = update.StorageLocation
	}
	if update.ExpirationDate != "" {
		payload["expiration_date"] = update.ExpirationDate
	}
	raw, err := c.Do(ctx, http.MethodPatch, "/inventory/pantry/"+url.PathEscape(itemID), nil, payload)
	if err != nil {
		return nil, err
	}
	var item PantryItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode pantry item: %w", err)
	}
	return &item, nil
}

// DeletePantryItem removes an item from the pantry.
func (c *Client) DeletePantryItem(ctx context.Context, itemID string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/inventory/pantry/"+url.PathEscape(itemID), nil, nil)
	return err
}

// DeductFromPantry reduces quantities after cooking.
func (c *Client) DeductFromPantry(ctx context.Context, items []PantryItemInput) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/inventory/pantry/deduct", nil, map[string]any{
		"user_id": c.cfg.UserID,
		"items":   items,
	})
}
