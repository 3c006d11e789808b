package savor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Meal, search, discovery, safety, and analytics operations. Each is a
// thin wrapper over Do: build the payload, decode the response shape.

// MealLogs lists the most recent logged meals.
func (c *Client) MealLogs(ctx context.Context, limit int) ([]MealLog, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	query.Set("limit", strconv.Itoa(limit))
	raw, err := c.Do(ctx, http.MethodGet, "/meals", query, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Logs  []MealLog `json:"logs"`
		Meals []MealLog `json:"meals"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode meal logs: %w", err)
	}
	if payload.Logs != nil {
		return payload.Logs, nil
	}
	return payload.Meals, nil
}

// MealLogInput carries the optional fields for CreateMealLog.
type MealLogInput struct {
	DishName    string
	Description string
	MealType    string
	ImageBase64 string
	Nutrition   map[string]int
}

// CreateMealLog records a new meal.
func (c *Client) CreateMealLog(ctx context.Context, in MealLogInput) (*MealLog, error) {
	payload := map[string]any{
		"user_id":   c.cfg.UserID,
		"dish_name": in.DishName,
	}
	if in.Description != "" {
		payload["description"] = in.Description
	}
	if in.MealType != "" {
		payload["meal_type"] = in.MealType
	}
	if in.ImageBase64 != "" {
		payload["image_base64"] = in.ImageBase64
	}
	if len(in.Nutrition) > 0 {
		payload["nutrition"] = in.Nutrition
	}
	raw, err := c.Do(ctx, http.MethodPost, "/meals", nil, payload)
	if err != nil {
		return nil, err
	}
	var log MealLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("decode meal log: %w", err)
	}
	return &log, nil
}

// MealLogByID fetches one meal log.
func (c *Client) MealLogByID(ctx context.Context, logID string) (*MealLog, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/meals/"+url.PathEscape(logID), nil, nil)
	if err != nil {
		return nil, err
	}
	// Some server versions nest the entry under "meal".
	var wrapped struct {
		Meal *MealLog `json:"meal"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Meal != nil {
		return wrapped.Meal, nil
	}
	var log MealLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("decode meal log: %w", err)
	}
	return &log, nil
}

// MealLogUpdate carries the updatable fields of a meal log; empty
// fields are left unchanged.
type MealLogUpdate struct {
	DishName  string
	Notes     string
	MealType  string
	VenueName string
}

// UpdateMealLog patches an existing meal log.
func (c *Client) UpdateMealLog(ctx context.Context, logID string, update MealLogUpdate) (*MealLog, error) {
	payload := map[string]any{}
	if update.DishName != "" {
		payload["dish_name"] = update.DishName
	}
	if update.Notes != "" {
		payload["notes"] = update.Notes
	}
	if update.MealType != "" {
		payload["meal_type"] = update.MealType
	}
	if update.VenueName != "" {
		payload["venue_name"] = update.VenueName
	}
	raw, err := c.Do(ctx, http.MethodPatch, "/meals/"+url.PathEscape(logID), nil, payload)
	if err != nil {
		return nil, err
	}
	var log MealLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("decode meal log: %w", err)
	}
	return &log, nil
}

// DeleteMealLog removes a meal log.
func (c *Client) DeleteMealLog(ctx context.Context, logID string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/meals/"+url.PathEscape(logID), nil, nil)
	return err
}

// SearchMeals runs a free-text search over the user's logs.
func (c *Client) SearchMeals(ctx context.Context, query string, limit int) (*SearchResult, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/search", nil, map[string]any{
		"query":   query,
		"user_id": c.cfg.UserID,
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeSearchResult(raw, query)
}

// SearchMealsByDate searches logs within a date range. endDate may be
// empty to search a single day.
func (c *Client) SearchMealsByDate(ctx context.Context, startDate, endDate string, limit int) (*SearchResult, error) {
	end := endDate
	if end == "" {
		end = startDate
	}
	raw, err := c.Do(ctx, http.MethodPost, "/search", nil, map[string]any{
		"user_id":    c.cfg.UserID,
		"start_date": startDate,
		"end_date":   end,
		"limit":      limit,
	})
	if err != nil {
		return nil, err
	}
	label := "date:" + startDate
	if endDate != "" {
		label += " to " + endDate
	}
	return decodeSearchResult(raw, label)
}

func decodeSearchResult(raw json.RawMessage, query string) (*SearchResult, error) {
	var payload struct {
		Results []MealLog `json:"results"`
		Total   int       `json:"total"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	total := payload.Total
	if total == 0 {
		total = len(payload.Results)
	}
	return &SearchResult{Logs: payload.Results, Total: total, Query: query}, nil
}

// Profile fetches the user's taste profile.
func (c *Client) Profile(ctx context.Context) (*TasteProfile, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	raw, err := c.Do(ctx, http.MethodGet, "/profile", query, nil)
	if err != nil {
		return nil, err
	}
	var profile TasteProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode taste profile: %w", err)
	}
	return &profile, nil
}

// LifetimeStats fetches all-time logging statistics.
func (c *Client) LifetimeStats(ctx context.Context) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	return c.doMap(ctx, http.MethodGet, "/profile/lifetime", query, nil)
}

// AnalyzeImage submits a meal photo for analysis.
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64, resolution string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/analyze", nil, map[string]any{
		"user_id":          c.cfg.UserID,
		"image_base64":     imageBase64,
		"media_resolution": resolution,
	})
}

// FoodStats fetches an analytics report for a period ("week", "month",
// or "year").
func (c *Client) FoodStats(ctx context.Context, period string) (map[string]any, error) {
	days := map[string]int{"week": 7, "month": 30, "year": 365}[period]
	if days == 0 {
		days = 30
	}
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))
	return c.doMap(ctx, http.MethodGet, "/analytics/report", query, nil)
}

// NutritionAnalytics fetches a nutrition breakdown over the past days.
func (c *Client) NutritionAnalytics(ctx context.Context, days int) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/analytics/nutrition", nil, map[string]any{"days": days})
}

// Streak reports the logging streak over the given window.
func (c *Client) Streak(ctx context.Context, days int) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	return c.doMap(ctx, http.MethodGet, "/agents/streak/"+strconv.Itoa(days), query, nil)
}

// FlavorPairings suggests ingredients that pair with the subject.
func (c *Client) FlavorPairings(ctx context.Context, ingredient string, count int) ([]string, error) {
	query := url.Values{}
	query.Set("subject", ingredient)
	raw, err := c.Do(ctx, http.MethodGet, "/flavor/pairings", query, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Pairings []string `json:"pairings"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode pairings: %w", err)
	}
	if count > 0 && len(payload.Pairings) > count {
		return payload.Pairings[:count], nil
	}
	return payload.Pairings, nil
}

// RandomTip fetches a one-off food tip.
func (c *Client) RandomTip(ctx context.Context) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	return c.doMap(ctx, http.MethodGet, "/agents/food-tip", query, nil)
}

// SuggestMeals asks for meal suggestions, optionally steered by a
// free-text context and excluding recently eaten meals.
func (c *Client) SuggestMeals(ctx context.Context, hint string, excludeRecentDays int) ([]MealSuggestion, error) {
	payload := map[string]any{
		"user_id":             c.cfg.UserID,
		"exclude_recent_days": excludeRecentDays,
	}
	if hint != "" {
		payload["context"] = hint
	}
	raw, err := c.Do(ctx, http.MethodPost, "/suggest", nil, payload)
	if err != nil {
		return nil, err
	}
	var result struct {
		Suggestions []MealSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return result.Suggestions, nil
}

// CheckTasteBuddy checks a dish against the user's allergies and diet.
func (c *Client) CheckTasteBuddy(ctx context.Context, dishName string, ingredients, allergies, diet []string) (*TasteBuddyResult, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/taste-buddy/check", nil, map[string]any{
		"user_id":        c.cfg.UserID,
		"dish_name":      dishName,
		"ingredients":    emptyIfNil(ingredients),
		"user_allergies": emptyIfNil(allergies),
		"user_diet":      emptyIfNil(diet),
	})
	if err != nil {
		return nil, err
	}
	var result TasteBuddyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode taste buddy result: %w", err)
	}
	return &result, nil
}

// GeoPoint is an optional latitude/longitude pair for venue lookups.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// NearbyVenues finds food venues around a point or named location.
// Either point or location must be provided.
func (c *Client) NearbyVenues(ctx context.Context, point *GeoPoint, location, venueType string, radius int) ([]Venue, string, error) {
	if point == nil && location == "" {
		return nil, "", fmt.Errorf("either coordinates or a location must be provided")
	}
	payload := map[string]any{"radius": radius}
	if point != nil {
		payload["latitude"] = point.Latitude
		payload["longitude"] = point.Longitude
	} else {
		payload["location"] = location
	}
	if venueType != "" {
		payload["food_type"] = venueType
	}
	raw, err := c.Do(ctx, http.MethodPost, "/discovery/nearby", nil, payload)
	if err != nil {
		return nil, "", err
	}
	var result struct {
		Venues           []Venue `json:"venues"`
		Results          []Venue `json:"results"`
		ResolvedLocation string  `json:"resolved_location"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, "", fmt.Errorf("decode venues: %w", err)
	}
	venues := result.Venues
	if venues == nil {
		venues = result.Results
	}
	return venues, result.ResolvedLocation, nil
}

// DailyInsight fetches the agent-generated insight of the day.
func (c *Client) DailyInsight(ctx context.Context) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	return c.doMap(ctx, http.MethodGet, "/agents/daily-insight", query, nil)
}

// DiscoverRestaurants asks the discovery agent for restaurants around a
// point or named location. Returns the payload and the location the
// server resolved the query to.
func (c *Client) DiscoverRestaurants(ctx context.Context, point *GeoPoint, location string) (map[string]any, string, error) {
	if point == nil && location == "" {
		return nil, "", fmt.Errorf("either coordinates or a location must be provided")
	}
	payload := map[string]any{"user_id": c.cfg.UserID}
	if point != nil {
		payload["latitude"] = point.Latitude
		payload["longitude"] = point.Longitude
		payload["location"] = fmt.Sprintf("%v,%v", point.Latitude, point.Longitude)
	} else {
		payload["location"] = location
	}
	result, err := c.doMap(ctx, http.MethodPost, "/agents/discover/restaurants", nil, payload)
	if err != nil {
		return nil, "", err
	}
	resolved, _ := result["resolved_location"].(string)
	return result, resolved, nil
}

// DiscoverRecipes asks the discovery agent for recipes using the
// available ingredients.
func (c *Client) DiscoverRecipes(ctx context.Context, ingredients []string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/agents/discover/recipes", nil, map[string]any{
		"user_id":               c.cfg.UserID,
		"available_ingredients": ingredients,
	})
}

// FoodTrends reports trending foods, optionally scoped by region or
// cuisine.
func (c *Client) FoodTrends(ctx context.Context, region, cuisineFocus string) (map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	if region != "" {
		query.Set("region", region)
	}
	if cuisineFocus != "" {
		query.Set("cuisine_focus", cuisineFocus)
	}
	return c.doMap(ctx, http.MethodGet, "/trends/identify", query, nil)
}

// CheckRecalls checks food items against active recall notices.
func (c *Client) CheckRecalls(ctx context.Context, foodItems []string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/safety/recalls", nil, map[string]any{
		"user_id":    c.cfg.UserID,
		"food_items": foodItems,
	})
}

// CheckDrugInteractions checks food items against medications.
func (c *Client) CheckDrugInteractions(ctx context.Context, foodItems, medications []string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/safety/drug-interactions", nil, map[string]any{
		"user_id":     c.cfg.UserID,
		"food_items":  foodItems,
		"medications": medications,
	})
}

// CheckAllergens checks food items against the given allergies.
func (c *Client) CheckAllergens(ctx context.Context, foodItems, allergies []string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/safety/allergens", nil, map[string]any{
		"user_id":    c.cfg.UserID,
		"food_items": foodItems,
		"allergies":  allergies,
	})
}

// RestaurantSafety looks up inspection and safety info for a venue.
func (c *Client) RestaurantSafety(ctx context.Context, name, location string) (map[string]any, error) {
	var query url.Values
	if location != "" {
		query = url.Values{}
		query.Set("location", location)
	}
	return c.doMap(ctx, http.MethodGet, "/safety/restaurant/"+url.PathEscape(name), query, nil)
}

// doMap runs Do and decodes the response into a generic map, for
// endpoints whose payloads are rendered as-is.
func (c *Client) doMap(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	raw, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
