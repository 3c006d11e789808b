package savor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Recipe, publishing, parsing, and label operations.

// Recipes lists saved recipes, optionally filtered ("all",
// "favorites", "archived").
func (c *Client) Recipes(ctx context.Context, filter string) ([]Recipe, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	if filter != "" {
		query.Set("filter", filter)
	}
	raw, err := c.Do(ctx, http.MethodGet, "/recipes", query, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return payload.Recipes, nil
}

// RecipeByID fetches one saved recipe.
func (c *Client) RecipeByID(ctx context.Context, recipeID string) (*Recipe, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(recipeID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

// RecipeInput carries the fields for CreateRecipe.
type RecipeInput struct {
	Name         string
	Ingredients  []string
	Instructions []string
	Servings     int
	Source       string
}

// CreateRecipe saves a new recipe.
func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (*Recipe, error) {
	payload := map[string]any{
		"user_id":     c.cfg.UserID,
		"recipe_name": in.Name,
	}
	if len(in.Ingredients) > 0 {
		payload["ingredients"] = in.Ingredients
	}
	if len(in.Instructions) > 0 {
		payload["instructions"] = in.Instructions
	}
	if in.Servings > 0 {
		payload["servings"] = in.Servings
	}
	if in.Source != "" {
		payload["source"] = in.Source
	}
	raw, err := c.Do(ctx, http.MethodPost, "/recipes", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

// SetRecipeFavorite flips the favorite flag on a recipe.
func (c *Client) SetRecipeFavorite(ctx context.Context, recipeID string, favorite bool) (*Recipe, error) {
	return c.patchRecipe(ctx, recipeID, map[string]any{"is_favorite": favorite})
}

// SetRecipeArchived flips the archived flag on a recipe.
func (c *Client) SetRecipeArchived(ctx context.Context, recipeID string, archived bool) (*Recipe, error) {
	return c.patchRecipe(ctx, recipeID, map[string]any{"is_archived": archived})
}

func (c *Client) patchRecipe(ctx context.Context, recipeID string, fields map[string]any) (*Recipe, error) {
	fields["user_id"] = c.cfg.UserID
	raw, err := c.Do(ctx, http.MethodPatch, "/recipes/"+url.PathEscape(recipeID), nil, fields)
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

// DeleteRecipe removes a saved recipe.
func (c *Client) DeleteRecipe(ctx context.Context, recipeID string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(recipeID), nil, nil)
	return err
}

// ScaleRecipe rescales a recipe's quantities to the target servings.
func (c *Client) ScaleRecipe(ctx context.Context, recipeID string, targetServings int) (*Recipe, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/scaling/scale-recipe", nil, map[string]any{
		"user_id":         c.cfg.UserID,
		"recipe_id":       recipeID,
		"target_servings": targetServings,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

// StandardizeRecipe turns free-form recipe text into a structured
// recipe.
func (c *Client) StandardizeRecipe(ctx context.Context, rawText string) (*Recipe, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/standardize-recipe", nil, map[string]any{
		"user_id":  c.cfg.UserID,
		"raw_text": rawText,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

// ExtractRecipeFromImage parses a photographed recipe.
func (c *Client) ExtractRecipeFromImage(ctx context.Context, imageBase64, resolution string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodPost, "/recipes/extract", nil, map[string]any{
		"user_id":          c.cfg.UserID,
		"image_base64":     imageBase64,
		"media_resolution": resolution,
	})
}

// GenerateRecipeInput steers recipe generation; all fields optional.
type GenerateRecipeInput struct {
	Ingredients         []string
	Cuisine             string
	DietaryRestrictions []string
	MealType            string
	Difficulty          string
}

// GenerateRecipe asks the server to invent a recipe.
func (c *Client) GenerateRecipe(ctx context.Context, in GenerateRecipeInput) (*Recipe, error) {
	payload := map[string]any{"user_id": c.cfg.UserID}
	if len(in.Ingredients) > 0 {
		payload["ingredients"] = in.Ingredients
	}
	if in.Cuisine != "" {
		payload["cuisine"] = in.Cuisine
	}
	if len(in.DietaryRestrictions) > 0 {
		payload["dietary_restrictions"] = in.DietaryRestrictions
	}
	if in.MealType != "" {
		payload["meal_type"] = in.MealType
	}
	if in.Difficulty != "" {
		payload["difficulty"] = in.Difficulty
	}
	raw, err := c.Do(ctx, http.MethodPost, "/recipes/generate", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

func decodeRecipe(raw json.RawMessage) (*Recipe, error) {
	var recipe Recipe
	if err := json.Unmarshal(raw, &recipe); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	return &recipe, nil
}

// GenerateContent drafts publishable content from meal logs.
func (c *Client) GenerateContent(ctx context.Context, contentType string, logIDs []string) (map[string]any, error) {
	payload := map[string]any{
		"user_id":      c.cfg.UserID,
		"content_type": contentType,
	}
	if len(logIDs) > 0 {
		payload["log_ids"] = logIDs
	}
	return c.doMap(ctx, http.MethodPost, "/publish/generate", nil, payload)
}

// Drafts lists unpublished content drafts.
func (c *Client) Drafts(ctx context.Context) ([]Draft, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	raw, err := c.Do(ctx, http.MethodGet, "/publish/drafts", query, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Drafts []Draft `json:"drafts"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode drafts: %w", err)
	}
	return payload.Drafts, nil
}

// DraftByID fetches one draft.
func (c *Client) DraftByID(ctx context.Context, draftID string) (*Draft, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/publish/drafts/"+url.PathEscape(draftID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeDraft(raw)
}

// DraftUpdate carries the updatable draft fields; empty fields are
// left unchanged.
type DraftUpdate struct {
	Title   string
	Content string
	Status  string
}

// UpdateDraft patches a draft.
func (c *Client) UpdateDraft(ctx context.Context, draftID string, update DraftUpdate) (*Draft, error) {
	payload := map[string]any{"user_id": c.cfg.UserID}
	if update.Title != "" {
		payload["title"] = update.Title
	}
	if update.Content != "" {
		payload["content"] = update.Content
	}
	if update.Status != "" {
		payload["status"] = update.Status
	}
	raw, err := c.Do(ctx, http.MethodPatch, "/publish/drafts/"+url.PathEscape(draftID), nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeDraft(raw)
}

// DeleteDraft removes a draft.
func (c *Client) DeleteDraft(ctx context.Context, draftID string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/publish/drafts/"+url.PathEscape(draftID), nil, nil)
	return err
}

// PublishDraft publishes a draft to the given platforms.
func (c *Client) PublishDraft(ctx context.Context, draftID string, platforms []string) (map[string]any, error) {
	payload := map[string]any{
		"user_id":             c.cfg.UserID,
		"publish_immediately": true,
	}
	if len(platforms) > 0 {
		payload["platforms"] = platforms
	}
	return c.doMap(ctx, http.MethodPost, "/publish/drafts/"+url.PathEscape(draftID)+"/publish", nil, payload)
}

// PublishedContent lists previously published content.
func (c *Client) PublishedContent(ctx context.Context) ([]map[string]any, error) {
	query := url.Values{}
	query.Set("user_id", c.cfg.UserID)
	raw, err := c.Do(ctx, http.MethodGet, "/publish/published", query, nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Content   []map[string]any `json:"content"`
		Published []map[string]any `json:"published"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode published content: %w", err)
	}
	if payload.Content != nil {
		return payload.Content, nil
	}
	return payload.Published, nil
}

func decodeDraft(raw json.RawMessage) (*Draft, error) {
	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

// CottageLabelInput carries the fields for GenerateCottageLabel.
type CottageLabelInput struct {
	ProductName     string
	Ingredients     []string
	NetWeight       string
	BusinessName    string
	BusinessAddress string
	IsRefrigerated  bool
}

// GenerateCottageLabel builds a compliant cottage-food label.
func (c *Client) GenerateCottageLabel(ctx context.Context, in CottageLabelInput) (*CottageLabel, error) {
	payload := map[string]any{
		"user_id":         c.cfg.UserID,
		"product_name":    in.ProductName,
		"ingredients":     in.Ingredients,
		"is_refrigerated": in.IsRefrigerated,
	}
	if in.NetWeight != "" {
		payload["net_weight"] = in.NetWeight
	}
	if in.BusinessName != "" {
		payload["business_name"] = in.BusinessName
	}
	if in.BusinessAddress != "" {
		payload["business_address"] = in.BusinessAddress
	}
	raw, err := c.Do(ctx, http.MethodPost, "/cottage/label", nil, payload)
	if err != nil {
		return nil, err
	}
	var label CottageLabel
	if err := json.Unmarshal(raw, &label); err != nil {
		return nil, fmt.Errorf("decode label: %w", err)
	}
	return &label, nil
}

// LookupBarcode resolves a product barcode via the external lookup.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (map[string]any, error) {
	return c.doMap(ctx, http.MethodGet, "/external/lookup-product/"+url.PathEscape(barcode), nil, nil)
}
