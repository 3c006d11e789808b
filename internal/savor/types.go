package savor

import (
	"encoding/json"
	"fmt"
	"time"
)

// The server is inconsistent about field casing across endpoints, so
// each DTO decodes both the camelCase and snake_case spellings and
// keeps the first one present.

// MealLog is a single logged meal.
type MealLog struct {
	ID          string
	UserID      string
	DishName    string
	Description string
	MealType    string
	Ingredients []string
	Nutrition   map[string]any
	Timestamp   time.Time
	ImageURL    string
}

func (m *MealLog) UnmarshalJSON(data []byte) error {
	var w struct {
		ID           string         `json:"id"`
		UserID       string         `json:"userId"`
		UserIDSnake  string         `json:"user_id"`
		DishName     string         `json:"dishName"`
		DishSnake    string         `json:"dish_name"`
		Description  string         `json:"description"`
		MealType     string         `json:"mealType"`
		MealSnake    string         `json:"meal_type"`
		Ingredients  []string       `json:"ingredients"`
		Nutrition    map[string]any `json:"nutrition"`
		Timestamp    string         `json:"timestamp"`
		ImageURL     string         `json:"imageUrl"`
		ImageSnake   string         `json:"image_url"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = w.ID
	m.UserID = first(w.UserID, w.UserIDSnake)
	m.DishName = first(w.DishName, w.DishSnake)
	m.Description = w.Description
	m.MealType = first(w.MealType, w.MealSnake)
	m.Ingredients = w.Ingredients
	m.Nutrition = w.Nutrition
	m.Timestamp = parseTimestamp(w.Timestamp)
	m.ImageURL = first(w.ImageURL, w.ImageSnake)
	return nil
}

// TasteProfile aggregates a user's learned preferences.
type TasteProfile struct {
	UserID               string
	FavoriteCuisines     []string
	PreferredIngredients []string
	DislikedIngredients  []string
	DietaryRestrictions  []string
	AverageCalories      float64
	MealPatterns         map[string]any
}

func (p *TasteProfile) UnmarshalJSON(data []byte) error {
	var w struct {
		UserID          string         `json:"userId"`
		UserIDSnake     string         `json:"user_id"`
		Cuisines        []string       `json:"favoriteCuisines"`
		CuisinesSnake   []string       `json:"favorite_cuisines"`
		Preferred       []string       `json:"preferredIngredients"`
		PreferredSnake  []string       `json:"preferred_ingredients"`
		Disliked        []string       `json:"dislikedIngredients"`
		DislikedSnake   []string       `json:"disliked_ingredients"`
		Restrictions    []string       `json:"dietaryRestrictions"`
		RestrictSnake   []string       `json:"dietary_restrictions"`
		AvgCalories     float64        `json:"averageCalories"`
		AvgCalSnake     float64        `json:"average_calories"`
		MealPatterns    map[string]any `json:"mealPatterns"`
		MealPatSnake    map[string]any `json:"meal_patterns"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.UserID = first(w.UserID, w.UserIDSnake)
	p.FavoriteCuisines = firstList(w.Cuisines, w.CuisinesSnake)
	p.PreferredIngredients = firstList(w.Preferred, w.PreferredSnake)
	p.DislikedIngredients = firstList(w.Disliked, w.DislikedSnake)
	p.DietaryRestrictions = firstList(w.Restrictions, w.RestrictSnake)
	p.AverageCalories = w.AvgCalories
	if p.AverageCalories == 0 {
		p.AverageCalories = w.AvgCalSnake
	}
	p.MealPatterns = w.MealPatterns
	if p.MealPatterns == nil {
		p.MealPatterns = w.MealPatSnake
	}
	return nil
}

// SearchResult holds matching meal logs for a query.
type SearchResult struct {
	Logs  []MealLog
	Total int
	Query string
}

// PantryItem is one tracked pantry entry.
type PantryItem struct {
	ID              string
	Name            string
	Quantity        string
	Category        string
	StorageLocation string
	ExpirationDate  string
	UserID          string
}

func (p *PantryItem) UnmarshalJSON(data []byte) error {
	var w struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		ItemName      string `json:"item_name"`
		Quantity      string `json:"quantity"`
		Category      string `json:"category"`
		Storage       string `json:"storageLocation"`
		StorageSnake  string `json:"storage_location"`
		Expiration    string `json:"expirationDate"`
		ExpSnake      string `json:"expiration_date"`
		ExpirySnake   string `json:"expiry_date"`
		UserID        string `json:"userId"`
		UserIDSnake   string `json:"user_id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ID = w.ID
	p.Name = first(w.Name, w.ItemName)
	p.Quantity = w.Quantity
	p.Category = w.Category
	p.StorageLocation = first(w.Storage, w.StorageSnake)
	p.ExpirationDate = first(w.Expiration, w.ExpSnake, w.ExpirySnake)
	p.UserID = first(w.UserID, w.UserIDSnake)
	return nil
}

// Recipe is a saved or generated recipe.
type Recipe struct {
	ID           string
	Name         string
	Description  string
	Ingredients  []string
	Instructions []string
	Servings     int
	Source       string
	PrepTime     string
	CookTime     string
	IsFavorite   bool
	IsArchived   bool
	UserID       string
}

func (r *Recipe) UnmarshalJSON(data []byte) error {
	var w struct {
		ID              string          `json:"id"`
		Name            string          `json:"name"`
		RecipeName      string          `json:"recipe_name"`
		RecipeNameAlt   string          `json:"recipeName"`
		Description     string          `json:"description"`
		Ingredients     []json.RawMessage `json:"ingredients"`
		IngredientsList []json.RawMessage `json:"ingredientsList"`
		Instructions    []json.RawMessage `json:"instructions"`
		Steps           []json.RawMessage `json:"steps"`
		Servings        int             `json:"servings"`
		Source          string          `json:"source"`
		PrepTime        string          `json:"prepTime"`
		PrepSnake       string          `json:"prep_time"`
		CookTime        string          `json:"cookTime"`
		CookSnake       string          `json:"cook_time"`
		IsFavorite      bool            `json:"isFavorite"`
		IsFavSnake      bool            `json:"is_favorite"`
		IsArchived      bool            `json:"isArchived"`
		IsArchSnake     bool            `json:"is_archived"`
		UserID          string          `json:"userId"`
		UserIDSnake     string          `json:"user_id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.ID = w.ID
	r.Name = first(w.Name, w.RecipeName, w.RecipeNameAlt)
	r.Description = w.Description
	r.Ingredients = flexStrings(firstRawList(w.Ingredients, w.IngredientsList))
	r.Instructions = flexStrings(firstRawList(w.Instructions, w.Steps))
	r.Servings = w.Servings
	r.Source = w.Source
	r.PrepTime = first(w.PrepTime, w.PrepSnake)
	r.CookTime = first(w.CookTime, w.CookSnake)
	r.IsFavorite = w.IsFavorite || w.IsFavSnake
	r.IsArchived = w.IsArchived || w.IsArchSnake
	r.UserID = first(w.UserID, w.UserIDSnake)
	return nil
}

// Draft is an unpublished piece of generated content.
type Draft struct {
	ID          string
	Title       string
	Content     string
	ContentType string
	Status      string
	Platforms   []string
	UserID      string
}

func (d *Draft) UnmarshalJSON(data []byte) error {
	var w struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		Body        string   `json:"body"`
		CType       string   `json:"contentType"`
		CTypeSnake  string   `json:"content_type"`
		Type        string   `json:"type"`
		Status      string   `json:"status"`
		Platforms   []string `json:"platforms"`
		UserID      string   `json:"userId"`
		UserIDSnake string   `json:"user_id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.ID = w.ID
	d.Title = w.Title
	d.Content = first(w.Content, w.Body)
	d.ContentType = first(w.CType, w.CTypeSnake, w.Type)
	d.Status = w.Status
	d.Platforms = w.Platforms
	d.UserID = first(w.UserID, w.UserIDSnake)
	return nil
}

// MealSuggestion is one recommended meal.
type MealSuggestion struct {
	Name              string
	Description       string
	MealType          string
	Venue             string
	Reason            string
	IngredientsNeeded []string
	PrepTime          string
	MatchScore        float64
}

func (s *MealSuggestion) UnmarshalJSON(data []byte) error {
	var w struct {
		Name         string   `json:"name"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		MealType     string   `json:"mealType"`
		MealSnake    string   `json:"meal_type"`
		Type         string   `json:"type"`
		Venue        string   `json:"venue"`
		Reason       string   `json:"reason"`
		Needed       []string `json:"ingredientsNeeded"`
		NeededSnake  []string `json:"ingredients_needed"`
		PrepTime     string   `json:"prepTime"`
		PrepSnake    string   `json:"prep_time"`
		MatchScore   float64  `json:"matchScore"`
		MatchSnake   float64  `json:"match_score"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Name = first(w.Name, w.Title)
	s.Description = w.Description
	s.MealType = first(w.MealType, w.MealSnake, w.Type)
	s.Venue = w.Venue
	s.Reason = w.Reason
	s.IngredientsNeeded = firstList(w.Needed, w.NeededSnake)
	s.PrepTime = first(w.PrepTime, w.PrepSnake)
	s.MatchScore = w.MatchScore
	if s.MatchScore == 0 {
		s.MatchScore = w.MatchSnake
	}
	return nil
}

// TasteBuddyResult reports dietary compatibility for a dish.
type TasteBuddyResult struct {
	IsSafe            bool
	IsCompliant       bool
	DetectedAllergens []string
	DietConflicts     []string
	Warnings          []string
	Modifications     []string
}

func (t *TasteBuddyResult) UnmarshalJSON(data []byte) error {
	var w struct {
		IsSafe          *bool    `json:"isSafe"`
		IsSafeSnake     *bool    `json:"is_safe"`
		IsCompliant     *bool    `json:"isCompliant"`
		IsComplSnake    *bool    `json:"is_compliant"`
		Allergens       []string `json:"detectedAllergens"`
		AllergensSnake  []string `json:"detected_allergens"`
		Conflicts       []string `json:"dietConflicts"`
		ConflictsSnake  []string `json:"diet_conflicts"`
		Warnings        []string `json:"warnings"`
		Modifications   []string `json:"modifications"`
		Suggestions     []string `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	// Missing safety flags default to safe, matching the server's
	// optimistic contract.
	t.IsSafe = boolOr(w.IsSafe, boolOr(w.IsSafeSnake, true))
	t.IsCompliant = boolOr(w.IsCompliant, boolOr(w.IsComplSnake, true))
	t.DetectedAllergens = firstList(w.Allergens, w.AllergensSnake)
	t.DietConflicts = firstList(w.Conflicts, w.ConflictsSnake)
	t.Warnings = w.Warnings
	t.Modifications = firstList(w.Modifications, w.Suggestions)
	return nil
}

// Venue is a nearby place to eat or shop.
type Venue struct {
	Name      string
	VenueType string
	Distance  string
	Rating    float64
	Address   string
	Latitude  float64
	Longitude float64
}

func (v *Venue) UnmarshalJSON(data []byte) error {
	var w struct {
		Name       string          `json:"name"`
		VenueType  string          `json:"venueType"`
		TypeSnake  string          `json:"venue_type"`
		Type       string          `json:"type"`
		Distance   json.RawMessage `json:"distance"`
		Rating     float64         `json:"rating"`
		Address    string          `json:"address"`
		Lat        float64         `json:"lat"`
		Latitude   float64         `json:"latitude"`
		Lng        float64         `json:"lng"`
		Longitude  float64         `json:"longitude"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.Name = w.Name
	v.VenueType = first(w.VenueType, w.TypeSnake, w.Type)
	v.Distance = formatDistance(w.Distance)
	v.Rating = w.Rating
	v.Address = w.Address
	v.Latitude = w.Lat
	if v.Latitude == 0 {
		v.Latitude = w.Latitude
	}
	v.Longitude = w.Lng
	if v.Longitude == 0 {
		v.Longitude = w.Longitude
	}
	return nil
}

// CottageLabel is a generated cottage-food product label.
type CottageLabel struct {
	ProductName      string
	Ingredients      []string
	AllergenWarnings []string
	Warnings         []string
	RegulatoryNotes  []string
	Weight           string
	ProducerInfo     string
	LabelText        string
}

func (l *CottageLabel) UnmarshalJSON(data []byte) error {
	var w struct {
		ProductName    string   `json:"productName"`
		ProductSnake   string   `json:"product_name"`
		Ingredients    []string `json:"ingredients"`
		Allergens      []string `json:"allergenWarnings"`
		AllergensSnake []string `json:"allergen_warnings"`
		Warnings       []string `json:"warnings"`
		Notes          []string `json:"regulatoryNotes"`
		NotesSnake     []string `json:"regulatory_notes"`
		Weight         string   `json:"weight"`
		NetWeight      string   `json:"netWeight"`
		NetSnake       string   `json:"net_weight"`
		Producer       string   `json:"producerInfo"`
		ProducerSnake  string   `json:"producer_info"`
		LabelText      string   `json:"labelText"`
		LabelSnake     string   `json:"label_text"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.ProductName = first(w.ProductName, w.ProductSnake)
	l.Ingredients = w.Ingredients
	l.AllergenWarnings = firstList(w.Allergens, w.AllergensSnake)
	l.Warnings = w.Warnings
	l.RegulatoryNotes = firstList(w.Notes, w.NotesSnake)
	l.Weight = first(w.Weight, w.NetWeight, w.NetSnake)
	l.ProducerInfo = first(w.Producer, w.ProducerSnake)
	l.LabelText = first(w.LabelText, w.LabelSnake)
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func firstRawList(lists ...[]json.RawMessage) []json.RawMessage {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

// flexStrings turns a mixed list of strings and objects into plain
// strings; objects keep their name/text/item field when present.
func flexStrings(raw []json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(r, &obj); err == nil {
			if v := first(stringField(obj, "name"), stringField(obj, "text"), stringField(obj, "item")); v != "" {
				out = append(out, v)
				continue
			}
			out = append(out, fmt.Sprintf("%v", obj))
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

// formatDistance renders a numeric meter distance as "850m" or
// "1.2km"; string distances pass through unchanged.
func formatDistance(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var meters float64
	if err := json.Unmarshal(raw, &meters); err == nil {
		if meters < 1000 {
			return fmt.Sprintf("%dm", int(meters))
		}
		return fmt.Sprintf("%.1fkm", meters/1000)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
