package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"globetrotter/internal/database"
	"globetrotter/internal/models"
)

// Cache keys for catalog lookups that rarely change
const (
	featuredCitiesCacheKey = "cities:featured"
	cityFacetsCacheKey     = "cities:facets"
)

// CityService manages the city catalog: admin CRUD plus public search,
// autocomplete and featured listings. Hot read paths (featured, facets) are
// served from a short-lived in-process cache.
type CityService struct {
	db    *database.MongoDB
	local *gocache.Cache
}

// NewCityService creates a new city service
func NewCityService(db *database.MongoDB) *CityService {
	return &CityService{
		db:    db,
		local: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *CityService) collection() *mongo.Collection {
	return s.db.Collection(database.CollectionCities)
}

// invalidate drops the in-process catalog caches after any admin write.
func (s *CityService) invalidate() {
	s.local.Delete(featuredCitiesCacheKey)
	s.local.Delete(cityFacetsCacheKey)
}

// Create inserts a new catalog city. Returns ErrAlreadyExists when a city
// with the same name and country is already present (case-insensitive).
func (s *CityService) Create(ctx context.Context, city models.City) (*models.City, error) {
	if existing, err := s.GetByNameAndCountry(ctx, city.Name, city.Country); err == nil && existing != nil {
		return nil, ErrAlreadyExists
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	city.ID = uuid.New().String()
	city.CreatedAt = now
	city.UpdatedAt = now
	if city.Languages == nil {
		city.Languages = []string{}
	}
	if city.Tags == nil {
		city.Tags = []string{}
	}
	if city.ImageURLs == nil {
		city.ImageURLs = []string{}
	}

	if _, err := s.collection().InsertOne(ctx, city); err != nil {
		return nil, fmt.Errorf("failed to create city: %w", err)
	}

	s.invalidate()
	return &city, nil
}

// Get returns a city by id, ErrNotFound when absent.
func (s *CityService) Get(ctx context.Context, id string) (*models.City, error) {
	var city models.City
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&city)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load city %s: %w", id, err)
	}
	return &city, nil
}

// GetByNameAndCountry looks a city up by exact name and country,
// case-insensitively.
func (s *CityService) GetByNameAndCountry(ctx context.Context, name, country string) (*models.City, error) {
	filter := bson.M{
		"name":    bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"},
		"country": bson.M{"$regex": "^" + regexp.QuoteMeta(country) + "$", "$options": "i"},
	}

	var city models.City
	err := s.collection().FindOne(ctx, filter).Decode(&city)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up city %s, %s: %w", name, country, err)
	}
	return &city, nil
}

// Update applies the non-nil fields of req to a city and returns the updated
// document.
func (s *CityService) Update(ctx context.Context, id string, req models.UpdateCityRequest) (*models.City, error) {
	set := buildCityUpdate(req)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var city models.City
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&city)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update city %s: %w", id, err)
	}

	s.invalidate()
	return &city, nil
}

// buildCityUpdate maps supplied partial-update fields onto document paths.
func buildCityUpdate(req models.UpdateCityRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Country != nil {
		set["country"] = *req.Country
	}
	if req.CountryCode != nil {
		set["country_code"] = *req.CountryCode
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Latitude != nil {
		set["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		set["longitude"] = *req.Longitude
	}
	if req.Population != nil {
		set["population"] = *req.Population
	}
	if req.Timezone != nil {
		set["timezone"] = *req.Timezone
	}
	if req.Currency != nil {
		set["currency"] = *req.Currency
	}
	if req.Languages != nil {
		set["languages"] = *req.Languages
	}
	if req.BestTimeToVisit != nil {
		set["best_time_to_visit"] = *req.BestTimeToVisit
	}
	if req.AvgTemperature != nil {
		set["avg_temperature"] = *req.AvgTemperature
	}
	if req.MustSeeAttractions != nil {
		set["must_see_attractions"] = *req.MustSeeAttractions
	}
	if req.LocalCuisine != nil {
		set["local_cuisine"] = *req.LocalCuisine
	}
	if req.SafetyRating != nil {
		set["safety_rating"] = *req.SafetyRating
	}
	if req.CostIndex != nil {
		set["cost_index"] = *req.CostIndex
	}
	if req.ImageURLs != nil {
		set["image_urls"] = *req.ImageURLs
	}
	if req.IsFeatured != nil {
		set["is_featured"] = *req.IsFeatured
	}
	if req.Tags != nil {
		set["tags"] = *req.Tags
	}
	return set
}

// Delete removes a city from the catalog, ErrNotFound when absent.
func (s *CityService) Delete(ctx context.Context, id string) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete city %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	s.invalidate()
	return nil
}

// Search runs a text search over the catalog with optional filters. Results
// are ordered featured first, then by safety rating.
func (s *CityService) Search(ctx context.Context, q models.CitySearchQuery) ([]models.City, error) {
	filter := bson.M{}
	if q.Query != "" {
		filter["$text"] = bson.M{"$search": q.Query}
	}
	if q.Country != "" {
		filter["country"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q.Country) + "$", "$options": "i"}
	}
	if q.MinRating != nil {
		filter["safety_rating"] = bson.M{"$gte": *q.MinRating}
	}
	if q.MaxCost != nil {
		filter["cost_index"] = bson.M{"$lte": *q.MaxCost}
	}
	if len(q.Tags) > 0 {
		tags := make([]string, len(q.Tags))
		for i, t := range q.Tags {
			tags[i] = strings.ToLower(t)
		}
		filter["tags"] = bson.M{"$all": tags}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "is_featured", Value: -1}, {Key: "safety_rating", Value: -1}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	cursor, err := s.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	defer cursor.Close(ctx)

	cities := []models.City{}
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("failed to decode city search results: %w", err)
	}
	return cities, nil
}

// Featured returns the featured cities sorted by name. Served from the
// in-process cache when warm.
func (s *CityService) Featured(ctx context.Context, limit int64) ([]models.City, error) {
	if cached, ok := s.local.Get(featuredCitiesCacheKey); ok {
		if m := GetMetrics(); m != nil {
			m.RecordCacheHit("city")
		}
		cities := cached.([]models.City)
		if int64(len(cities)) >= limit {
			return cities[:limit], nil
		}
		return cities, nil
	}
	if m := GetMetrics(); m != nil {
		m.RecordCacheMiss("city")
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(limit)

	cursor, err := s.collection().Find(ctx, bson.M{"is_featured": true}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured cities: %w", err)
	}
	defer cursor.Close(ctx)

	cities := []models.City{}
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("failed to decode featured cities: %w", err)
	}

	s.local.Set(featuredCitiesCacheKey, cities, gocache.DefaultExpiration)
	return cities, nil
}

// ByCountry returns every city with the given ISO country code, sorted by
// name.
func (s *CityService) ByCountry(ctx context.Context, countryCode string) ([]models.City, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.collection().Find(ctx, bson.M{"country_code": strings.ToUpper(countryCode)}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to load cities for country %s: %w", countryCode, err)
	}
	defer cursor.Close(ctx)

	cities := []models.City{}
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("failed to decode cities for country %s: %w", countryCode, err)
	}
	return cities, nil
}

// Suggest returns autocomplete suggestions matching a name prefix or an
// exact country.
func (s *CityService) Suggest(ctx context.Context, query string, limit int64) ([]models.CityAutocompleteItem, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(query), "$options": "i"}},
		bson.M{"country": bson.M{"$regex": "^" + regexp.QuoteMeta(query) + "$", "$options": "i"}},
	}}

	findOpts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"name": 1, "country": 1, "country_code": 1, "image_urls": bson.M{"$slice": 1}})

	cursor, err := s.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to load city suggestions: %w", err)
	}
	defer cursor.Close(ctx)

	suggestions := []models.CityAutocompleteItem{}
	for cursor.Next(ctx) {
		var city models.City
		if err := cursor.Decode(&city); err != nil {
			return nil, fmt.Errorf("failed to decode city suggestion: %w", err)
		}
		item := models.CityAutocompleteItem{
			ID:          city.ID,
			Name:        city.Name,
			Country:     city.Country,
			CountryCode: city.CountryCode,
		}
		if len(city.ImageURLs) > 0 {
			item.ImageURL = city.ImageURLs[0]
		}
		suggestions = append(suggestions, item)
	}
	return suggestions, cursor.Err()
}

// Facets computes the search filter facets: the country list, the observed
// cost range and the 20 most used tags. Served from the in-process cache
// when warm.
func (s *CityService) Facets(ctx context.Context) (*models.CityFacets, error) {
	if cached, ok := s.local.Get(cityFacetsCacheKey); ok {
		if m := GetMetrics(); m != nil {
			m.RecordCacheHit("city")
		}
		facets := cached.(models.CityFacets)
		return &facets, nil
	}
	if m := GetMetrics(); m != nil {
		m.RecordCacheMiss("city")
	}

	countriesRaw, err := s.collection().Distinct(ctx, "country", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load country facet: %w", err)
	}
	countries := make([]string, 0, len(countriesRaw))
	for _, c := range countriesRaw {
		if name, ok := c.(string); ok {
			countries = append(countries, name)
		}
	}
	sort.Strings(countries)

	costRange := models.CostRange{Min: 0, Max: 500}
	costPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"min_cost": bson.M{"$min": "$cost_index"},
			"max_cost": bson.M{"$max": "$cost_index"},
		}}},
	}
	costCursor, err := s.collection().Aggregate(ctx, costPipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost facet: %w", err)
	}
	var costRows []struct {
		MinCost float64 `bson:"min_cost"`
		MaxCost float64 `bson:"max_cost"`
	}
	if err := costCursor.All(ctx, &costRows); err != nil {
		return nil, fmt.Errorf("failed to decode cost facet: %w", err)
	}
	if len(costRows) > 0 {
		costRange = models.CostRange{Min: int(costRows[0].MinCost), Max: int(costRows[0].MaxCost)}
	}

	tagsPipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 20}},
	}
	tagsCursor, err := s.collection().Aggregate(ctx, tagsPipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag facet: %w", err)
	}
	var tagRows []struct {
		Tag string `bson:"_id"`
	}
	if err := tagsCursor.All(ctx, &tagRows); err != nil {
		return nil, fmt.Errorf("failed to decode tag facet: %w", err)
	}
	tags := make([]string, 0, len(tagRows))
	for _, row := range tagRows {
		if row.Tag != "" {
			tags = append(tags, row.Tag)
		}
	}

	facets := models.CityFacets{Countries: countries, CostRange: costRange, Tags: tags}
	s.local.Set(cityFacetsCacheKey, facets, gocache.DefaultExpiration)
	return &facets, nil
}
