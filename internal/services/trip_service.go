package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"globetrotter/internal/database"
	"globetrotter/internal/models"
)

// TripService manages trip documents and their embedded activities, budget
// items and city references. Every nested mutation is a single atomic
// document update; concurrent writers to the same trip interleave last
// write wins without corrupting structure.
type TripService struct {
	db *database.MongoDB
}

// NewTripService creates a new trip service
func NewTripService(db *database.MongoDB) *TripService {
	return &TripService{db: db}
}

func (s *TripService) collection() *mongo.Collection {
	return s.db.Collection(database.CollectionTrips)
}

// Create inserts a new trip owned by userID and returns it.
func (s *TripService) Create(ctx context.Context, userID string, req models.CreateTripRequest) (*models.Trip, error) {
	now := time.Now().UTC()

	trip := &models.Trip{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Description:   req.Description,
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CoverPhotoURL: req.CoverPhotoURL,
		UserID:        userID,
		IsPublic:      req.IsPublic,
		Itinerary:     []models.TripDay{},
		Budget:        []models.BudgetItem{},
		Tags:          req.Tags,
		Collaborators: req.Collaborators,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if trip.Tags == nil {
		trip.Tags = []string{}
	}
	if trip.Collaborators == nil {
		trip.Collaborators = []string{}
	}

	if _, err := s.collection().InsertOne(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return trip, nil
}

// Get returns a trip by id, ErrNotFound when absent.
func (s *TripService) Get(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load trip %s: %w", id, err)
	}
	return &trip, nil
}

// ListByUser returns a user's trips, newest first.
func (s *TripService) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Trip, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.collection().Find(ctx, bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}
	return trips, nil
}

// Update applies the non-nil fields of req to a trip and returns the updated
// document. Fields the caller did not supply stay untouched.
func (s *TripService) Update(ctx context.Context, id string, req models.UpdateTripRequest) (*models.Trip, error) {
	set := buildTripUpdate(req)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.Trip
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update trip %s: %w", id, err)
	}
	return &trip, nil
}

// buildTripUpdate maps the supplied fields of a partial update onto their
// document paths.
func buildTripUpdate(req models.UpdateTripRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Destination != nil {
		set["destination"] = *req.Destination
	}
	if req.StartDate != nil {
		set["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		set["end_date"] = *req.EndDate
	}
	if req.CoverPhotoURL != nil {
		set["cover_photo_url"] = *req.CoverPhotoURL
	}
	if req.IsPublic != nil {
		set["is_public"] = *req.IsPublic
	}
	if req.Tags != nil {
		set["tags"] = *req.Tags
	}
	if req.Collaborators != nil {
		set["collaborators"] = *req.Collaborators
	}
	return set
}

// Delete removes a trip, ErrNotFound when absent.
func (s *TripService) Delete(ctx context.Context, id string) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete trip %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddActivity appends an activity to the itinerary day with the given date,
// creating the day entry first when the trip has none for that date.
func (s *TripService) AddActivity(ctx context.Context, tripID, dayDate string, req models.AddActivityRequest) (*models.Trip, error) {
	now := time.Now().UTC()

	// Ensure the day exists. The $ne match makes this a no-op when it does.
	day := models.TripDay{Date: dayDate, Activities: []models.Activity{}}
	_, err := s.collection().UpdateOne(ctx,
		bson.M{"_id": tripID, "itinerary.date": bson.M{"$ne": dayDate}},
		bson.M{"$push": bson.M{"itinerary": day}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare itinerary day %s: %w", dayDate, err)
	}

	activity := models.Activity{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Cost:             req.Cost,
		Category:         req.Category,
		Notes:            req.Notes,
		BookingReference: req.BookingReference,
		ImageURL:         req.ImageURL,
		Website:          req.Website,
		Order:            req.Order,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.Trip
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": tripID, "itinerary.date": dayDate},
		bson.M{
			"$push": bson.M{"itinerary.$.activities": activity},
			"$set":  bson.M{"updated_at": now},
		},
		opts,
	).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add activity to trip %s: %w", tripID, err)
	}
	return &trip, nil
}

// UpdateActivity applies the non-nil fields of req to one activity, located
// by day date and activity id.
func (s *TripService) UpdateActivity(ctx context.Context, tripID, dayDate, activityID string, req models.UpdateActivityRequest) (*models.Trip, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for field, value := range buildActivityUpdate(req) {
		set["itinerary.$.activities.$[act]."+field] = value
	}

	filter := bson.M{
		"_id":       tripID,
		"itinerary": bson.M{"$elemMatch": bson.M{"date": dayDate, "activities.id": activityID}},
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{bson.M{"act.id": activityID}}})

	var trip models.Trip
	err := s.collection().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update activity %s: %w", activityID, err)
	}
	return &trip, nil
}

// buildActivityUpdate maps the supplied fields of a partial activity update
// onto their field names within the activity document.
func buildActivityUpdate(req models.UpdateActivityRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.StartTime != nil {
		set["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		set["end_time"] = *req.EndTime
	}
	if req.Cost != nil {
		set["cost"] = *req.Cost
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.BookingReference != nil {
		set["booking_reference"] = *req.BookingReference
	}
	if req.ImageURL != nil {
		set["image_url"] = *req.ImageURL
	}
	if req.Website != nil {
		set["website"] = *req.Website
	}
	if req.Order != nil {
		set["order"] = *req.Order
	}
	return set
}

// DeleteActivity removes one activity from an itinerary day.
func (s *TripService) DeleteActivity(ctx context.Context, tripID, dayDate, activityID string) error {
	filter := bson.M{
		"_id":       tripID,
		"itinerary": bson.M{"$elemMatch": bson.M{"date": dayDate, "activities.id": activityID}},
	}
	update := bson.M{
		"$pull": bson.M{"itinerary.$.activities": bson.M{"id": activityID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := s.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete activity %s: %w", activityID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddBudgetItem appends a budget line to a trip.
func (s *TripService) AddBudgetItem(ctx context.Context, tripID string, req models.AddBudgetItemRequest) (*models.Trip, error) {
	item := models.BudgetItem{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
		Notes:    req.Notes,
		Paid:     req.Paid,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.Trip
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": tripID},
		bson.M{
			"$push": bson.M{"budget": item},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add budget item to trip %s: %w", tripID, err)
	}
	return &trip, nil
}

// UpdateBudgetItem applies the non-nil fields of req to one budget line.
func (s *TripService) UpdateBudgetItem(ctx context.Context, tripID, itemID string, req models.UpdateBudgetItemRequest) (*models.Trip, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for field, value := range buildBudgetItemUpdate(req) {
		set["budget.$."+field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.Trip
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": tripID, "budget.id": itemID},
		bson.M{"$set": set},
		opts,
	).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update budget item %s: %w", itemID, err)
	}
	return &trip, nil
}

// buildBudgetItemUpdate maps the supplied fields of a partial budget item
// update onto their field names.
func buildBudgetItemUpdate(req models.UpdateBudgetItemRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Amount != nil {
		set["amount"] = *req.Amount
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Date != nil {
		set["date"] = *req.Date
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.Paid != nil {
		set["paid"] = *req.Paid
	}
	return set
}

// DeleteBudgetItem removes one budget line from a trip.
func (s *TripService) DeleteBudgetItem(ctx context.Context, tripID, itemID string) error {
	res, err := s.collection().UpdateOne(ctx,
		bson.M{"_id": tripID},
		bson.M{
			"$pull": bson.M{"budget": bson.M{"id": itemID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to delete budget item %s: %w", itemID, err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCity appends a city reference to the trip's destination list.
// Duplicates are allowed; a trip can revisit a city.
func (s *TripService) AddCity(ctx context.Context, tripID string, req models.AddTripCityRequest) (*models.Trip, error) {
	city := models.TripCity{
		CityID:    req.CityID,
		Name:      req.Name,
		Country:   req.Country,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		AddedAt:   time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.Trip
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": tripID},
		bson.M{
			"$push": bson.M{"cities": city},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add city to trip %s: %w", tripID, err)
	}
	return &trip, nil
}

// RemoveCity removes every reference to a city from the trip.
func (s *TripService) RemoveCity(ctx context.Context, tripID, cityID string) error {
	res, err := s.collection().UpdateOne(ctx,
		bson.M{"_id": tripID},
		bson.M{
			"$pull": bson.M{"cities": bson.M{"city_id": cityID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove city %s from trip %s: %w", cityID, tripID, err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
