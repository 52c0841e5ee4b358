package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainvillas "villadesk/internal/domain/villas"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type VillaRepository struct {
	col *mongo.Collection
}

func NewVillaRepository(db *mongo.Database) *VillaRepository {
	return &VillaRepository{col: db.Collection("villas")}
}

func (r *VillaRepository) ByID(ctx context.Context, id domainvillas.VillaID) (*domainvillas.Villa, error) {
	var doc villaDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvillas.ErrVillaNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *VillaRepository) Save(ctx context.Context, villa *domainvillas.Villa) error {
	doc := newVillaDocument(villa)
	filter := bson.M{"_id": doc.ID, "version": villa.Version}
	doc.Version = villa.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	villa.Version = doc.Version
	return nil
}

func (r *VillaRepository) ByLocation(ctx context.Context, id domainvillas.LocationID) ([]*domainvillas.Villa, error) {
	filter := bson.M{}
	if id != "" {
		filter["location_id"] = string(id)
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainvillas.Villa
	for cursor.Next(ctx) {
		var doc villaDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type villaDocument struct {
	ID               string `bson:"_id"`
	LocationID       string `bson:"location_id"`
	Name             string `bson:"name"`
	Description      string `bson:"description,omitempty"`
	GuestsLimit      int    `bson:"guests_limit"`
	Bedrooms         int    `bson:"bedrooms"`
	Bathrooms        int    `bson:"bathrooms"`
	NightlyRateCents int64  `bson:"nightly_rate_cents"`
	State            string `bson:"state"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
	Version          int64  `bson:"version"`
}

func newVillaDocument(v *domainvillas.Villa) villaDocument {
	return villaDocument{
		ID:               string(v.ID),
		LocationID:       string(v.LocationID),
		Name:             v.Name,
		Description:      v.Description,
		GuestsLimit:      v.GuestsLimit,
		Bedrooms:         v.Bedrooms,
		Bathrooms:        v.Bathrooms,
		NightlyRateCents: v.NightlyRateCents,
		State:            string(v.State),
		CreatedAt:        v.CreatedAt.UnixMilli(),
		UpdatedAt:        v.UpdatedAt.UnixMilli(),
		Version:          v.Version,
	}
}

func (d villaDocument) toAggregate() *domainvillas.Villa {
	return &domainvillas.Villa{
		ID:               domainvillas.VillaID(d.ID),
		LocationID:       domainvillas.LocationID(d.LocationID),
		Name:             d.Name,
		Description:      d.Description,
		GuestsLimit:      d.GuestsLimit,
		Bedrooms:         d.Bedrooms,
		Bathrooms:        d.Bathrooms,
		NightlyRateCents: d.NightlyRateCents,
		State:            domainvillas.VillaState(d.State),
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
}

type locationDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Region    string `bson:"region,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

type LocationRepository struct {
	col *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{col: db.Collection("locations")}
}

func (r *LocationRepository) ByID(ctx context.Context, id domainvillas.LocationID) (*domainvillas.Location, error) {
	var doc locationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvillas.ErrLocationNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *LocationRepository) Save(ctx context.Context, location *domainvillas.Location) error {
	doc := locationDocument{
		ID:        string(location.ID),
		Name:      location.Name,
		Region:    location.Region,
		CreatedAt: location.CreatedAt.UnixMilli(),
		UpdatedAt: location.UpdatedAt.UnixMilli(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *LocationRepository) All(ctx context.Context) ([]*domainvillas.Location, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainvillas.Location
	for cursor.Next(ctx) {
		var doc locationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (d locationDocument) toAggregate() *domainvillas.Location {
	return &domainvillas.Location{
		ID:        domainvillas.LocationID(d.ID),
		Name:      d.Name,
		Region:    d.Region,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
