package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
)

// ScheduleRepository persists blocked-date records. The collection is the
// system of record; consumers rebuild their whole snapshot from All after
// every successful mutation.
type ScheduleRepository struct {
	col *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	col := db.Collection("blocked_dates")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ScheduleRepository{col: col}
}

func (r *ScheduleRepository) ByID(ctx context.Context, id domainschedule.RecordID) (domainschedule.BlockedDateRecord, error) {
	var doc blockedDateDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainschedule.BlockedDateRecord{}, domainschedule.ErrRecordNotFound
		}
		return domainschedule.BlockedDateRecord{}, err
	}
	return doc.toRecord()
}

func (r *ScheduleRepository) Save(ctx context.Context, record domainschedule.BlockedDateRecord) error {
	doc := newBlockedDateDocument(record)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *ScheduleRepository) Delete(ctx context.Context, id domainschedule.RecordID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainschedule.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleRepository) All(ctx context.Context) ([]domainschedule.BlockedDateRecord, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []domainschedule.BlockedDateRecord
	for cursor.Next(ctx) {
		var doc blockedDateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rec, err := doc.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cursor.Err()
}

type blockedDateDocument struct {
	ID         string    `bson:"_id"`
	Scope      int       `bson:"scope"`
	LocationID string    `bson:"location_id,omitempty"`
	VillaID    string    `bson:"villa_id,omitempty"`
	StartDate  string    `bson:"start_date"`
	EndDate    string    `bson:"end_date"`
	Reason     string    `bson:"reason"`
	Color      string    `bson:"color,omitempty"`
	IsBlocked  bool      `bson:"is_blocked"`
	CreatedAt  time.Time `bson:"created_at"`
}

func newBlockedDateDocument(rec domainschedule.BlockedDateRecord) blockedDateDocument {
	return blockedDateDocument{
		ID:         string(rec.ID),
		Scope:      int(rec.Scope),
		LocationID: rec.LocationID,
		VillaID:    rec.VillaID,
		StartDate:  rec.Range.Start.String(),
		EndDate:    rec.Range.End.String(),
		Reason:     rec.Reason,
		Color:      rec.Color,
		IsBlocked:  rec.IsBlocked,
		CreatedAt:  rec.CreatedAt,
	}
}

func (d blockedDateDocument) toRecord() (domainschedule.BlockedDateRecord, error) {
	start, err := dateonly.Parse(d.StartDate)
	if err != nil {
		return domainschedule.BlockedDateRecord{}, err
	}
	end, err := dateonly.Parse(d.EndDate)
	if err != nil {
		return domainschedule.BlockedDateRecord{}, err
	}
	return domainschedule.BlockedDateRecord{
		ID:         domainschedule.RecordID(d.ID),
		Scope:      domainschedule.Scope(d.Scope),
		LocationID: d.LocationID,
		VillaID:    d.VillaID,
		Range:      dateonly.Range{Start: start, End: end},
		Reason:     d.Reason,
		Color:      d.Color,
		IsBlocked:  d.IsBlocked,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}
