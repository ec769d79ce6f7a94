package administrasi

import (
	"context"
	"errors"
	"time"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/database"
	"sk-pengajuan/internal/features/approval"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordRepository interface {
	// Upsert writes the payload for (unit, type). The approval track is only
	// set when the record is first created.
	Upsert(ctx context.Context, unitID string, fields Fields, at time.Time) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	GetByUnitAndType(ctx context.Context, unitID string, t RecordType) (*Record, error)
	ListByUnit(ctx context.Context, unitID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	// UpdateTrack replaces the track only while it is still in expected.
	UpdateTrack(ctx context.Context, id primitive.ObjectID, expected approval.Status, track approval.Track, at time.Time) error
	EnsureIndexes(ctx context.Context) error
}

type RecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRecordRepository(mongodb *database.MongodbDB) RecordRepository {
	return &RecordRepositoryImpl{
		Collection: mongodb.DB.Collection("administrasi_records"),
	}
}

func (r *RecordRepositoryImpl) Upsert(ctx context.Context, unitID string, fields Fields, at time.Time) (*Record, error) {
	t := fields.RecordType()
	filter := bson.M{"unit_id": unitID, "type": t}
	update := bson.M{
		"$set": bson.M{
			string(t):    fields,
			"updated_at": at,
		},
		"$setOnInsert": bson.M{
			"approval":   approval.NewTrack(),
			"created_at": at,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rec Record
	if err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepositoryImpl) GetByID(ctx context.Context, id string) (*Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RecordRepositoryImpl) GetByUnitAndType(ctx context.Context, unitID string, t RecordType) (*Record, error) {
	return r.findOne(ctx, bson.M{"unit_id": unitID, "type": t})
}

func (r *RecordRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*Record, error) {
	var rec Record
	err := r.Collection.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepositoryImpl) ListByUnit(ctx context.Context, unitID string) ([]Record, error) {
	return r.find(ctx, bson.M{"unit_id": unitID})
}

func (r *RecordRepositoryImpl) ListAll(ctx context.Context) ([]Record, error) {
	return r.find(ctx, bson.M{})
}

func (r *RecordRepositoryImpl) find(ctx context.Context, filter bson.M) ([]Record, error) {
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	records := []Record{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepositoryImpl) UpdateTrack(ctx context.Context, id primitive.ObjectID, expected approval.Status, track approval.Track, at time.Time) error {
	filter := bson.M{"_id": id, "approval.okk_status": expected}
	update := bson.M{"$set": bson.M{"approval": track, "updated_at": at}}

	res, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.Conflict("record %s is no longer %s", id.Hex(), expected)
	}
	return nil
}

func (r *RecordRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "unit_id", Value: 1}, {Key: "type", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
