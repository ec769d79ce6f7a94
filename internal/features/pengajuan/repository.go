package pengajuan

import (
	"context"
	"errors"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListFilter struct {
	Statuses []Status
	UnitID   string
	Limit    int64
	Offset   int64
}

type SubmissionRepository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	// GetActiveByUnit returns the unit's most recently created submission.
	GetActiveByUnit(ctx context.Context, unitID string) (*Submission, error)
	// UpdateIfStatus replaces the stored submission only while it is still in
	// expected. A mismatch yields ErrConflict and leaves the document untouched.
	UpdateIfStatus(ctx context.Context, s *Submission, expected Status) error
	List(ctx context.Context, filter ListFilter) ([]Submission, int64, error)
	CountByStatus(ctx context.Context, statuses []Status) (map[Status]int64, error)
	EnsureIndexes(ctx context.Context) error
}

type SubmissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSubmissionRepository(mongodb *database.MongodbDB) SubmissionRepository {
	return &SubmissionRepositoryImpl{
		Collection: mongodb.DB.Collection("pengajuan_sk"),
	}
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, s *Submission) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("unit %s already has a submission in progress", s.UnitID)
	}
	return err
}

func (r *SubmissionRepositoryImpl) GetByID(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *SubmissionRepositoryImpl) GetActiveByUnit(ctx context.Context, unitID string) (*Submission, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.findOne(ctx, bson.M{"unit_id": unitID}, opts)
}

func (r *SubmissionRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*Submission, error) {
	var s Submission
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepositoryImpl) UpdateIfStatus(ctx context.Context, s *Submission, expected Status) error {
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": s.ID, "status": expected}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.Conflict("submission %s is no longer %s", s.ID.Hex(), expected)
	}
	return nil
}

func (r *SubmissionRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Submission, int64, error) {
	query := bson.M{}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.UnitID != "" {
		query["unit_id"] = filter.UnitID
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit).SetSkip(filter.Offset)
	}
	// rosters are only needed on the detail view
	opts.SetProjection(bson.M{"pengurus": 0})

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	list := []Submission{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *SubmissionRepositoryImpl) CountByStatus(ctx context.Context, statuses []Status) (map[Status]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$in": statuses}}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status Status `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[Status]int64, len(statuses))
	for _, st := range statuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *SubmissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "unit_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}}},
		// at most one open cycle per unit
		{
			Keys: bson.D{{Key: "unit_id", Value: 1}},
			Options: options.Index().
				SetName("unit_id_open_cycle").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": OpenStatuses()}}),
		},
	})
	return err
}
