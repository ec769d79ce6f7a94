package notification

import (
	"context"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, aud Audience, limit, offset int64) ([]Notification, int64, error)
	CountUnread(ctx context.Context, aud Audience, actorID string) (int64, error)
	MarkRead(ctx context.Context, id string, aud Audience, actorID string) error
	MarkAllRead(ctx context.Context, aud Audience, actorID string) error
	EnsureIndexes(ctx context.Context) error
}

type NotificationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewNotificationRepository(mongodb *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		Collection: mongodb.DB.Collection("notifications"),
	}
}

func audienceFilter(aud Audience) bson.M {
	if aud.UnitID != "" {
		return bson.M{"recipient_unit_id": aud.UnitID}
	}
	return bson.M{"recipient_role": aud.Role}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *Notification) error {
	if n.ReadBy == nil {
		n.ReadBy = []string{}
	}
	res, err := r.Collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (r *NotificationRepositoryImpl) List(ctx context.Context, aud Audience, limit, offset int64) ([]Notification, int64, error) {
	filter := audienceFilter(aud)

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit).SetSkip(offset)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	notifications := []Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, aud Audience, actorID string) (int64, error) {
	filter := audienceFilter(aud)
	filter["read_by"] = bson.M{"$ne": actorID}
	return r.Collection.CountDocuments(ctx, filter)
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id string, aud Audience, actorID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.Validation("invalid notification id")
	}
	filter := audienceFilter(aud)
	filter["_id"] = oid

	res, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"read_by": actorID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("notification %s", id)
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, aud Audience, actorID string) error {
	filter := audienceFilter(aud)
	filter["read_by"] = bson.M{"$ne": actorID}
	_, err := r.Collection.UpdateMany(ctx, filter, bson.M{"$addToSet": bson.M{"read_by": actorID}})
	return err
}

func (r *NotificationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_unit_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_role", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
