package pengurus

import (
	"context"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomJabatanRepository interface {
	Create(ctx context.Context, cj *CustomJabatan) error
	ListByUnit(ctx context.Context, unitID string) ([]CustomJabatan, error)
	EnsureIndexes(ctx context.Context) error
}

type CustomJabatanRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCustomJabatanRepository(mongodb *database.MongodbDB) CustomJabatanRepository {
	return &CustomJabatanRepositoryImpl{
		Collection: mongodb.DB.Collection("custom_jabatan"),
	}
}

func (r *CustomJabatanRepositoryImpl) Create(ctx context.Context, cj *CustomJabatan) error {
	_, err := r.Collection.InsertOne(ctx, cj)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("jabatan %q already exists in %s", cj.NamaJabatan, cj.JenisStruktur)
	}
	return err
}

func (r *CustomJabatanRepositoryImpl) ListByUnit(ctx context.Context, unitID string) ([]CustomJabatan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"unit_id": unitID}, opts)
	if err != nil {
		return nil, err
	}
	list := []CustomJabatan{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CustomJabatanRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "unit_id", Value: 1}, {Key: "jenis_struktur", Value: 1}, {Key: "nama_jabatan", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
