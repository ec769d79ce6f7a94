package organization

import (
	"context"
	"errors"

	"sk-pengajuan/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UnitRepository interface {
	Upsert(ctx context.Context, unit *Unit) error
	FindByID(ctx context.Context, id string) (*Unit, error)
	FindByIDs(ctx context.Context, ids []string) ([]Unit, error)
	List(ctx context.Context) ([]Unit, error)
}

type UnitRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUnitRepository(mongodb *database.MongodbDB) UnitRepository {
	return &UnitRepositoryImpl{
		Collection: mongodb.DB.Collection("organization_units"),
	}
}

func (r *UnitRepositoryImpl) Upsert(ctx context.Context, unit *Unit) error {
	filter := bson.M{"_id": unit.ID}
	update := bson.M{
		"$set": bson.M{
			"tipe_organisasi": unit.Type,
			"email":           unit.Email,
			"provinsi":        unit.Provinsi,
			"kabupaten_kota":  unit.KabupatenKota,
			"kecamatan":       unit.Kecamatan,
			"updated_at":      unit.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": unit.CreatedAt},
	}
	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *UnitRepositoryImpl) FindByID(ctx context.Context, id string) (*Unit, error) {
	var unit Unit
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&unit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *UnitRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]Unit, error) {
	if len(ids) == 0 {
		return []Unit{}, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var units []Unit
	if err = cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

func (r *UnitRepositoryImpl) List(ctx context.Context) ([]Unit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "provinsi", Value: 1}, {Key: "kabupaten_kota", Value: 1}, {Key: "kecamatan", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	units := []Unit{}
	if err = cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}
