package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// DogRepository stores domain.Dog documents as-is.
type DogRepository struct {
	col *mongo.Collection
}

func NewDogRepository(db *mongo.Database) *DogRepository {
	return &DogRepository{col: db.Collection(collectionDogs)}
}

func (r *DogRepository) Create(ctx context.Context, dog *domain.Dog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, dog); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDogExists
		}
		return fmt.Errorf("insert dog: %w", err)
	}
	return nil
}

func (r *DogRepository) GetByID(ctx context.Context, id string) (*domain.Dog, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_active": true})
}

func (r *DogRepository) FindByID(ctx context.Context, id string) (*domain.Dog, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *DogRepository) GetByName(ctx context.Context, name string) (*domain.Dog, error) {
	return r.findOne(ctx, bson.M{"name": name, "is_active": true})
}

func (r *DogRepository) findOne(ctx context.Context, filter bson.M) (*domain.Dog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Dog
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDogNotFound
		}
		return nil, fmt.Errorf("find dog: %w", err)
	}
	return &d, nil
}

func (r *DogRepository) Update(ctx context.Context, dog *domain.Dog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       dog.Name,
		"gender":     dog.Gender,
		"location":   dog.Location,
		"updated_at": dog.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": dog.ID, "is_active": true}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDogExists
		}
		return fmt.Errorf("update dog: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDogNotFound
	}
	return nil
}

func (r *DogRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return fmt.Errorf("deactivate dog: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDogNotFound
	}
	return nil
}
