package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// TaskRepository stores domain.Task documents as-is. All writes filter on
// is_active so a closed or cancelled task is never modified again.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_active": true})
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TaskRepository) findOne(ctx context.Context, filter bson.M) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	if err := r.col.FindOne(ctx, filter).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.updateActive(ctx, task.ID, bson.M{
		"description": task.Description,
		"created_for": task.CreatedFor,
		"updated_at":  task.UpdatedAt,
	})
}

func (r *TaskRepository) Close(ctx context.Context, id, closedBy string, at time.Time) error {
	return r.updateActive(ctx, id, bson.M{
		"is_active":  false,
		"closed_by":  closedBy,
		"closed_at":  at,
		"updated_at": at,
	})
}

func (r *TaskRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	return r.updateActive(ctx, id, bson.M{
		"is_active":  false,
		"updated_at": at,
	})
}

func (r *TaskRepository) updateActive(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "is_active": true}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// CancelForDog deactivates the active tasks of a dog one by one, each write
// conditional on is_active, and returns only the ids it actually changed. A
// task closed concurrently is left alone and not reported.
func (r *TaskRepository) CancelForDog(ctx context.Context, dogID string, at time.Time) ([]string, error) {
	active, err := r.find(ctx, bson.M{"created_for": dogID, "is_active": true}, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(active))
	for _, t := range active {
		err := r.updateActive(ctx, t.ID, bson.M{"is_active": false, "updated_at": at})
		switch {
		case err == nil:
			ids = append(ids, t.ID)
		case errors.Is(err, domain.ErrTaskNotFound):
		default:
			return nil, fmt.Errorf("cancel tasks for dog: %w", err)
		}
	}
	return ids, nil
}

func (r *TaskRepository) ListActiveForDog(ctx context.Context, dogID string) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"created_for": dogID, "is_active": true}, nil)
}

func (r *TaskRepository) ListActive(ctx context.Context) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"is_active": true}, nil)
}

func (r *TaskRepository) ListClosed(ctx context.Context, closedBy string) ([]*domain.Task, error) {
	filter := bson.M{"is_active": false, "closed_by": bson.M{"$exists": true, "$ne": ""}}
	if closedBy != "" {
		filter["closed_by"] = closedBy
	}
	return r.find(ctx, filter, bson.D{{Key: "closed_at", Value: -1}})
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if sort == nil {
		sort = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []*domain.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}
