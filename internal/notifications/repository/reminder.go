package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayindia/pkg/config"
	"stayindia/pkg/model"
)

const (
	CollectionName = "Reminder_tasks"
)

// ReminderRepository stores durable reminder tasks. Tasks outlive the
// process; the worker polls FindDue instead of keeping in-memory timers.
type ReminderRepository interface {
	Create(ctx context.Context, task *model.ReminderTask) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]*model.ReminderTask, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type mongoReminderRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReminderRepository(cfg *config.Config) ReminderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReminderRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoReminderRepository) Create(ctx context.Context, task *model.ReminderTask) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	task.Status = model.ReminderStatusPending
	task.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create reminder task: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*model.ReminderTask, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":  model.ReminderStatusPending,
		"fire_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "fire_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminder tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*model.ReminderTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode reminder tasks: %w", err)
	}

	return tasks, nil
}

func (r *mongoReminderRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return r.setStatus(ctx, id, bson.M{
		"status":  model.ReminderStatusSent,
		"sent_at": sentAt,
	})
}

func (r *mongoReminderRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.setStatus(ctx, id, bson.M{
		"status":     model.ReminderStatusFailed,
		"last_error": reason,
	})
}

func (r *mongoReminderRepository) setStatus(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid reminder task ID %q: %w", id, err)
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update reminder task status: %w", err)
	}
	return nil
}
