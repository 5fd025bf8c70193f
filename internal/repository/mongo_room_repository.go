package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

const roomCollection = "rooms"

type mongoRoomRepository struct {
	collection *mongo.Collection
}

// NewMongoRoomRepository creates a MongoDB-backed room repository
func NewMongoRoomRepository(db *mongo.Database) RoomRepository {
	return &mongoRoomRepository{
		collection: db.Collection(roomCollection),
	}
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.room.create")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", room.ID))

	if _, err := r.collection.InsertOne(ctx, room); err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

func (r *mongoRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.room.get_by_id")
	defer span.End()

	var room domain.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) ListAll(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.room.list_all")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := make([]*domain.Room, 0)
	if err := cursor.All(ctx, &rooms); err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.room.set_availability")
	defer span.End()
	span.SetAttributes(
		attribute.String("room.id", id),
		attribute.Bool("room.available", available),
	)

	update := bson.M{"$set": bson.M{
		"isAvailable": available,
		"updatedAt":   time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to update room availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.room.delete")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", id))

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
