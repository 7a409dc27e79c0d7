package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/order-service/internal/core/domain"
)

const collectionOrderEvents = "order_events"

// EventRepository appends order events to the order_events audit collection.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionOrderEvents)}
}

func eventDoc(event domain.OrderEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"event_id":    event.ID,
		"type":        string(event.Type),
		"order_id":    event.OrderID,
		"user_id":     event.UserID,
		"status":      string(event.Status),
		"total_price": event.TotalPrice.String(),
		"item_count":  event.ItemCount,
		"actor_id":    event.ActorID,
		"occurred_at": event.OccurredAt.UTC(),
		"processed_at": processedAt.UTC(),
	}
	if event.PreviousStatus != "" {
		doc["previous_status"] = string(event.PreviousStatus)
	}
	return doc
}

// InsertEvent persists an order event to the audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, eventDoc(event, time.Now()))
	return err
}

// EnsureIndexes creates necessary indexes on the order_events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
