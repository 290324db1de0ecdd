package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopfront/storefront-api/internal/core/ports"
)

const collectionStatusEvents = "order_status_events"

// StatusEventRepository implements ports.StatusEventRepository using MongoDB.
type StatusEventRepository struct {
	col *mongo.Collection
}

func NewStatusEventRepository(db *mongo.Database) *StatusEventRepository {
	return &StatusEventRepository{col: db.Collection(collectionStatusEvents)}
}

// InsertStatusEvent persists one status change to the audit collection.
func (r *StatusEventRepository) InsertStatusEvent(ctx context.Context, event ports.StatusChangeEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"orderId":     event.OrderID,
		"from":        string(event.From),
		"to":          string(event.To),
		"actorId":     event.ActorID,
		"at":          event.At.UTC(),
		"processedAt": time.Now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return storageErr("insert status event", err)
	}
	return nil
}

func (r *StatusEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "at", Value: 1}},
	})
	return err
}
