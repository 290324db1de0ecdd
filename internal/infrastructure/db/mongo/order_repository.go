package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/core/ports"
)

const collectionOrders = "orders"

// OrderRepository implements ports.OrderRepository using MongoDB.
type OrderRepository struct {
	col        *mongo.Collection
	buyerNames func(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]string, error)
	log        zerolog.Logger
}

func NewOrderRepository(db *mongo.Database, log zerolog.Logger) *OrderRepository {
	return &OrderRepository{
		col:        db.Collection(collectionOrders),
		buyerNames: NewUserRepository(db).buyerNames,
		log:        log,
	}
}

type mongoProduct struct {
	ProductID primitive.ObjectID   `bson:"_id"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
}

type mongoPayment struct {
	Success bool   `bson:"success"`
	Details bson.M `bson:"details,omitempty"`
}

type mongoStatusEntry struct {
	Status string    `bson:"status"`
	At     time.Time `bson:"at"`
	By     string    `bson:"by,omitempty"`
}

type mongoOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Status        string             `bson:"status"`
	Buyer         primitive.ObjectID `bson:"buyer"`
	Products      []mongoProduct     `bson:"products"`
	Payment       mongoPayment       `bson:"payment"`
	CreateAt      time.Time          `bson:"createAt"`
	StatusHistory []mongoStatusEntry `bson:"statusHistory,omitempty"`
	// BuyerName is only populated by the $lookup stage on reads.
	BuyerName string `bson:"buyerName,omitempty"`
}

func toMongoOrder(o *domain.Order) (mongoOrder, error) {
	buyer, err := primitive.ObjectIDFromHex(o.Buyer.ID)
	if err != nil {
		return mongoOrder{}, fmt.Errorf("%w: malformed buyer id %q", domain.ErrValidation, o.Buyer.ID)
	}

	products := make([]mongoProduct, 0, len(o.Products))
	for _, p := range o.Products {
		pid, err := primitive.ObjectIDFromHex(p.ProductID)
		if err != nil {
			return mongoOrder{}, fmt.Errorf("%w: malformed product id %q", domain.ErrValidation, p.ProductID)
		}
		price, err := primitive.ParseDecimal128(p.Price.String())
		if err != nil {
			return mongoOrder{}, fmt.Errorf("%w: price %s: %v", domain.ErrValidation, p.Price, err)
		}
		products = append(products, mongoProduct{ProductID: pid, Name: p.Name, Price: price, Quantity: p.Quantity})
	}

	history := make([]mongoStatusEntry, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, mongoStatusEntry{Status: string(h.Status), At: h.At.UTC(), By: h.By})
	}

	return mongoOrder{
		Status:        string(o.Status),
		Buyer:         buyer,
		Products:      products,
		Payment:       mongoPayment{Success: o.Payment.Success, Details: o.Payment.Details},
		CreateAt:      o.CreateAt.UTC(),
		StatusHistory: history,
	}, nil
}

func (m mongoOrder) toDomain() *domain.Order {
	products := make([]domain.ProductSnapshot, 0, len(m.Products))
	for _, p := range m.Products {
		price, err := decimal.NewFromString(p.Price.String())
		if err != nil {
			price = decimal.Zero
		}
		products = append(products, domain.ProductSnapshot{
			ProductID: p.ProductID.Hex(),
			Name:      p.Name,
			Price:     price,
			Quantity:  p.Quantity,
		})
	}

	history := make([]domain.StatusHistoryEntry, 0, len(m.StatusHistory))
	for _, h := range m.StatusHistory {
		history = append(history, domain.StatusHistoryEntry{Status: domain.OrderStatus(h.Status), At: h.At.UTC(), By: h.By})
	}

	return &domain.Order{
		ID:            m.ID.Hex(),
		Status:        domain.OrderStatus(m.Status),
		Buyer:         domain.BuyerRef{ID: m.Buyer.Hex(), Name: m.BuyerName},
		Products:      products,
		Payment:       domain.Payment{Success: m.Payment.Success, Details: m.Payment.Details},
		CreateAt:      m.CreateAt.UTC(),
		StatusHistory: history,
	}
}

// Create inserts a new order document and returns it with its id and buyer name.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoOrder(order)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, storageErr("insert order", err)
	}
	return r.withBuyerName(ctx, doc), nil
}

// FindByID retrieves a single order. Malformed ids are reported as not found.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	orders, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return orders[0], nil
}

// List returns matching orders sorted by createAt descending, ties broken by id.
func (r *OrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, error) {
	match := bson.M{}
	if filter.BuyerID != "" {
		buyer, err := primitive.ObjectIDFromHex(filter.BuyerID)
		if err != nil {
			return []*domain.Order{}, nil
		}
		match["buyer"] = buyer
	}
	return r.aggregate(ctx, match)
}

// UpdateStatus atomically sets the status and appends a history entry, but
// only while the stored status still equals from. Buyer and products are
// never part of the update.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, status domain.OrderStatus, at time.Time, by string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"status": string(status)},
		"$push": bson.M{"statusHistory": mongoStatusEntry{
			Status: string(status),
			At:     at.UTC(),
			By:     by,
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoOrder
	filter := bson.M{"_id": oid, "status": string(from)}
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, r.missOrConflict(ctx, oid)
		}
		return nil, storageErr("update order status", err)
	}
	return r.withBuyerName(ctx, doc), nil
}

// missOrConflict tells a vanished order apart from one whose status moved.
func (r *OrderRepository) missOrConflict(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return storageErr("count order", err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return domain.ErrStatusConflict
}

// aggregate runs the read pipeline: match, newest first, then join the
// buyer's name from the users collection.
func (r *OrderRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "buyer",
			"foreignField": "_id",
			"as":           "buyerDoc",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"buyerName": bson.M{"$arrayElemAt": bson.A{"$buyerDoc.name", 0}},
		}}},
		{{Key: "$project", Value: bson.M{"buyerDoc": 0}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("decode orders", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

// withBuyerName decorates a committed write with the buyer's name. The write
// already happened, so a failed lookup only costs the name.
func (r *OrderRepository) withBuyerName(ctx context.Context, doc mongoOrder) *domain.Order {
	names, err := r.buyerNames(ctx, []primitive.ObjectID{doc.Buyer})
	if err != nil {
		r.log.Warn().Err(err).Str("order_id", doc.ID.Hex()).Msg("buyer name lookup failed")
		return doc.toDomain()
	}
	doc.BuyerName = names[doc.Buyer]
	return doc.toDomain()
}

// EnsureIndexes creates the indexes backing buyer listings and the global
// newest-first listing.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "createAt", Value: -1}}},
		{Keys: bson.D{{Key: "createAt", Value: -1}, {Key: "_id", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
