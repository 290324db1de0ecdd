package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

const collectionProducts = "products"

// ProductRepository implements ports.ProductCatalog using MongoDB. The
// catalog is owned by another service; this side only reads it.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type mongoCatalogProduct struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Price bson.RawValue      `bson:"price"`
}

// FindByIDs returns the products that exist, keyed by hex id. Malformed and
// unknown ids are simply absent from the result.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	found := make(map[string]*domain.Product, len(oids))
	if len(oids) == 0 {
		return found, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "price": 1})
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, storageErr("find products", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc mongoCatalogProduct
		if err := cur.Decode(&doc); err != nil {
			return nil, storageErr("decode product", err)
		}
		price, err := priceFromRaw(doc.Price)
		if err != nil {
			return nil, storageErr("decode product price", err)
		}
		found[doc.ID.Hex()] = &domain.Product{ID: doc.ID.Hex(), Name: doc.Name, Price: price}
	}
	if err := cur.Err(); err != nil {
		return nil, storageErr("iterate products", err)
	}
	return found, nil
}

// priceFromRaw accepts the numeric encodings the catalog has used over time.
func priceFromRaw(v bson.RawValue) (decimal.Decimal, error) {
	switch v.Type {
	case bsontype.Double:
		return decimal.NewFromFloat(v.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(v.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(v.Int64()), nil
	case bsontype.Decimal128:
		return decimal.NewFromString(v.Decimal128().String())
	case bsontype.String:
		return decimal.NewFromString(v.StringValue())
	default:
		return decimal.Zero, fmt.Errorf("unsupported price type %s", v.Type)
	}
}
