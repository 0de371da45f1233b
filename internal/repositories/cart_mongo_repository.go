package repositories

import (
	"context"
	"fmt"
	"time"

	"cafe/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCartRepository is a MongoDB implementation of CartRepository.
// One document per (username, productId), guarded by a unique index.
type MongoCartRepository struct {
	coll     *mongo.Collection
	products *mongo.Collection
}

// NewMongoCartRepository creates a new instance of MongoCartRepository.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{
		coll:     db.Collection(cartsCollection),
		products: db.Collection(productsCollection),
	}
}

func (r *MongoCartRepository) join(ctx context.Context, items []models.CartItem) error {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := productsByID(ctx, r.products, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Product = products[items[i].ProductID]
	}
	return nil
}

func (r *MongoCartRepository) GetByUsername(ctx context.Context, username string) ([]models.CartItem, error) {
	cur, err := r.coll.Find(ctx, bson.M{"username": username}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for %s: %w", username, err)
	}
	items := []models.CartItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	if err := r.join(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoCartRepository) Get(ctx context.Context, username, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.coll.FindOne(ctx, bson.M{"username": username, "productId": productID}).Decode(&item)
	if err != nil {
		return nil, mongoErr(err, fmt.Sprintf("cart item %s/%s", username, productID))
	}
	items := []models.CartItem{item}
	if err := r.join(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *MongoCartRepository) AddQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	upsert := func() error {
		now := time.Now()
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"username": username, "productId": productID},
			bson.M{
				"$inc":         bson.M{"quantity": quantity},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"_id": uuid.New().String(), "createdAt": now},
			},
			options.Update().SetUpsert(true),
		)
		return err
	}
	err := upsert()
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent upsert inserted the line first; the retry increments it.
		err = upsert()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add product %s to cart: %w", productID, err)
	}
	return r.Get(ctx, username, productID)
}

func (r *MongoCartRepository) SetQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username, "productId": productID},
		bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("cart item %s/%s: %w", username, productID, ErrNotFound)
	}
	return r.Get(ctx, username, productID)
}

func (r *MongoCartRepository) Remove(ctx context.Context, username, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.coll.FindOneAndDelete(ctx, bson.M{"username": username, "productId": productID}).Decode(&item)
	if err != nil {
		return nil, mongoErr(err, fmt.Sprintf("cart item %s/%s", username, productID))
	}
	items := []models.CartItem{item}
	if err := r.join(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *MongoCartRepository) Clear(ctx context.Context, username string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"username": username})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart for %s: %w", username, err)
	}
	return res.DeletedCount, nil
}
