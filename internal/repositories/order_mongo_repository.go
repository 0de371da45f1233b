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

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
// Line items are embedded in the order document.
type MongoOrderRepository struct {
	coll     *mongo.Collection
	products *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		coll:     db.Collection(ordersCollection),
		products: db.Collection(productsCollection),
	}
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	if err := r.join(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) join(ctx context.Context, orders []models.Order) error {
	var ids []string
	for _, o := range orders {
		for _, it := range o.Items {
			ids = append(ids, it.ProductID)
		}
	}
	products, err := productsByID(ctx, r.products, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].OrderID = orders[i].ID
			orders[i].Items[j].Product = products[orders[i].Items[j].ProductID]
		}
	}
	return nil
}

func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoOrderRepository) GetByUsername(ctx context.Context, username string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"username": username})
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, mongoErr(err, "order with ID "+id)
	}
	orders := []models.Order{order}
	if err := r.join(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return mongoErr(err, "failed to create order")
	}
	return nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check order %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrConflict)
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoOrderRepository) Summarize(ctx context.Context, status models.OrderStatus, from, to time.Time) (OrderSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    status,
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total"},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return OrderSummary{}, fmt.Errorf("failed to summarize %s orders: %w", status, err)
	}
	var rows []struct {
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return OrderSummary{}, fmt.Errorf("failed to decode order summary: %w", err)
	}
	if len(rows) == 0 {
		return OrderSummary{}, nil
	}
	return OrderSummary{Count: rows[0].Count, Revenue: rows[0].Revenue}, nil
}
