package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store bundles one repository per collection behind a single backend.
type Store struct {
	Users      UserRepository
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	Orders     OrderRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// NewGORMStore builds a Store over a relational database.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Users:      NewGORMUserRepository(db),
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Carts:      NewGORMCartRepository(db),
		Orders:     NewGORMOrderRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMongoStore builds a Store over a MongoDB database.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Users:      NewMongoUserRepository(db),
		Products:   NewMongoProductRepository(db),
		Categories: NewMongoCategoryRepository(db),
		Carts:      NewMongoCartRepository(db),
		Orders:     NewMongoOrderRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
