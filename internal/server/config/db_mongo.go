package config

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// OpenMongo подключается к MongoDB, проверяет доступность (Ping)
// и создаёт уникальный индекс по email в коллекции пользователей.
//
// Возвращает клиента (его отключает cmd/server) и коллекцию пользователей.
func OpenMongo(ctx context.Context, db DBConfig, log *zap.Logger) (*mongo.Client, *mongo.Collection, error) {
	opts := options.Client().
		ApplyURI(db.MongoURI()).
		SetTimeout(db.QueryTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(db.Name).Collection(db.Collection)
	if err := EnsureUserIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info("connected to mongo",
		zap.String("database", db.Name),
		zap.String("collection", db.Collection),
	)
	return client, coll, nil
}

// EnsureUserIndexes создаёт уникальный индекс по email.
// Уникальность email гарантирует сама БД, а не код приложения.
func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}
