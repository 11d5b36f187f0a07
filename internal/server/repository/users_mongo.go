package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// userDocument — представление пользователя в коллекции MongoDB.
type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoUsersRepository — хранилище пользователей в коллекции MongoDB.
//
// Уникальность email обеспечивает уникальный индекс (config.EnsureUserIndexes).
type MongoUsersRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoUsersRepository создаёт MongoUsersRepository поверх коллекции пользователей.
func NewMongoUsersRepository(coll *mongo.Collection, queryTimeout time.Duration) *MongoUsersRepository {
	return &MongoUsersRepository{coll: coll, timeout: queryTimeout}
}

// Create вставляет документ пользователя; _id генерируется при вставке.
func (r *MongoUsersRepository) Create(ctx context.Context, u *models.User) (string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := userDocument{
		ID:           bson.NewObjectID(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", serr.ErrDuplicateEmail
		}
		return "", serr.Storage(err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	return u.ID, nil
}

// GetByEmail возвращает пользователя вместе с хэшем пароля.
func (r *MongoUsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, mapFindErr(err)
	}
	return doc.toModel(), nil
}

// GetByID возвращает пользователя без хэша пароля (проекция исключает password_hash).
// id, не являющийся корректным ObjectID, даёт ErrUserNotFound.
func (r *MongoUsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, serr.ErrUserNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"password_hash": 0})

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		return nil, mapFindErr(err)
	}
	return doc.toModel(), nil
}

// Ping проверяет доступность кластера (health-check).
func (r *MongoUsersRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return serr.Storage(err)
	}
	return nil
}

func mapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return serr.ErrUserNotFound
	}
	return serr.Storage(err)
}
