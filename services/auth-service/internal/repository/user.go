package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// CreateUser inserts a new user. A name, email or access token that is
	// already taken yields a *DuplicateKeyError.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)

	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByAccessToken(ctx context.Context, token string) (*model.User, error)

	// RotateAccessToken replaces the access token of the user identified by
	// id, provided its password hash is still passwordHash. The password
	// hash itself is never written.
	RotateAccessToken(ctx context.Context, id, passwordHash, token string) (*model.User, error)
}

const userCollection = "users"

// Index names double as the way a duplicate key error is traced back to
// the offending field.
var uniqueUserFields = map[string]string{
	"name":         "users_name_unique",
	"email":        "users_email_unique",
	"access_token": "users_access_token_unique",
}

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := make([]mongo.IndexModel, 0, len(uniqueUserFields))
	for field, name := range uniqueUserFields {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(name),
		})
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: duplicateField(err)}
		}
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByAccessToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"access_token": token})
}

func (r *userMongoRepository) RotateAccessToken(
	ctx context.Context,
	id string,
	passwordHash string,
	token string,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "password_hash": passwordHash},
		bson.M{"$set": bson.M{
			"access_token": token,
			"updated_at":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "access_token"}
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// duplicateField maps a duplicate key error to the field whose unique index
// rejected the write.
func duplicateField(err error) string {
	msg := err.Error()
	for field, index := range uniqueUserFields {
		if strings.Contains(msg, index) {
			return field
		}
	}
	return "unknown"
}
