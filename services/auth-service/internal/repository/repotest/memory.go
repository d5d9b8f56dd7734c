// Package repotest provides an in-memory UserRepository for tests. It keeps
// the same uniqueness rules as the MongoDB indexes.
package repotest

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/repository"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[bson.ObjectID]model.User

	// Err, when set, is returned by every call.
	Err error
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[bson.ObjectID]model.User)}
}

func (r *UserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	for _, existing := range r.users {
		switch {
		case existing.Name == user.Name:
			return nil, &repository.DuplicateKeyError{Field: "name"}
		case existing.Email == user.Email:
			return nil, &repository.DuplicateKeyError{Field: "email"}
		case existing.AccessToken == user.AccessToken:
			return nil, &repository.DuplicateKeyError{Field: "access_token"}
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user

	return user, nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *UserRepository) GetUserByAccessToken(_ context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(u model.User) bool { return u.AccessToken == token })
}

func (r *UserRepository) RotateAccessToken(_ context.Context, id, passwordHash, token string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	user, ok := r.users[objectID]
	if !ok || user.PasswordHash != passwordHash {
		return nil, repository.ErrNotFound
	}
	for otherID, other := range r.users {
		if otherID != objectID && other.AccessToken == token {
			return nil, &repository.DuplicateKeyError{Field: "access_token"}
		}
	}

	user.AccessToken = token
	user.UpdatedAt = time.Now()
	r.users[objectID] = user

	return &user, nil
}

// SetPasswordHash overwrites a stored hash, simulating a password change
// that happens between a login's verification and its token rotation.
func (r *UserRepository) SetPasswordHash(id bson.ObjectID, passwordHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.users[id]
	user.PasswordHash = passwordHash
	r.users[id] = user
}

// Users returns a snapshot of every stored user.
func (r *UserRepository) Users() []model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users
}

func (r *UserRepository) find(match func(model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}
