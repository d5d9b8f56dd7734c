package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/auth-api/shared/security"
	"github.com/vasapolrittideah/auth-api/shared/validator"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*RegisterResult, error)
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Authenticate resolves an access token to its user. Tokens do not
	// expire; a token stays valid until the next login replaces it.
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string `json:"name"     validate:"required,min=2,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterResult struct {
	UserID      string
	AccessToken string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID      string
	AccessToken string
	Name        string
}

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError lists the registration fields that were rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

var duplicateMessages = map[string]string{
	"name":  "name is already taken",
	"email": "email is already registered",
}

// tokenAttempts bounds how often a fresh token is drawn after colliding
// with one already stored.
const tokenAttempts = 2

type authUsecase struct {
	userRepo   repository.UserRepository
	validator  *validator.Validator
	issueToken func() (string, error)
}

func NewAuthUsecase(userRepo repository.UserRepository, v *validator.Validator) AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		validator:  v,
		issueToken: security.IssueToken,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	fields, err := u.validator.Struct(params)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *model.User
	for attempt := 1; ; attempt++ {
		accessToken, err := u.issueToken()
		if err != nil {
			return nil, fmt.Errorf("issue access token: %w", err)
		}

		user, err = u.userRepo.CreateUser(ctx, &model.User{
			Name:         params.Name,
			Email:        params.Email,
			PasswordHash: passwordHash,
			AccessToken:  accessToken,
		})
		if err == nil {
			break
		}

		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			if dup.Field == "access_token" && attempt < tokenAttempts {
				continue
			}
			if msg, ok := duplicateMessages[dup.Field]; ok {
				return nil, &ValidationError{Fields: map[string]string{dup.Field: msg}}
			}
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	return &RegisterResult{
		UserID:      user.ID.Hex(),
		AccessToken: user.AccessToken,
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	if params.Email == "" || params.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	// The rotation only applies while the stored hash is the one just
	// verified, so a concurrent password change cannot be bypassed.
	var updated *model.User
	for attempt := 1; ; attempt++ {
		accessToken, err := u.issueToken()
		if err != nil {
			return nil, fmt.Errorf("issue access token: %w", err)
		}

		updated, err = u.userRepo.RotateAccessToken(ctx, user.ID.Hex(), user.PasswordHash, accessToken)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) && dup.Field == "access_token" && attempt < tokenAttempts {
			continue
		}

		return nil, fmt.Errorf("rotate access token: %w", err)
	}

	return &LoginResult{
		UserID:      updated.ID.Hex(),
		AccessToken: updated.AccessToken,
		Name:        updated.Name,
	}, nil
}

func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	user, err := u.userRepo.GetUserByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("get user by access token: %w", err)
	}

	return user, nil
}
