package services

import (
	"context"
	"fmt"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// UserService encapsulates account registration and authentication.
type UserService struct {
	repo userStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo userStore) *UserService {
	return &UserService{repo: repo}
}

// RegisterUser hashes the password and creates the account. The raw password
// arrives in HashedPassword and is replaced before storage.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Email == "" || user.HashedPassword == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, user.Role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.HashedPassword = string(hashed)

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to register user")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logger.Log.WithField("user_id", created.ID.Hex()).Info("User registered")
	return created, nil
}

// AuthenticateUser verifies credentials and returns the account.
func (s *UserService) AuthenticateUser(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	return user, nil
}

// GetUser fetches an account by hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrInvalidInput)
	}
	return s.repo.GetUserByID(ctx, objID)
}

// GetUsersByRole lists accounts holding a role.
func (s *UserService) GetUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.repo.GetUsersByRole(ctx, role)
}

// GetAllUsers lists every account, for the admin dashboard.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAllUsers(ctx)
}
