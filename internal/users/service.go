package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// Service implements the user directory: signup and role-filtered listing.
type Service struct {
	config   *shared.Config
	usersCol *mongo.Collection
}

// NewService creates a new users Service instance
func NewService(db *mongo.Database, config *shared.Config) *Service {
	return &Service{
		config:   config,
		usersCol: db.Collection("users"),
	}
}

// Signup creates a new user account. Duplicate emails and unknown roles are
// rejected. The returned record never includes the password hash.
func (s *Service) Signup(ctx context.Context, name, email, password, role string) (*shared.User, error) {
	if !shared.IsValidRole(role) {
		return nil, status.Error(codes.InvalidArgument, "Invalid role selected")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Friendly pre-check; the unique index on email is the real guard.
	count, err := shared.CountDocumentsWithTimeout(ctx, s.usersCol, bson.M{"email": email}, 10*time.Second)
	if err != nil {
		return nil, status.Error(codes.Internal, "database error")
	}
	if count > 0 {
		return nil, status.Error(codes.AlreadyExists, "Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Security.BCryptCost)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to process password")
	}

	user := shared.User{
		ID:           shared.GenerateUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if _, err := s.usersCol.InsertOne(queryCtx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, status.Error(codes.AlreadyExists, "Email already registered")
		}
		return nil, status.Error(codes.Internal, "failed to create user")
	}

	return &user, nil
}

// ListByRole returns all users with the given role, password stripped.
func (s *Service) ListByRole(ctx context.Context, role string) ([]shared.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.usersCol.Find(queryCtx, bson.M{"role": role}, findOptions)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to list users")
	}
	defer cursor.Close(queryCtx)

	users := []shared.User{}
	if err := cursor.All(queryCtx, &users); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode users")
	}

	return users, nil
}
