package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

// Service implements credential and session handling: bcrypt password
// verification and HS256 bearer tokens carrying email and role claims.
// Tokens carry no revocation mechanism; logout is a well-formedness check.
type Service struct {
	config   *shared.Config
	usersCol *mongo.Collection
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates a new auth Service instance
func NewService(db *mongo.Database, config *shared.Config) *Service {
	return &Service{
		config:   config,
		usersCol: db.Collection("users"),
	}
}

// Login authenticates a user by email and password and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *shared.User, error) {
	if email == "" || password == "" {
		return "", nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	var user shared.User
	err := shared.FindOneWithTimeout(ctx, s.usersCol, bson.M{"email": email}, &user, 5*time.Second)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, status.Error(codes.NotFound, "User not found")
		}
		return "", nil, status.Error(codes.Internal, "database error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, status.Error(codes.Unauthenticated, "Invalid password")
	}

	token, err := s.IssueToken(user.Email, user.Role)
	if err != nil {
		return "", nil, status.Error(codes.Internal, "failed to generate token")
	}

	return token, &user, nil
}

// Profile loads the user behind a set of validated claims, with the
// password hash stripped by the model's JSON encoding.
func (s *Service) Profile(ctx context.Context, claims *Claims) (*shared.User, error) {
	var user shared.User
	err := shared.FindOneWithTimeout(ctx, s.usersCol, bson.M{"email": claims.Email}, &user, 5*time.Second)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "User not found")
		}
		return nil, status.Error(codes.Internal, "database error")
	}

	return &user, nil
}

// IssueToken creates a signed JWT for the given identity and role.
func (s *Service) IssueToken(email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID (jti) so tokens differ even at identical timestamps
			ID:        shared.GenerateID("jti"),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Security.JWTExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "student-records-system",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Security.JWTSecret))
}

// ParseToken validates the JWT signature and expiry and extracts claims.
// Any failure surfaces as Unauthenticated.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Security.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, status.Error(codes.Unauthenticated, "Invalid or expired token")
	}

	return claims, nil
}

// ============================================================================
// Context Helpers
// ============================================================================

type contextKey struct{}

// NewContext returns a context carrying validated claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext extracts claims placed by the auth middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
