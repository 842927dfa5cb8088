package auth

import (
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"srms_backend/internal/shared"
)

func testService(secret string, expiration time.Duration) *Service {
	return &Service{
		config: &shared.Config{
			Security: shared.SecurityConfig{
				JWTSecret:     secret,
				JWTExpiration: expiration,
			},
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService("test-secret", time.Hour)

	token, err := s.IssueToken("student@example.com", shared.RoleStudent)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("IssueToken returned empty token")
	}

	claims, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("Email claim = %q, want student@example.com", claims.Email)
	}
	if claims.Role != shared.RoleStudent {
		t.Errorf("Role claim = %q, want %q", claims.Role, shared.RoleStudent)
	}
}

func TestParseTokenRejections(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		issuer := testService("secret-one", time.Hour)
		verifier := testService("secret-two", time.Hour)

		token, err := issuer.IssueToken("user@example.com", shared.RoleTeacher)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		_, err = verifier.ParseToken(token)
		if status.Code(err) != codes.Unauthenticated {
			t.Errorf("ParseToken with wrong secret: code = %v, want Unauthenticated", status.Code(err))
		}
	})

	t.Run("expired token", func(t *testing.T) {
		s := testService("test-secret", -time.Minute)

		token, err := s.IssueToken("user@example.com", shared.RoleAdmin)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		_, err = s.ParseToken(token)
		if status.Code(err) != codes.Unauthenticated {
			t.Errorf("ParseToken with expired token: code = %v, want Unauthenticated", status.Code(err))
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		s := testService("test-secret", time.Hour)
		_, err := s.ParseToken("not.a.token")
		if status.Code(err) != codes.Unauthenticated {
			t.Errorf("ParseToken with garbage: code = %v, want Unauthenticated", status.Code(err))
		}
	})
}

func TestClaimsContext(t *testing.T) {
	s := testService("test-secret", time.Hour)
	token, _ := s.IssueToken("user@example.com", shared.RoleStudent)
	claims, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	ctx := NewContext(t.Context(), claims)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("FromContext did not find claims")
	}
	if got.Email != "user@example.com" {
		t.Errorf("claims from context: Email = %q, want user@example.com", got.Email)
	}

	if _, ok := FromContext(t.Context()); ok {
		t.Error("FromContext on empty context returned claims")
	}
}
