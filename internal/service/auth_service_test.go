package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository/memory"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		StudentRepo: store.Students(),
		AdminRepo:   store.Admins(),
	})
	return svc, store
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestLoginStudent(t *testing.T) {
	svc, store := newAuthFixture(t)
	ctx := context.Background()

	if err := store.Students().Create(ctx, &domain.Student{
		ID:           "student-1",
		NISN:         "0051234567",
		Name:         "Adi",
		PasswordHash: mustHash(t, "rahasia"),
		ClassID:      "class-1",
		Status:       domain.StudentStatusActive,
	}); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	if err := store.Students().Create(ctx, &domain.Student{
		ID:           "student-2",
		NISN:         "0059876543",
		Name:         "Budi",
		PasswordHash: mustHash(t, "rahasia"),
		ClassID:      "class-1",
		Status:       domain.StudentStatusDisabled,
	}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	t.Run("valid credentials yield a parsable bearer", func(t *testing.T) {
		student, bearer, exp, err := svc.LoginStudent(ctx, "0051234567", "rahasia")
		if err != nil {
			t.Fatalf("LoginStudent: %v", err)
		}
		if student.ID != "student-1" {
			t.Fatalf("student.ID = %s", student.ID)
		}
		if exp.IsZero() {
			t.Fatal("expected a non-zero expiry")
		}
		claims, err := svc.TokenManager().ParseToken(bearer)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if claims.SubjectID != "student-1" || claims.Subject != domain.SubjectTypeStudent {
			t.Fatalf("unexpected claims %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.LoginStudent(ctx, "0051234567", "salah")
		if got := apperrors.CodeOf(err); got != apperrors.CodeUnauthorized {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeUnauthorized)
		}
	})

	t.Run("unknown nisn", func(t *testing.T) {
		_, _, _, err := svc.LoginStudent(ctx, "0000000000", "rahasia")
		if got := apperrors.CodeOf(err); got != apperrors.CodeUnauthorized {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeUnauthorized)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		_, _, _, err := svc.LoginStudent(ctx, "0059876543", "rahasia")
		if got := apperrors.CodeOf(err); got != apperrors.CodeForbidden {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeForbidden)
		}
	})
}

func TestLoginAdmin(t *testing.T) {
	svc, store := newAuthFixture(t)
	ctx := context.Background()

	if err := store.Admins().Create(ctx, &domain.Admin{
		ID:           "admin-1",
		Username:     "kepala-sekolah",
		Name:         "Sari",
		PasswordHash: mustHash(t, "admin-pass"),
		Active:       true,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := store.Admins().Create(ctx, &domain.Admin{
		ID:           "admin-2",
		Username:     "bekas",
		Name:         "Tono",
		PasswordHash: mustHash(t, "admin-pass"),
		Active:       false,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		admin, bearer, _, err := svc.LoginAdmin(ctx, "kepala-sekolah", "admin-pass")
		if err != nil {
			t.Fatalf("LoginAdmin: %v", err)
		}
		if admin.ID != "admin-1" {
			t.Fatalf("admin.ID = %s", admin.ID)
		}
		claims, err := svc.TokenManager().ParseToken(bearer)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if claims.Subject != domain.SubjectTypeAdmin {
			t.Fatalf("subject = %s, want admin", claims.Subject)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.LoginAdmin(ctx, "kepala-sekolah", "salah")
		if got := apperrors.CodeOf(err); got != apperrors.CodeUnauthorized {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeUnauthorized)
		}
	})

	t.Run("inactive admin", func(t *testing.T) {
		_, _, _, err := svc.LoginAdmin(ctx, "bekas", "admin-pass")
		if got := apperrors.CodeOf(err); got != apperrors.CodeForbidden {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeForbidden)
		}
	})
}
