package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// AuthService coordinates login flows. The attendance core trusts the
// identities this boundary resolves.
type AuthService struct {
	students repository.StudentRepository
	admins   repository.AdminRepository
	tokenMgr *auth.TokenManager
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	StudentRepo repository.StudentRepository
	AdminRepo   repository.AdminRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		students: deps.StudentRepo,
		admins:   deps.AdminRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// LoginStudent authenticates a student by NISN and password.
func (s *AuthService) LoginStudent(ctx context.Context, nisn, password string) (*domain.Student, string, time.Time, error) {
	student, err := s.students.GetByNISN(ctx, nisn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if student.Status != domain.StudentStatusActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("student account disabled")
	}
	if err := auth.ComparePassword(student.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	bearer, exp, err := s.tokenMgr.GenerateToken(student.ID, domain.SubjectTypeStudent)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return student, bearer, exp, nil
}

// LoginAdmin authenticates an admin by username and password.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !admin.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("admin account disabled")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	bearer, exp, err := s.tokenMgr.GenerateToken(admin.ID, domain.SubjectTypeAdmin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, bearer, exp, nil
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
