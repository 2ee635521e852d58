package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

type tokenRepo struct {
	store *Store
}

var _ repository.TokenRepository = (*tokenRepo)(nil)

// Insert persists a token after re-checking the single-active invariant under
// the issuance lock.
func (r *tokenRepo) Insert(_ context.Context, token *domain.Token) error {
	s := r.store
	s.issueMu.Lock()
	defer s.issueMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tokens {
		if existing.IsActive(token.IssuedAt) {
			return apperrors.NewConflictCode(apperrors.CodeActiveTokenExists, "an active token already exists")
		}
	}

	stored := *token
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.IssuedAt
	}
	s.tokens[stored.ID] = &stored
	token.CreatedAt = stored.CreatedAt
	return nil
}

func (r *tokenRepo) GetByID(_ context.Context, id string) (*domain.Token, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (r *tokenRepo) GetActiveByCode(_ context.Context, code string, now time.Time) (*domain.Token, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.tokens {
		if token.Code == code && token.IsActive(now) {
			copied := *token
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *tokenRepo) ActiveExists(_ context.Context, now time.Time) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.tokens {
		if token.IsActive(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *tokenRepo) CodeActive(_ context.Context, code string, now time.Time) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.tokens {
		if token.Code == code && token.IsActive(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *tokenRepo) Revoke(_ context.Context, id string, now time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if !token.IsActive(now) {
		return nil
	}
	at := now
	token.Revoked = true
	token.RevokedAt = &at
	return nil
}

func (r *tokenRepo) List(_ context.Context, limit, offset int) ([]domain.Token, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	s := r.store
	s.mu.RLock()
	all := make([]domain.Token, 0, len(s.tokens))
	for _, token := range s.tokens {
		all = append(all, *token)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].IssuedAt.After(all[j].IssuedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *tokenRepo) CountAll(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tokens)), nil
}

func (r *tokenRepo) CountActive(_ context.Context, now time.Time) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, token := range s.tokens {
		if token.IsActive(now) {
			count++
		}
	}
	return count, nil
}
