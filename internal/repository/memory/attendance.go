package memory

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

type attendanceRepo struct {
	store *Store
}

var _ repository.AttendanceRepository = (*attendanceRepo)(nil)

// RecordSubmission inserts the record and bumps the token usage count as one
// unit, serialized per (token, student) pair.
func (r *attendanceRepo) RecordSubmission(_ context.Context, record *domain.AttendanceRecord) error {
	s := r.store
	key := submissionKey(record.TokenID, record.StudentID)
	lock := s.lockSubmission(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recordByKey[key]; exists {
		return apperrors.NewConflictCode(apperrors.CodeDuplicateSubmission, "attendance already submitted for this token")
	}

	stored := *record
	s.records[stored.ID] = &stored
	s.recordByKey[key] = stored.ID
	if token, ok := s.tokens[record.TokenID]; ok {
		token.UsageCount++
	}
	return nil
}

func (r *attendanceRepo) Exists(_ context.Context, tokenID, studentID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.recordByKey[submissionKey(tokenID, studentID)]
	return exists, nil
}

func (r *attendanceRepo) CountAll(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (r *attendanceRepo) CountBetween(_ context.Context, from, to time.Time) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, record := range s.records {
		if !record.SubmittedAt.Before(from) && record.SubmittedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *attendanceRepo) CountByDay(_ context.Context, from, to time.Time, timezone string) (map[string]int64, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, record := range s.records {
		if record.SubmittedAt.Before(from) || !record.SubmittedAt.Before(to) {
			continue
		}
		day := record.SubmittedAt.In(loc).Format("2006-01-02")
		counts[day]++
	}
	return counts, nil
}

func (r *attendanceRepo) ListFiltered(_ context.Context, filter repository.ExportFilter) ([]domain.ExportRow, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.ExportRow
	for _, record := range s.records {
		student, ok := s.students[record.StudentID]
		if !ok {
			continue
		}
		class, ok := s.classes[student.ClassID]
		if !ok {
			continue
		}
		dept, ok := s.departments[class.DepartmentID]
		if !ok {
			continue
		}
		if filter.ClassID != nil && class.ID != *filter.ClassID {
			continue
		}
		if filter.DepartmentID != nil && dept.ID != *filter.DepartmentID {
			continue
		}
		if filter.From != nil && record.SubmittedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !record.SubmittedAt.Before(*filter.To) {
			continue
		}

		token := s.tokens[record.TokenID]
		row := domain.ExportRow{
			RecordID:       record.ID,
			StudentID:      student.ID,
			StudentName:    student.Name,
			NISN:           student.NISN,
			ClassID:        class.ID,
			ClassName:      class.Name,
			DepartmentID:   dept.ID,
			DepartmentName: dept.Name,
			TokenID:        record.TokenID,
			SubmittedAt:    record.SubmittedAt,
			Timeliness:     record.Timeliness,
		}
		if token != nil {
			row.TokenCode = token.Code
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}
