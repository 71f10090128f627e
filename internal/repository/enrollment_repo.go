package repository

import (
	"context"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"
)

// EnrollmentRepository manages the course_enter relation
type EnrollmentRepository interface {
	Exists(ctx context.Context, courseID, userID int64) (bool, error)
	Create(ctx context.Context, courseID, userID int64) error
	ListStudents(ctx context.Context, courseID int64) ([]model.EnteredStudent, error)
	ListUserIDs(ctx context.Context, courseID int64) ([]int64, error)
}

type enrollmentRepository struct {
	db database.Querier
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db database.Querier) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Exists(ctx context.Context, courseID, userID int64) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM course_enter WHERE course_id = $1 AND user_id = $2)`
	if err := r.db.QueryRow(ctx, sql, courseID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}

// Create records an enrollment. A duplicate pair surfaces as ErrUniqueViolation.
func (r *enrollmentRepository) Create(ctx context.Context, courseID, userID int64) error {
	sql := `INSERT INTO course_enter (course_id, user_id) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, sql, courseID, userID); err != nil {
		return fmt.Errorf("failed to create enrollment: %w", translatePgError(err))
	}
	return nil
}

func (r *enrollmentRepository) ListStudents(ctx context.Context, courseID int64) ([]model.EnteredStudent, error) {
	sql := `SELECT ce.user_id, u.username
            FROM course_enter ce INNER JOIN users u ON ce.user_id = u.id
            WHERE ce.course_id = $1
            ORDER BY ce.user_id`
	rows, err := r.db.Query(ctx, sql, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entered students: %w", err)
	}
	defer rows.Close()

	students := []model.EnteredStudent{}
	for rows.Next() {
		var s model.EnteredStudent
		if err := rows.Scan(&s.ID, &s.Username); err != nil {
			return nil, fmt.Errorf("failed to scan entered student: %w", err)
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entered students: %w", err)
	}
	return students, nil
}

func (r *enrollmentRepository) ListUserIDs(ctx context.Context, courseID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM course_enter WHERE course_id = $1 ORDER BY user_id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled user ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan enrolled user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrolled user ids: %w", err)
	}
	return ids, nil
}
