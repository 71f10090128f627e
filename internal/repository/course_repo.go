package repository

import (
	"context"
	"errors"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"

	"github.com/jackc/pgx/v5"
)

const courseColumns = `course_id, course_name, course_description, category, teacher_id, created_date, modify_date`

// CourseRepository defines operations for course data
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id int64) (*model.Course, error)
	FindByName(ctx context.Context, name string) (*model.Course, error)
	FindByNameAndCategory(ctx context.Context, name, category string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]model.CourseSummary, error)
	Search(ctx context.Context, name, category string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id int64) error
}

type courseRepository struct {
	db database.Querier
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db database.Querier) CourseRepository {
	return &courseRepository{db: db}
}

func courseDest(c *model.Course) []any {
	return []any{&c.ID, &c.Name, &c.Description, &c.Category, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt}
}

// Create inserts a new course and fills in the generated id and timestamps
func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	sql := `INSERT INTO courses (course_name, course_description, category, teacher_id)
            VALUES ($1, $2, $3, $4) RETURNING course_id, created_date, modify_date`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Description, c.Category, c.TeacherID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", translatePgError(err))
	}
	return nil
}

func (r *courseRepository) findOne(ctx context.Context, sql string, args ...any) (*model.Course, error) {
	c := &model.Course{}
	err := r.db.QueryRow(ctx, sql, args...).Scan(courseDest(c)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// FindByID retrieves a course by id, nil when absent
func (r *courseRepository) FindByID(ctx context.Context, id int64) (*model.Course, error) {
	c, err := r.findOne(ctx, `SELECT `+courseColumns+` FROM courses WHERE course_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}
	return c, nil
}

// FindByName retrieves a course by its unique name, nil when absent
func (r *courseRepository) FindByName(ctx context.Context, name string) (*model.Course, error) {
	c, err := r.findOne(ctx, `SELECT `+courseColumns+` FROM courses WHERE course_name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find course by name: %w", err)
	}
	return c, nil
}

// FindByNameAndCategory retrieves the course matching both fields, nil when absent
func (r *courseRepository) FindByNameAndCategory(ctx context.Context, name, category string) (*model.Course, error) {
	c, err := r.findOne(ctx, `SELECT `+courseColumns+` FROM courses WHERE course_name = $1 AND category = $2`, name, category)
	if err != nil {
		return nil, fmt.Errorf("failed to find course by name and category: %w", err)
	}
	return c, nil
}

// List returns every course
func (r *courseRepository) List(ctx context.Context) ([]model.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY course_id`)
}

// Search matches name and category as case-insensitive substrings. An empty
// term matches any value, but courses without a category never match.
func (r *courseRepository) Search(ctx context.Context, name, category string) ([]model.Course, error) {
	sql := `SELECT ` + courseColumns + ` FROM courses
            WHERE course_name ILIKE $1 AND category ILIKE $2
            ORDER BY course_id`
	return r.queryCourses(ctx, sql, "%"+name+"%", "%"+category+"%")
}

func (r *courseRepository) queryCourses(ctx context.Context, sql string, args ...any) ([]model.Course, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(courseDest(&c)...); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// ListByTeacher returns the courses a teacher owns
func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]model.CourseSummary, error) {
	sql := `SELECT course_id, course_name, category FROM courses WHERE teacher_id = $1 ORDER BY course_id`
	rows, err := r.db.Query(ctx, sql, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses by teacher: %w", err)
	}
	defer rows.Close()

	courses := []model.CourseSummary{}
	for rows.Next() {
		var c model.CourseSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Category); err != nil {
			return nil, fmt.Errorf("failed to scan course summary: %w", err)
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course summaries: %w", err)
	}
	return courses, nil
}

// Update overwrites the editable columns of an existing course
func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	sql := `UPDATE courses
            SET course_name = $1, course_description = $2, category = $3, teacher_id = $4, modify_date = NOW()
            WHERE course_id = $5 RETURNING modify_date`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Description, c.Category, c.TeacherID, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("course %d not found for update: %w", c.ID, err)
		}
		return fmt.Errorf("failed to update course: %w", translatePgError(err))
	}
	return nil
}

// Delete removes a course; enrollments cascade
func (r *courseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE course_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("course %d not found for deletion: %w", id, pgx.ErrNoRows)
	}
	return nil
}
