package repository

import (
	"context"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"
)

// TeacherRepository reads teachers joined with their user rows
type TeacherRepository interface {
	List(ctx context.Context) ([]model.Teacher, error)
}

type teacherRepository struct {
	db database.Querier
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db database.Querier) TeacherRepository {
	return &teacherRepository{db: db}
}

// List returns every TEACHER user that has a teachers row
func (r *teacherRepository) List(ctx context.Context) ([]model.Teacher, error) {
	sql := `SELECT u.id, u.username, u.email, u.password_hash, u.avatar_path, u.full_name, u.user_role,
                   u.phone_number, u.address, u.gender, u.created_date, u.modify_date,
                   t.teacher_id, t.salary
            FROM users u JOIN teachers t ON t.user_id = u.id
            WHERE UPPER(u.user_role) = $1
            ORDER BY t.teacher_id`
	rows, err := r.db.Query(ctx, sql, model.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	teachers := []model.Teacher{}
	for rows.Next() {
		var t model.Teacher
		if err := rows.Scan(userDest(&t.User, &t.TeacherID, &t.Salary)...); err != nil {
			return nil, fmt.Errorf("failed to scan teacher row: %w", err)
		}
		teachers = append(teachers, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teacher rows: %w", err)
	}
	return teachers, nil
}
