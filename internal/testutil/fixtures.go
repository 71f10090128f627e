// Package testutil holds pgxmock fixtures shared by repository, service and
// handler tests.
package testutil

import (
	"testing"
	"time"

	"school_management/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

// Stamp is the fixed created/modified time used by every fixture row
var Stamp = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

var UserColumns = []string{
	"id", "username", "email", "password_hash", "avatar_path", "full_name", "user_role",
	"phone_number", "address", "gender", "created_date", "modify_date",
}

var CourseColumns = []string{
	"course_id", "course_name", "course_description", "category", "teacher_id", "created_date", "modify_date",
}

// NewMock returns a pgxmock pool closed at test cleanup
func NewMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// AnyArgs returns n argument matchers that accept any value
func AnyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// Str returns a pointer to s
func Str(s string) *string { return &s }

// Int64 returns a pointer to n
func Int64(n int64) *int64 { return &n }

// User builds a user row with the given identity and role
func User(id int64, username, email, passwordHash, role string) model.User {
	return model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    Stamp,
		UpdatedAt:    Stamp,
	}
}

// UserValues flattens u in UserColumns order
func UserValues(u model.User) []any {
	return []any{
		u.ID, u.Username, u.Email, u.PasswordHash, u.Avatar, u.FullName, u.Role,
		u.Phone, u.Address, u.Gender, u.CreatedAt, u.UpdatedAt,
	}
}

// UserRows returns mock rows holding users
func UserRows(users ...model.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(UserColumns)
	for _, u := range users {
		rows.AddRow(UserValues(u)...)
	}
	return rows
}

// Course builds a course row
func Course(id int64, name string, category *string, teacherID *int64) model.Course {
	return model.Course{
		ID:        id,
		Name:      name,
		Category:  category,
		TeacherID: teacherID,
		CreatedAt: Stamp,
		UpdatedAt: Stamp,
	}
}

// CourseRows returns mock rows holding courses
func CourseRows(courses ...model.Course) *pgxmock.Rows {
	rows := pgxmock.NewRows(CourseColumns)
	for _, c := range courses {
		rows.AddRow(c.ID, c.Name, c.Description, c.Category, c.TeacherID, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}
