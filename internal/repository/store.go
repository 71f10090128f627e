package repository

import "school_management/internal/database"

// Store groups the repositories bound to one transaction scope
type Store struct {
	Users       UserRepository
	Teachers    TeacherRepository
	Courses     CourseRepository
	Enrollments EnrollmentRepository
}

// NewStore binds every repository to q
func NewStore(q database.Querier) *Store {
	return &Store{
		Users:       NewUserRepository(q),
		Teachers:    NewTeacherRepository(q),
		Courses:     NewCourseRepository(q),
		Enrollments: NewEnrollmentRepository(q),
	}
}
