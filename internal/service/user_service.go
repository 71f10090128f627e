package service

import (
	"context"
	"errors"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"
	"school_management/internal/repository"
	"school_management/internal/utils"
)

// UserService covers the admin user, student and teacher listings
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, req model.UpdateUserRequest) error
	ListStudents(ctx context.Context, caller *utils.Claims) ([]model.User, error)
	AddStudent(ctx context.Context, req model.AddStudentRequest) (*model.User, error)
	ListTeachers(ctx context.Context) ([]model.TeacherView, error)
}

type userService struct {
	db                     *database.Provider
	defaultStudentPassword string
}

// NewUserService creates a new UserService. Students added without a password
// get defaultStudentPassword.
func NewUserService(db *database.Provider, defaultStudentPassword string) UserService {
	return &userService{db: db, defaultStudentPassword: defaultStudentPassword}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		var err error
		users, err = repository.NewUserRepository(q).List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial update. A new password is re-hashed; omitted
// fields keep their stored values.
func (s *userService) UpdateUser(ctx context.Context, req model.UpdateUserRequest) error {
	var passwordHash string
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = hashed
	}

	return s.db.WithScope(ctx, func(q database.Querier) error {
		users := repository.NewUserRepository(q)
		user, err := users.FindByID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if passwordHash != "" {
			user.PasswordHash = passwordHash
		}
		if req.Avatar != nil {
			user.Avatar = req.Avatar
		}
		if req.FullName != nil {
			user.FullName = req.FullName
		}
		if req.Phone != nil {
			user.Phone = req.Phone
		}
		if req.Address != nil {
			user.Address = req.Address
		}
		if req.Gender != nil {
			user.Gender = req.Gender
		}

		if err := users.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return nil
	})
}

// ListStudents returns every STUDENT user, or only the caller when the caller
// is a student.
func (s *userService) ListStudents(ctx context.Context, caller *utils.Claims) ([]model.User, error) {
	students := []model.User{}
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		users := repository.NewUserRepository(q)
		if model.NormalizeRole(caller.Role) == model.RoleStudent {
			self, err := users.FindByID(ctx, caller.UserID)
			if err != nil {
				return err
			}
			if self != nil {
				students = append(students, *self)
			}
			return nil
		}
		all, err := users.ListByRole(ctx, model.RoleStudent)
		if err != nil {
			return err
		}
		students = all
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *userService) AddStudent(ctx context.Context, req model.AddStudentRequest) (*model.User, error) {
	password := s.defaultStudentPassword
	if req.Password != nil && *req.Password != "" {
		password = *req.Password
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         model.RoleStudent,
		Phone:        req.Phone,
		Address:      req.Address,
	}

	err = s.db.WithScope(ctx, func(q database.Querier) error {
		users := repository.NewUserRepository(q)
		existing, err := users.FindByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			return ErrUserAlreadyExists
		}
		if err := users.Create(ctx, student); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// ListTeachers returns every teacher with the courses they own
func (s *userService) ListTeachers(ctx context.Context) ([]model.TeacherView, error) {
	views := []model.TeacherView{}
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		store := repository.NewStore(q)
		teachers, err := store.Teachers.List(ctx)
		if err != nil {
			return err
		}
		for i := range teachers {
			courses, err := store.Courses.ListByTeacher(ctx, teachers[i].TeacherID)
			if err != nil {
				return err
			}
			views = append(views, model.NewTeacherView(&teachers[i], courses))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return views, nil
}
