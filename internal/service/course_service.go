package service

import (
	"context"
	"errors"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"
	"school_management/internal/repository"

	"github.com/rs/zerolog"
)

// CourseService provides course and enrollment operations
type CourseService interface {
	List(ctx context.Context) ([]model.CourseView, error)
	Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error)
	Update(ctx context.Context, req model.UpdateCourseRequest) error
	Delete(ctx context.Context, id int64) error
	EnterCourse(ctx context.Context, userID int64, req model.EnterCourseRequest) error
	Search(ctx context.Context, req model.SearchCoursesRequest) ([]model.CourseSearchView, error)
}

type courseService struct {
	db *database.Provider
}

// NewCourseService creates a new CourseService
func NewCourseService(db *database.Provider) CourseService {
	return &courseService{db: db}
}

// List returns every course with the students that entered it
func (s *courseService) List(ctx context.Context) ([]model.CourseView, error) {
	views := []model.CourseView{}
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		store := repository.NewStore(q)
		courses, err := store.Courses.List(ctx)
		if err != nil {
			return err
		}
		for i := range courses {
			students, err := store.Enrollments.ListStudents(ctx, courses[i].ID)
			if err != nil {
				return err
			}
			views = append(views, model.NewCourseView(&courses[i], students))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return views, nil
}

func (s *courseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		TeacherID:   req.TeacherID,
	}
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		courses := repository.NewCourseRepository(q)
		existing, err := courses.FindByName(ctx, req.Name)
		if err != nil {
			return fmt.Errorf("failed to check existing course: %w", err)
		}
		if existing != nil {
			return ErrCourseAlreadyExists
		}
		return mapCourseWriteError(courses.Create(ctx, course))
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Int64("course_id", course.ID).Msg("course created")
	return course, nil
}

// Update applies a partial update; omitted fields keep their stored values
func (s *courseService) Update(ctx context.Context, req model.UpdateCourseRequest) error {
	return s.db.WithScope(ctx, func(q database.Querier) error {
		courses := repository.NewCourseRepository(q)
		course, err := courses.FindByID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("failed to load course: %w", err)
		}
		if course == nil {
			return ErrCourseNotFound
		}

		if req.Name != nil {
			course.Name = *req.Name
		}
		if req.Description != nil {
			course.Description = req.Description
		}
		if req.Category != nil {
			course.Category = req.Category
		}
		if req.TeacherID != nil {
			course.TeacherID = req.TeacherID
		}
		return mapCourseWriteError(courses.Update(ctx, course))
	})
}

func (s *courseService) Delete(ctx context.Context, id int64) error {
	return s.db.WithScope(ctx, func(q database.Querier) error {
		courses := repository.NewCourseRepository(q)
		course, err := courses.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load course: %w", err)
		}
		if course == nil {
			return ErrCourseNotFound
		}
		return courses.Delete(ctx, id)
	})
}

// EnterCourse enrolls userID in the course matching name and category.
// A user enters a course at most once.
func (s *courseService) EnterCourse(ctx context.Context, userID int64, req model.EnterCourseRequest) error {
	return s.db.WithScope(ctx, func(q database.Querier) error {
		store := repository.NewStore(q)
		course, err := store.Courses.FindByNameAndCategory(ctx, req.CourseName, req.Category)
		if err != nil {
			return fmt.Errorf("failed to find course: %w", err)
		}
		if course == nil {
			return ErrCourseNotFound
		}

		entered, err := store.Enrollments.Exists(ctx, course.ID, userID)
		if err != nil {
			return err
		}
		if entered {
			return ErrAlreadyEnrolled
		}
		if err := store.Enrollments.Create(ctx, course.ID, userID); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		return nil
	})
}

// Search matches courses by name and category substrings
func (s *courseService) Search(ctx context.Context, req model.SearchCoursesRequest) ([]model.CourseSearchView, error) {
	views := []model.CourseSearchView{}
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		store := repository.NewStore(q)
		courses, err := store.Courses.Search(ctx, req.Name, req.Category)
		if err != nil {
			return err
		}
		for i := range courses {
			ids, err := store.Enrollments.ListUserIDs(ctx, courses[i].ID)
			if err != nil {
				return err
			}
			views = append(views, model.NewCourseSearchView(&courses[i], ids))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return views, nil
}

func mapCourseWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUniqueViolation):
		return ErrCourseAlreadyExists
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrTeacherNotFound
	}
	return err
}
