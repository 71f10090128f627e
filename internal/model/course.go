package model

import "time"

// Course is a row of the courses table
type Course struct {
	ID          int64
	Name        string
	Description *string
	Category    *string
	TeacherID   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CourseSummary is the short form listed under a teacher
type CourseSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category"`
}

// EnteredStudent is a user enrolled in a course
type EnteredStudent struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CourseView is a course with the students that entered it
type CourseView struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	TeacherID       *int64           `json:"teacher_id"`
	CreatedDate     time.Time        `json:"created_date"`
	ModifyDate      time.Time        `json:"modify_date"`
	EnteredStudents []EnteredStudent `json:"entered_students"`
}

// CourseSearchView is a search hit carrying only the enrolled user ids
type CourseSearchView struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	Category          *string   `json:"category"`
	TeacherID         *int64    `json:"teacher_id"`
	CreatedDate       time.Time `json:"created_date"`
	ModifyDate        time.Time `json:"modify_date"`
	EnteredStudentsID []int64   `json:"entered_students_id"`
}

func NewCourseView(c *Course, students []EnteredStudent) CourseView {
	if students == nil {
		students = []EnteredStudent{}
	}
	return CourseView{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Category:        c.Category,
		TeacherID:       c.TeacherID,
		CreatedDate:     c.CreatedAt,
		ModifyDate:      c.UpdatedAt,
		EnteredStudents: students,
	}
}

func NewCourseSearchView(c *Course, userIDs []int64) CourseSearchView {
	if userIDs == nil {
		userIDs = []int64{}
	}
	return CourseSearchView{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		Category:          c.Category,
		TeacherID:         c.TeacherID,
		CreatedDate:       c.CreatedAt,
		ModifyDate:        c.UpdatedAt,
		EnteredStudentsID: userIDs,
	}
}

type CreateCourseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	TeacherID   *int64  `json:"teacher_id"`
}

// UpdateCourseRequest is a partial update; nil fields keep their stored value
type UpdateCourseRequest struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	TeacherID   *int64  `json:"teacher_id,omitempty"`
}

type EnterCourseRequest struct {
	CourseName string `json:"course_name"`
	Category   string `json:"category"`
}

// SearchCoursesRequest accepts both a JSON body and query parameters
type SearchCoursesRequest struct {
	Name     string `json:"name" form:"name"`
	Category string `json:"category" form:"category"`
}
