package model

// Teacher is a users row joined with its teachers row
type Teacher struct {
	TeacherID int64
	Salary    *float64
	User      User
}

// TeacherView keeps the user payload but reports the teacher id as "id"
// and the user id as "userid".
type TeacherView struct {
	UserView
	ID            int64           `json:"id"`
	UserID        int64           `json:"userid"`
	Salary        *float64        `json:"salary"`
	CoursesTaught []CourseSummary `json:"courses_taught"`
}

func NewTeacherView(t *Teacher, courses []CourseSummary) TeacherView {
	if courses == nil {
		courses = []CourseSummary{}
	}
	return TeacherView{
		UserView:      NewUserView(&t.User),
		ID:            t.TeacherID,
		UserID:        t.User.ID,
		Salary:        t.Salary,
		CoursesTaught: courses,
	}
}
