package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"school_management/internal/database"
	"school_management/internal/model"
	"school_management/internal/service"
	"school_management/internal/testutil"
	"school_management/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	mock   pgxmock.PgxPoolIface
	tokens *utils.JWTUtil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithOptions(t, 0, false)
}

func newTestEnvWithOptions(t *testing.T, ttl time.Duration, exposeDetails bool) *testEnv {
	t.Helper()
	mock := testutil.NewMock(t)
	provider := database.NewProvider(mock)
	tokens, err := utils.NewJWTUtil("handler-secret", ttl)
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		Auth:               service.NewAuthService(provider, tokens),
		Users:              service.NewUserService(provider, "passwd"),
		Courses:            service.NewCourseService(provider),
		Sandbox:            service.NewSandboxService(provider),
		Tokens:             tokens,
		DB:                 mock,
		ExposeErrorDetails: exposeDetails,
	})
	return &testEnv{router: router, mock: mock, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, id int64, role string) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(utils.Claims{UserID: id, Email: "caller@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestRegister_ThenDuplicateIsRejected(t *testing.T) {
	env := newTestEnv(t)
	body := gin.H{"email": "a@b.c", "username": "a", "password": "p"}

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs("a@b.c").WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectQuery("INSERT INTO users").
		WithArgs("a", "a@b.c", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			model.RoleUser, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_date", "modify_date"}).
			AddRow(int64(1), testutil.Stamp, testutil.Stamp))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, ok := resp["accessToken"].(string)
	require.True(t, ok)
	claims, err := env.tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "a@b.c", claims.Email)

	user := resp["user"].(map[string]any)
	assert.Equal(t, "a@b.c", user["email"])
	assert.NotContains(t, user, "password_hash")

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs("a@b.c").
		WillReturnRows(testutil.UserRows(testutil.User(1, "a", "a@b.c", "hash", model.RoleUser)))
	env.mock.ExpectRollback()

	rec, resp = env.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User already exists!", resp["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []any{
		gin.H{"email": "a@b.c", "password": "p"},
		gin.H{"email": "a@b.c", "username": "   ", "password": "p"},
		gin.H{"email": "  ", "username": "a", "password": "p"},
		"{broken",
	} {
		rec, resp := env.do(t, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, resp["error"])
	}
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRegister_AcceptsAnyEmailText(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs("kim-at-school").WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectQuery("INSERT INTO users").
		WithArgs("kim", "kim-at-school", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			model.RoleUser, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_date", "modify_date"}).
			AddRow(int64(2), testutil.Stamp, testutil.Stamp))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodPost, "/api/auth/register", "",
		gin.H{"email": "kim-at-school", "username": "kim", "password": "p"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, resp["accessToken"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)
	row := testutil.User(3, "amy", "amy@example.com", hash, model.RoleStudent)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs("amy@example.com").WillReturnRows(testutil.UserRows(row))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "amy@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	claims, err := env.tokens.ValidateToken(resp["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, "amy@example.com", claims.Email)
	assert.Equal(t, int64(3), claims.UserID)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs("amy@example.com").WillReturnRows(testutil.UserRows(row))
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "amy@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", resp["error"])
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(3)).
		WillReturnRows(testutil.UserRows(testutil.User(3, "amy", "amy@example.com", "h", model.RoleStudent)))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodGet, "/api/auth/profile", env.token(t, 3, model.RoleStudent), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amy", resp["user"].(map[string]any)["username"])

	rec, resp = env.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", resp["error"])
}

func TestProfile_ExpiredToken(t *testing.T) {
	env := newTestEnvWithOptions(t, -time.Minute, false)

	rec, resp := env.do(t, http.MethodGet, "/api/auth/profile", env.token(t, 3, model.RoleStudent), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has expired", resp["message"])
}

func TestAdminUsers_NoHeaderIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, gin.H{"error": "Unauthorized"}, gin.H(resp))
}

func TestAdminUsers_ListAsAdmin(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users ORDER BY id").WillReturnRows(testutil.UserRows(
		testutil.User(1, "root", "root@example.com", "secret-hash", model.RoleAdmin),
		testutil.User(2, "amy", "amy@example.com", "secret-hash", model.RoleStudent),
	))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodGet, "/api/admin/users", env.token(t, 1, model.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["users"], 2)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}

func TestUpdateUser_SelfOrAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodPatch, "/api/admin/users", env.token(t, 5, model.RoleStudent), gin.H{"id": 6, "username": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", resp["error"])

	rec, _ = env.do(t, http.MethodPatch, "/api/admin/users", "", gin.H{"id": 0})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(5)).
		WillReturnRows(testutil.UserRows(testutil.User(5, "amy", "amy@example.com", "h", model.RoleStudent)))
	env.mock.ExpectQuery("UPDATE users").
		WithArgs("amy", "amy@example.com", "h", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), testutil.Str("f"), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"modify_date"}).AddRow(testutil.Stamp))
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodPatch, "/api/admin/users", env.token(t, 5, model.RoleStudent), gin.H{"id": 5, "gender": "f"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", resp["message"])

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectRollback()

	rec, resp = env.do(t, http.MethodPatch, "/api/admin/users", env.token(t, 1, model.RoleAdmin), gin.H{"id": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User does not exist", resp["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestStudents(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(5)).
		WillReturnRows(testutil.UserRows(testutil.User(5, "amy", "amy@example.com", "h", model.RoleStudent)))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodGet, "/api/admin/students", env.token(t, 5, model.RoleStudent), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, resp["students_count"])

	rec, _ = env.do(t, http.MethodGet, "/api/admin/students", env.token(t, 8, model.RoleUser), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/admin/students", env.token(t, 2, model.RoleTeacher), gin.H{"email": "k@x.y"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs("k@x.y").WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectQuery("INSERT INTO users").
		WithArgs("kid", "k@x.y", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			model.RoleStudent, testutil.Str("555"), testutil.Str("1 Main"), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_date", "modify_date"}).
			AddRow(int64(40), testutil.Stamp, testutil.Stamp))
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodPost, "/api/admin/students", env.token(t, 1, model.RoleAdmin),
		gin.H{"email": "k@x.y", "username": "kid", "address": "1 Main", "phone": "555"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "add student successfully", resp["message"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestStudentCannotCreateOrUpdateCourse(t *testing.T) {
	env := newTestEnv(t)
	student := env.token(t, 5, model.RoleStudent)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/admin/courses"},
		{http.MethodPut, "/api/admin/courses"},
		{http.MethodPatch, "/api/admin/modifycourses"},
		{http.MethodDelete, "/api/admin/courses/1"},
		{http.MethodGet, "/api/admin/modifycourses"},
	} {
		rec, resp := env.do(t, tc.method, tc.path, student, gin.H{"id": 1, "name": "Hacked"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.Equal(t, "Unauthorized", resp["error"], tc.path)
	}
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.token(t, 2, model.RoleTeacher)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("WHERE course_name").WithArgs("Algebra").WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectQuery("INSERT INTO courses").
		WithArgs("Algebra", testutil.Str("Intro"), testutil.Str("math"), testutil.Int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"course_id", "created_date", "modify_date"}).
			AddRow(int64(1), testutil.Stamp, testutil.Stamp))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodPost, "/api/admin/courses", teacher,
		gin.H{"name": "Algebra", "description": "Intro", "category": "math", "teacher_id": 1})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "add course successfully", resp["message"])

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("WHERE course_name").WithArgs("Algebra").
		WillReturnRows(testutil.CourseRows(testutil.Course(1, "Algebra", nil, nil)))
	env.mock.ExpectRollback()

	rec, resp = env.do(t, http.MethodPost, "/api/admin/courses", teacher, gin.H{"name": "Algebra"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Course already exists!", resp["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateAndDeleteMissingCourse(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, 1, model.RoleAdmin)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("WHERE course_id").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectRollback()

	rec, resp := env.do(t, http.MethodPatch, "/api/admin/modifycourses", admin, gin.H{"id": 9, "name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course does not exist!", resp["error"])

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("WHERE course_id").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectRollback()

	rec, _ = env.do(t, http.MethodDelete, "/api/admin/courses/9", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = env.do(t, http.MethodDelete, "/api/admin/courses/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid course id", resp["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestDeleteCourse(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("WHERE course_id").WithArgs(int64(4)).
		WillReturnRows(testutil.CourseRows(testutil.Course(4, "Poetry", nil, nil)))
	env.mock.ExpectExec("DELETE FROM courses").WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodDelete, "/api/admin/courses/4", env.token(t, 2, model.RoleTeacher), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course deleted successfully", resp["message"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestEnterCourse_Twice(t *testing.T) {
	env := newTestEnv(t)
	student := env.token(t, 5, model.RoleStudent)
	body := gin.H{"course_name": "Algebra", "category": "math"}
	course := testutil.Course(1, "Algebra", testutil.Str("math"), nil)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("AND category").WithArgs("Algebra", "math").WillReturnRows(testutil.CourseRows(course))
	env.mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(1), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	env.mock.ExpectExec("INSERT INTO course_enter").WithArgs(int64(1), int64(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodPost, "/api/student/enter_course", student, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "enter course successfully", resp["message"])

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("AND category").WithArgs("Algebra", "math").WillReturnRows(testutil.CourseRows(course))
	env.mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(1), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	env.mock.ExpectRollback()

	rec, resp = env.do(t, http.MethodPost, "/api/student/enter_course", student, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User already entered the course!", resp["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestEnterCourse_TeacherAndUnknownCourse(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/student/enter_course", env.token(t, 2, model.RoleTeacher),
		gin.H{"course_name": "Algebra", "category": "math"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("AND category").WithArgs("Nope", "none").WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectRollback()

	rec, resp := env.do(t, http.MethodPost, "/api/student/enter_course", env.token(t, 5, model.RoleStudent),
		gin.H{"course_name": "Nope", "category": "none"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid course name or category", resp["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListCoursesAndTeachers(t *testing.T) {
	env := newTestEnv(t)
	student := env.token(t, 5, model.RoleStudent)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("FROM courses ORDER BY course_id").
		WillReturnRows(testutil.CourseRows(testutil.Course(1, "Algebra", testutil.Str("math"), testutil.Int64(2))))
	env.mock.ExpectQuery("INNER JOIN users").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username"}).AddRow(int64(5), "amy"))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodGet, "/api/admin/courses", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, resp["courses_count"])
	course := resp["courses"].([]any)[0].(map[string]any)
	assert.Len(t, course["entered_students"], 1)

	cols := append(append([]string{}, testutil.UserColumns...), "teacher_id", "salary")
	salary := 5000.0
	env.mock.ExpectBegin()
	env.mock.ExpectQuery("JOIN teachers").WithArgs(model.RoleTeacher).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(
			testutil.UserValues(testutil.User(12, "kim", "kim@example.com", "h", model.RoleTeacher)),
			int64(2), &salary)...))
	env.mock.ExpectQuery("WHERE teacher_id").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"course_id", "course_name", "category"}))
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodGet, "/api/admin/teachers", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	teacher := resp["teachers"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 2, teacher["id"])
	assert.EqualValues(t, 12, teacher["userid"])
	assert.EqualValues(t, 5000, teacher["salary"])
	assert.Equal(t, []any{}, teacher["courses_taught"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSearchCourses(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("ILIKE").WithArgs("%alg%", "%%").
		WillReturnRows(testutil.CourseRows(testutil.Course(1, "Algebra", testutil.Str("math"), nil)))
	env.mock.ExpectQuery("SELECT user_id FROM course_enter").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(5)))
	env.mock.ExpectCommit()

	rec, resp := env.do(t, http.MethodGet, "/api/search/courses?name=alg", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	course := resp["courses"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{float64(5)}, course["entered_students_id"])

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("ILIKE").WithArgs("%%", "%math%").
		WillReturnRows(testutil.CourseRows())
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodGet, "/api/search/courses", "", gin.H{"category": "math"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, resp["courses_count"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSearchCourses_ChunkedBody(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("ILIKE").WithArgs("%geo%", "%%").
		WillReturnRows(testutil.CourseRows())
	env.mock.ExpectCommit()

	// A reader of unknown length leaves ContentLength at -1, as with chunked uploads.
	body := io.MultiReader(strings.NewReader(`{"name":"geo"}`))
	req := httptest.NewRequest(http.MethodGet, "/api/search/courses?name=ignored", body)
	req.Header.Set("Content-Type", "application/json")
	require.EqualValues(t, -1, req.ContentLength)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSearchCourses_EmptyBodyUsesQuery(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("ILIKE").WithArgs("%alg%", "%%").
		WillReturnRows(testutil.CourseRows())
	env.mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodGet, "/api/search/courses?name=alg", io.MultiReader())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestInternalErrorDetailIsHidden(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("ILIKE").WithArgs("%%", "%%").
		WillReturnError(errors.New("relation courses does not exist"))
	env.mock.ExpectRollback()

	rec, resp := env.do(t, http.MethodGet, "/api/search/courses", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", resp["error"])
}

func TestInternalErrorDetailIsExposedWhenEnabled(t *testing.T) {
	env := newTestEnvWithOptions(t, 0, true)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("ILIKE").WithArgs("%%", "%%").
		WillReturnError(errors.New("relation courses does not exist"))
	env.mock.ExpectRollback()

	rec, resp := env.do(t, http.MethodGet, "/api/search/courses", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, resp["error"], "relation courses does not exist")
}

func TestSandboxUsers(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodPost, "/users", "", gin.H{"username": "sandy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing username or email", resp["error"])

	env.mock.ExpectBegin()
	env.mock.ExpectExec("INSERT INTO users").WithArgs("sandy", "sandy@example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodPost, "/users", "", gin.H{"username": "sandy", "email": "sandy@example.com"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", resp["message"])

	env.mock.ExpectBegin()
	env.mock.ExpectExec("DELETE FROM users").WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	env.mock.ExpectCommit()

	rec, resp = env.do(t, http.MethodDelete, "/users/7", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User 7 deleted successfully", resp["message"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	for _, tc := range []struct {
		name   string
		db     Pinger
		status int
	}{
		{"healthy", stubPinger{}, http.StatusOK},
		{"ping fails", stubPinger{err: errors.New("down")}, http.StatusServiceUnavailable},
		{"no pool", nil, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			router := NewRouter(RouterDeps{DB: tc.db})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(RouterDeps{DB: stubPinger{}})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{endpoint="/health",method="GET",status="200"}`)
}
