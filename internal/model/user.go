package model

import (
	"strings"
	"time"
)

const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
	RoleUser    = "user" // default role given at self-registration
)

// NormalizeRole upper-cases a stored or claimed role for comparisons
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// User is a row of the users table
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Avatar       *string
	FullName     *string
	Role         string
	Phone        *string
	Address      *string
	Gender       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public shape of a user. The password hash never leaves the service.
type UserView struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Avatar      *string   `json:"avatar"`
	FullName    *string   `json:"fullname"`
	Role        string    `json:"role"`
	Phone       *string   `json:"phone"`
	Address     *string   `json:"address"`
	Gender      *string   `json:"gender"`
	CreatedDate time.Time `json:"created_date"`
	ModifyDate  time.Time `json:"modify_date"`
}

// NewUserView maps a user row to its payload
func NewUserView(u *User) UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Username,
		Email:       u.Email,
		Avatar:      u.Avatar,
		FullName:    u.FullName,
		Role:        u.Role,
		Phone:       u.Phone,
		Address:     u.Address,
		Gender:      u.Gender,
		CreatedDate: u.CreatedAt,
		ModifyDate:  u.UpdatedAt,
	}
}

// NewUserViews maps a slice of rows, never returning nil
func NewUserViews(users []User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}
	return views
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,notblank"`
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is a partial update; nil fields keep their stored value
type UpdateUserRequest struct {
	ID       int64   `json:"id"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	FullName *string `json:"fullname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Gender   *string `json:"gender,omitempty"`
}

type AddStudentRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Password *string `json:"password,omitempty"`
}
