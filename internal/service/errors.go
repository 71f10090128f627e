package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserAlreadyExists   = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrCourseAlreadyExists = errors.New("course with this name already exists")
	ErrCourseNotFound      = errors.New("course not found")
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrAlreadyEnrolled     = errors.New("user already entered the course")
)
