package main

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Timestamp        time.Time `json:"timestamp"`
	Status           int       `json:"status"`
	Error            string    `json:"error"`
	Message          string    `json:"message"`
	Path             string    `json:"path"`
	ValidationErrors []string  `json:"validationErrors,omitempty"`
}
