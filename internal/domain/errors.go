package domain

import "errors"

var (
	ErrInvalidID = errors.New("invalid id")
	ErrEmptyText = errors.New("task description cannot be empty")
)
