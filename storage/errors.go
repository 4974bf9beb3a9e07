package storage

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrModuleNotFound = errors.New("module not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrReadOnly       = errors.New("store is read-only")
	ErrInvalidSeed    = errors.New("invalid seed")
)
