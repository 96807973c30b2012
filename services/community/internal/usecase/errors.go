package usecase

import "errors"

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrEmptyContent   = errors.New("post content cannot be empty")
	ErrContentTooLong = errors.New("post content is too long")
)
