package usecase

import "errors"

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrNameRequired     = errors.New("course name is required")
	ErrInvalidCategory  = errors.New("invalid course category")
	ErrInvalidLevel     = errors.New("invalid course level")
	ErrInvalidLanguage  = errors.New("invalid course language")
	ErrInvalidAssetKind = errors.New("kind must be thumbnail, resource or video")
	ErrInvalidOrder     = errors.New("order_index cannot be negative")
	ErrStorageDisabled  = errors.New("file storage is not configured")
)
