package tree

import "errors"

// Sentinel errors for the strict mutation paths. Callers match with
// errors.Is; the wrapping message names exactly which element was involved.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrBundleNotFound   = errors.New("bundle not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")

	ErrCategoryExists = errors.New("category already exists")
	ErrBundleExists   = errors.New("bundle already exists")
	ErrBookmarkExists = errors.New("bookmark already exists")
)
