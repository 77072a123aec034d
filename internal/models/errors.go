package models

import "errors"

// Application-level errors returned by repositories. Handlers translate them
// to HTTP statuses; anything else is treated as a store failure and logged.
var (
	// ErrNotFound means the target id does not resolve to a live record.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden means the requester is not the owner of the resource.
	ErrForbidden = errors.New("requester is not the resource owner")
	// ErrVersionConflict means an optimistic-concurrency token did not match
	// the stored version.
	ErrVersionConflict = errors.New("version conflict")
	// ErrParentMismatch means a reply referenced a parent comment that does
	// not exist on the same post.
	ErrParentMismatch = errors.New("parent comment does not belong to the post")
)
