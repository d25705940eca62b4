package service

import "errors"

var (
	// ErrUnauthorized is returned when no valid identity accompanies the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned when a required field is missing.
	ErrInvalidInput = errors.New("missing required field")
	// ErrResumeNotFound is returned when the resume does not exist or is not
	// owned by the caller. Ownership mismatches report not-found, never
	// forbidden, to avoid leaking existence.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrLinkNotFound is returned when no public link matches the slug.
	ErrLinkNotFound = errors.New("public link not found")
	// ErrLinkInactive is returned when the link exists but does not resolve
	// publicly.
	ErrLinkInactive = errors.New("public link is not active")
	// ErrSlugConflict is returned when the bounded slug retry loop could not
	// allocate a unique slug.
	ErrSlugConflict = errors.New("could not allocate a unique slug")
	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrUpstream is returned when a billing provider call fails.
	ErrUpstream = errors.New("billing provider call failed")
)
