// Package repository defines the MySQL and Redis data access layer
// together with the sentinel errors reused across repositories and
// services.  These sentinels let higher layers distinguish failure
// scenarios with errors.Is and translate them uniformly into HTTP
// status codes at the boundary.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist or has
// been soft-deleted.  Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or lack the role for.  Handlers translate
// this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as answering a question that already has an
// answer.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned on registration with an email that is
// already taken.  Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrLikeExists is returned when a user likes a question they have
// already liked.  Handlers translate this into HTTP 409.
var ErrLikeExists = errors.New("like already exists")
