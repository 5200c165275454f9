package store

import "errors"

// ErrVisitorNotFound is returned when a lookup targets an absent record.
// Handlers translate it into an HTTP 404 (or 401 for the returning-visitor
// login, where a miss means the identity check failed).
var ErrVisitorNotFound = errors.New("visitor not found")

// ErrAdminNotFound is returned when no admin account matches the username.
var ErrAdminNotFound = errors.New("admin not found")

// ErrAdminExists is returned when Create collides with an existing username.
var ErrAdminExists = errors.New("admin username already exists")
