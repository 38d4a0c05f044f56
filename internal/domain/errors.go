package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotOwner           = errors.New("not authorized to modify this event or event not found")
	ErrAlreadyJoined      = errors.New("you have already joined this event")
	ErrNotJoined          = errors.New("you are not attending this event")
)
