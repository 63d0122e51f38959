package usecase

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrNotOwner           = errors.New("resource belongs to another user")
	ErrPaymentDeclined    = errors.New("payment declined")
)
