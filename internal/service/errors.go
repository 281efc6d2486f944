package service

import "errors"

var (
	// ErrEmptyCart: nothing eligible remains after currency filtering.
	ErrEmptyCart = errors.New("no eligible items in cart")
	// ErrMissingIdentity: payment cannot be attributed without a buyer email.
	ErrMissingIdentity = errors.New("buyer email is required")
	// ErrGatewayResponse: the gateway answered without a usable redirect URL.
	ErrGatewayResponse = errors.New("gateway returned no redirect url")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCourseNotFound     = errors.New("course not found")
)
