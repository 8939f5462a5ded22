package services

import "errors"

var (
	ErrOfflineUnavailable = errors.New("no cached credentials for offline login")
	ErrDuplicateRequest   = errors.New("donation already requested")
	ErrOwnDonation        = errors.New("cannot request your own donation")
	ErrInvalidTransition  = errors.New("invalid request status transition")
)
