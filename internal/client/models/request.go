package models

import "time"

// RequestStatus is the lifecycle state of a DonationRequest.
type RequestStatus string

const (
	RequestWaiting  RequestStatus = "waiting"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// CanTransitionTo reports whether next may follow s. Only a waiting request
// moves, and only to accepted or rejected.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestWaiting && (next == RequestAccepted || next == RequestRejected)
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestWaiting, RequestAccepted, RequestRejected:
		return true
	}
	return false
}

// DonationRequest is a recipient's interest in a donation. It lives only in
// the local store; Donation is a snapshot taken when the request was made.
type DonationRequest struct {
	ID          string
	DonationID  string
	UserID      string
	Status      RequestStatus
	RequestedAt time.Time
	Donation    Donation
}
