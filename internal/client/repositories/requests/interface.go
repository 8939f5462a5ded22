// Package requests persists donation requests made from this device.
//
// Requests are local only: the API has no endpoint for them. Each row keeps
// a JSON snapshot of the donation as it looked when the request was made.
package requests

import (
	"context"

	"github.com/MacaulyV/foodbridge/internal/client/models"
)

// Repository describes the request store. Lookups of unknown ids return
// common.ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, r *models.DonationRequest) error
	GetByID(ctx context.Context, id string) (*models.DonationRequest, error)
	// ListByUser returns the user's requests, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.DonationRequest, error)
	FindActive(ctx context.Context, userID, donationID string) (*models.DonationRequest, error)
	UpdateStatus(ctx context.Context, id string, status models.RequestStatus) error
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
