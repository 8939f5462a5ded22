package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/requests"
	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/google/uuid"
)

// RequestService tracks the donations the current user asked for. Requests
// are kept on the device only.
type RequestService interface {
	Request(ctx context.Context, d models.Donation) (*models.DonationRequest, error)
	List(ctx context.Context) ([]models.DonationRequest, error)
	Cancel(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.RequestStatus) (*models.DonationRequest, error)
}

type requestService struct {
	repo  requests.Repository
	users UserService
	log   logging.Logger
	now   func() time.Time
}

func NewRequestService(repo requests.Repository, users UserService, log logging.Logger) RequestService {
	return &requestService{repo: repo, users: users, log: log, now: time.Now}
}

func (s *requestService) Request(ctx context.Context, d models.Donation) (*models.DonationRequest, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if d.ID == "" {
		return nil, fmt.Errorf("%w: donation id", common.ErrValidation)
	}
	if string(d.UserID) == userID {
		return nil, ErrOwnDonation
	}

	_, err = s.repo.FindActive(ctx, userID, string(d.ID))
	switch {
	case err == nil:
		return nil, ErrDuplicateRequest
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	r := &models.DonationRequest{
		ID:          uuid.NewString(),
		DonationID:  string(d.ID),
		UserID:      userID,
		Status:      models.RequestWaiting,
		RequestedAt: s.now().UTC(),
		Donation:    d,
	}
	if err := s.repo.Insert(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "donation requested", "request_id", r.ID, "donation_id", r.DonationID)
	return r, nil
}

func (s *requestService) List(ctx context.Context) ([]models.DonationRequest, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// owned loads a request of the current user. Requests of other users on
// the same device are reported as not found.
func (s *requestService) owned(ctx context.Context, id string) (*models.DonationRequest, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, common.ErrNotFound
	}
	return r, nil
}

func (s *requestService) Cancel(ctx context.Context, id string) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "request cancelled", "request_id", id)
	return nil
}

func (s *requestService) SetStatus(ctx context.Context, id string, status models.RequestStatus) (*models.DonationRequest, error) {
	r, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	r.Status = status
	return r, nil
}
