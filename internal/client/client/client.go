package client

import (
	"context"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/netx"
)

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Senha  string `json:"senha"`
	Tipo   string `json:"tipo"`
	Cidade string `json:"cidade"`
	Bairro string `json:"bairro_ou_distrito"`
}

// UpdateUserRequest is the body of PUT /users/:id. An empty Senha keeps the
// current password.
type UpdateUserRequest struct {
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Cidade string `json:"cidade"`
	Bairro string `json:"bairro_ou_distrito"`
	Tipo   string `json:"tipo,omitempty"`
	Senha  string `json:"senha,omitempty"`
}

// AuthResult is a parsed login or register response. User is nil when the
// response carried no user object.
type AuthResult struct {
	Token string
	User  *models.APIUser
}

// ConnectionReport is the outcome of CheckConnection.
type ConnectionReport struct {
	OK       bool
	Endpoint string
	Status   int
	Latency  time.Duration
	Err      error
}

// TokenSource returns the bearer token to attach to a request. An empty
// token means no Authorization header.
type TokenSource func(ctx context.Context) (string, error)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	CheckConnection(ctx context.Context) ConnectionReport

	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	// UpdateUser returns (nil, nil) when the server only acknowledges.
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*models.APIUser, error)
	DeleteUser(ctx context.Context, id string) error
	GetUserComplete(ctx context.Context, id string) (*models.APIUserComplete, error)

	// CreateDonation and UpdateDonation return an empty Donation when the
	// body carries none.
	CreateDonation(ctx context.Context, form *netx.Form) (*models.Donation, error)
	ListDonations(ctx context.Context) ([]models.Donation, error)
	ListUserDonations(ctx context.Context, userID string) ([]models.Donation, error)
	UpdateDonation(ctx context.Context, id string, form *netx.Form) (*models.Donation, error)
	DeleteDonation(ctx context.Context, id string) error
}
