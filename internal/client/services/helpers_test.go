package services

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/metadata"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/requests"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/MacaulyV/foodbridge/internal/netx"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type env struct {
	db     *sql.DB
	meta   metadata.Repository
	reqs   requests.Repository
	client *fakeClient
	log    logging.Logger
	logBuf *bytes.Buffer
	dir    string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	db, err := client.InitDatabase(context.Background(), filepath.Join(dir, "foodbridge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	buf := &bytes.Buffer{}
	return &env{
		db:     db,
		meta:   metadata.NewSQLiteRepository(db),
		reqs:   requests.NewSQLiteRepository(db),
		client: &fakeClient{},
		log:    logging.NewTextLogger(buf, "debug"),
		logBuf: buf,
		dir:    dir,
	}
}

func (e *env) auth() *authService {
	return NewAuthService(e.client, e.db, e.meta, e.log).(*authService)
}

func (e *env) users() *userService {
	return NewUserService(e.client, e.meta, e.reqs, e.dir, e.log).(*userService)
}

func (e *env) donations() DonationService {
	return NewDonationService(e.client, e.users(), e.log)
}

func (e *env) requestSvc() *requestService {
	return NewRequestService(e.reqs, e.users(), e.log).(*requestService)
}

func (e *env) signIn(t *testing.T, u models.User) {
	t.Helper()
	require.NoError(t, e.meta.Set(context.Background(), KeyToken, []byte("tok")))
	require.NoError(t, e.users().Save(context.Background(), u))
}

func (e *env) get(t *testing.T, key string) []byte {
	t.Helper()
	v, err := e.meta.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	LoginRet    *client.AuthResult
	LoginErr    error
	LoginCalls  int
	LastLogin   [2]string
	RegisterRet *client.AuthResult
	RegisterErr error
	LastReg     client.RegisterRequest

	UpdateUserRet *models.APIUser
	UpdateUserErr error
	LastUpdateID  string
	LastUpdate    client.UpdateUserRequest
	DeleteUserErr error
	DeletedUserID string
	CompleteRet   *models.APIUserComplete
	CompleteErr   error

	CreateRet     *models.Donation
	CreateErr     error
	LastForm      *netx.Form
	ListRet       []models.Donation
	ListErr       error
	ListUserRet   []models.Donation
	ListUserErr   error
	LastListUser  string
	UpdateRet     *models.Donation
	UpdateErr     error
	LastUpdatedID string
	DeleteErr     error
	DeletedID     string

	PingErr error
	Report  client.ConnectionReport
	Closed  bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { f.Closed = true; return nil }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) CheckConnection(ctx context.Context) client.ConnectionReport { return f.Report }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastLogin = [2]string{email, password}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResult, error) {
	f.LastReg = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, id string, req client.UpdateUserRequest) (*models.APIUser, error) {
	f.LastUpdateID, f.LastUpdate = id, req
	return f.UpdateUserRet, f.UpdateUserErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, id string) error {
	f.DeletedUserID = id
	return f.DeleteUserErr
}

func (f *fakeClient) GetUserComplete(ctx context.Context, id string) (*models.APIUserComplete, error) {
	return f.CompleteRet, f.CompleteErr
}

func (f *fakeClient) CreateDonation(ctx context.Context, form *netx.Form) (*models.Donation, error) {
	f.LastForm = form
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) ListDonations(ctx context.Context) ([]models.Donation, error) {
	return f.ListRet, f.ListErr
}

func (f *fakeClient) ListUserDonations(ctx context.Context, userID string) ([]models.Donation, error) {
	f.LastListUser = userID
	return f.ListUserRet, f.ListUserErr
}

func (f *fakeClient) UpdateDonation(ctx context.Context, id string, form *netx.Form) (*models.Donation, error) {
	f.LastUpdatedID, f.LastForm = id, form
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteDonation(ctx context.Context, id string) error {
	f.DeletedID = id
	return f.DeleteErr
}
