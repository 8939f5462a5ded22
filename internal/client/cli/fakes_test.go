package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/config"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/services"
	"github.com/MacaulyV/foodbridge/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

type testApp struct {
	*App
	auth      *fakeAuth
	users     *fakeUsers
	donations *fakeDonations
	requests  *fakeRequests
	out       *bytes.Buffer
}

func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()
	ta := &testApp{
		auth:      &fakeAuth{},
		users:     &fakeUsers{dest: services.DestinationDonationFeed},
		donations: &fakeDonations{},
		requests:  &fakeRequests{},
		out:       &bytes.Buffer{},
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	ta.App = &App{
		config:          cfg,
		log:             logging.Nop(),
		authService:     ta.auth,
		userService:     ta.users,
		donationService: ta.donations,
		requestService:  ta.requests,
		reader:          readerFromLines(lines...),
		out:             ta.out,
	}
	return ta
}

func (ta *testApp) signIn(mode Mode) {
	ta.session = &models.Session{Token: "t", User: models.User{ID: "7", Name: "Ana"}}
	ta.mode = mode
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

// ------------ fakes ------------

type fakeAuth struct {
	loginSession *models.Session
	loginErr     error
	loginEmail   string
	loginPass    string

	offlineSession *models.Session
	offlineErr     error
	offlineCalls   int

	regSession *models.Session
	regErr     error
	lastReg    models.Registration

	current    *models.Session
	currentErr error

	logoutCalls int
	logoutErr   error

	report  client.ConnectionReport
	pingErr error
	pings   int
	closed  bool
}

func (f *fakeAuth) Login(_ context.Context, email string, pw []byte) (*models.Session, error) {
	f.loginEmail, f.loginPass = email, string(pw)
	return f.loginSession, f.loginErr
}
func (f *fakeAuth) Register(_ context.Context, reg models.Registration, _ []byte) (*models.Session, error) {
	f.lastReg = reg
	return f.regSession, f.regErr
}
func (f *fakeAuth) OfflineLogin(context.Context, string, []byte) (*models.Session, error) {
	f.offlineCalls++
	return f.offlineSession, f.offlineErr
}
func (f *fakeAuth) CurrentSession(context.Context) (*models.Session, error) {
	return f.current, f.currentErr
}
func (f *fakeAuth) Logout(context.Context) error { f.logoutCalls++; return f.logoutErr }
func (f *fakeAuth) CheckConnection(context.Context) client.ConnectionReport {
	return f.report
}
func (f *fakeAuth) Ping(context.Context) error  { f.pings++; return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { f.closed = true; return nil }

type fakeUsers struct {
	services.UserService

	dest           services.Destination
	onboardingSeen bool
	resetCalls     int
	complete       *models.UserProfile
	completeErr    error
	updated        models.AccountUpdate
	updateErr      error
	deleteCalls    int
	deleteErr      error
	avatarSrc      string
	avatarErr      error
}

func (f *fakeUsers) Destination(context.Context) services.Destination { return f.dest }
func (f *fakeUsers) MarkOnboardingSeen(context.Context) error {
	f.onboardingSeen = true
	return nil
}
func (f *fakeUsers) ResetOnboarding(context.Context) error { f.resetCalls++; return nil }
func (f *fakeUsers) GetComplete(context.Context) (*models.UserProfile, error) {
	return f.complete, f.completeErr
}
func (f *fakeUsers) UpdateAccount(_ context.Context, upd models.AccountUpdate) (*models.User, error) {
	f.updated = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.User{ID: "7", Name: upd.Name, Email: upd.Email}, nil
}
func (f *fakeUsers) DeleteAccount(context.Context) error { f.deleteCalls++; return f.deleteErr }
func (f *fakeUsers) SaveProfileImage(_ context.Context, src string) (string, error) {
	f.avatarSrc = src
	return "/data/avatar/new.png", f.avatarErr
}
func (f *fakeUsers) ProfileImage(context.Context) (string, error) { return "", nil }

type fakeDonations struct {
	all, mine   []models.Donation
	created     models.DonationInput
	createRet   *models.Donation
	createCalls int
	createErr   error
	updatedID   string
	updated     models.DonationInput
	updateErr   error
	deletedID   string
	deleteErr   error
}

func (f *fakeDonations) Create(_ context.Context, in models.DonationInput) (*models.Donation, error) {
	f.createCalls++
	f.created = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createRet != nil {
		return f.createRet, nil
	}
	return &models.Donation{ID: "100"}, nil
}
func (f *fakeDonations) ListAll(context.Context) []models.Donation  { return f.all }
func (f *fakeDonations) ListMine(context.Context) []models.Donation { return f.mine }
func (f *fakeDonations) Update(_ context.Context, id string, in models.DonationInput) (*models.Donation, error) {
	f.updatedID, f.updated = id, in
	return &models.Donation{ID: models.FlexID(id)}, f.updateErr
}
func (f *fakeDonations) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

type fakeRequests struct {
	requested  []models.Donation
	requestErr error
	list       []models.DonationRequest
	cancelled  string
	cancelErr  error
	statusID   string
	status     models.RequestStatus
	statusErr  error
}

func (f *fakeRequests) Request(_ context.Context, d models.Donation) (*models.DonationRequest, error) {
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	f.requested = append(f.requested, d)
	return &models.DonationRequest{ID: "r1", DonationID: string(d.ID), Status: models.RequestWaiting}, nil
}
func (f *fakeRequests) List(context.Context) ([]models.DonationRequest, error) { return f.list, nil }
func (f *fakeRequests) Cancel(_ context.Context, id string) error {
	f.cancelled = id
	return f.cancelErr
}
func (f *fakeRequests) SetStatus(_ context.Context, id string, st models.RequestStatus) (*models.DonationRequest, error) {
	f.statusID, f.status = id, st
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &models.DonationRequest{ID: id, Status: st}, nil
}
