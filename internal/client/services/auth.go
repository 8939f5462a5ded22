package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/metadata"
	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/MacaulyV/foodbridge/internal/cryptox"
	"github.com/MacaulyV/foodbridge/internal/dbx"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the API and persist the session together
//     with the offline verifier, in one transaction.
//   - Register: create the account, then sign in. When the API answers
//     without a user, Register falls back to Login.
//   - OfflineLogin: unlock the cached session with the last online password.
//   - CurrentSession: restore the session from the local store.
//   - Logout: drop session keys; the avatar and onboarding flag survive.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Register(ctx context.Context, reg models.Registration, password []byte) (*models.Session, error)
	OfflineLogin(ctx context.Context, email string, password []byte) (*models.Session, error)
	CurrentSession(ctx context.Context) (*models.Session, error)
	Logout(ctx context.Context) error
	CheckConnection(ctx context.Context) client.ConnectionReport
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	meta   metadata.Repository
	users  userStore
	log    logging.Logger
	now    func() time.Time
}

func NewAuthService(c client.Client, db *sql.DB, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{
		client: c,
		db:     db,
		meta:   meta,
		users:  userStore{meta: meta, log: log},
		log:    log,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	res, err := a.client.Login(ctx, normalizeEmail(email), string(password))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", client.ErrBadCredentials, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	user := MapAPIUser(ctx, a.log, res.User)
	if user.Email == "" {
		user.Email = normalizeEmail(email)
	}
	if err := a.persist(ctx, res.Token, user, email, password); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "logged in", "user_id", user.ID)
	return a.sessionFor(res.Token, user), nil
}

// persist stores token, user record and offline verifier atomically.
func (a *authService) persist(ctx context.Context, token string, user models.User, email string, password []byte) error {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := a.users.bind(tx)
		meta := users.meta
		if err := meta.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		if err := users.save(ctx, user); err != nil {
			return err
		}
		if err := meta.Set(ctx, KeyOfflineSalt, salt); err != nil {
			return err
		}
		if err := meta.Set(ctx, KeyOfflineVerifier, verifier); err != nil {
			return err
		}
		return meta.Set(ctx, KeyOfflineEmail, []byte(normalizeEmail(email)))
	})
}

func (a *authService) Register(ctx context.Context, reg models.Registration, password []byte) (*models.Session, error) {
	if err := reg.Validate(password); err != nil {
		return nil, err
	}

	pt, _ := models.ParseProfileType(string(reg.ProfileType))
	res, err := a.client.Register(ctx, client.RegisterRequest{
		Nome:   strings.TrimSpace(reg.Name),
		Email:  normalizeEmail(reg.Email),
		Senha:  string(password),
		Tipo:   string(pt),
		Cidade: strings.TrimSpace(reg.City),
		Bairro: strings.TrimSpace(reg.District),
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if res.Token == "" || res.User == nil {
		a.log.Debug(ctx, "register response without session, logging in")
		return a.Login(ctx, reg.Email, password)
	}

	user := MapAPIUser(ctx, a.log, res.User)
	if err := a.persist(ctx, res.Token, user, reg.Email, password); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "registered", "user_id", user.ID)
	return a.sessionFor(res.Token, user), nil
}

func (a *authService) OfflineLogin(ctx context.Context, email string, password []byte) (*models.Session, error) {
	savedEmail, err := a.meta.Get(ctx, KeyOfflineEmail)
	if err != nil {
		return nil, err
	}
	salt, err := a.meta.Get(ctx, KeyOfflineSalt)
	if err != nil {
		return nil, err
	}
	verifier, err := a.meta.Get(ctx, KeyOfflineVerifier)
	if err != nil {
		return nil, err
	}
	if len(savedEmail) == 0 || len(salt) == 0 || len(verifier) == 0 {
		return nil, ErrOfflineUnavailable
	}

	if string(savedEmail) != normalizeEmail(email) || !cryptox.VerifyPassword(password, salt, verifier) {
		return nil, client.ErrBadCredentials
	}

	s, err := a.restore(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoSession) {
			return nil, ErrOfflineUnavailable
		}
		return nil, err
	}
	// an expired token is still good enough to browse cached data
	s.Offline = true
	return s, nil
}

func (a *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	s, err := a.restore(ctx)
	if err != nil {
		return nil, err
	}
	if s.Expired(a.now()) {
		return nil, common.ErrSessionExpired
	}
	return s, nil
}

func (a *authService) restore(ctx context.Context) (*models.Session, error) {
	token, err := a.meta.Get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, common.ErrNoSession
	}

	user, err := a.users.load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrNoSession
	}
	return a.sessionFor(string(token), *user), nil
}

func (a *authService) sessionFor(token string, user models.User) *models.Session {
	return &models.Session{Token: token, User: user, ExpiresAt: tokenExpiry(token)}
}

// tokenExpiry reads the exp claim of a JWT without verifying it. Opaque
// tokens and tokens without exp yield the zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.meta.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) CheckConnection(ctx context.Context) client.ConnectionReport {
	return a.client.CheckConnection(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
