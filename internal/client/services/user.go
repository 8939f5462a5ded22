package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/metadata"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/requests"
	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/MacaulyV/foodbridge/internal/filex"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/google/uuid"
)

// UserService manages the signed-in user's record and profile.
type UserService interface {
	Save(ctx context.Context, u models.User) error
	// Get returns (nil, nil) when no user is stored.
	Get(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, patch models.UserPatch) (*models.User, error)
	Clear(ctx context.Context) error

	UpdateAccount(ctx context.Context, upd models.AccountUpdate) (*models.User, error)
	DeleteAccount(ctx context.Context) error
	GetComplete(ctx context.Context) (*models.UserProfile, error)

	Destination(ctx context.Context) Destination
	HasSeenOnboarding(ctx context.Context) (bool, error)
	MarkOnboardingSeen(ctx context.Context) error
	ResetOnboarding(ctx context.Context) error

	SaveProfileImage(ctx context.Context, src string) (string, error)
	ProfileImage(ctx context.Context) (string, error)
}

type userService struct {
	client    client.Client
	meta      metadata.Repository
	requests  requests.Repository
	store     userStore
	avatarDir string
	log       logging.Logger
}

// NewUserService wires the service. Avatar copies live under
// <dataDir>/avatar.
func NewUserService(c client.Client, meta metadata.Repository, reqs requests.Repository, dataDir string, log logging.Logger) UserService {
	return &userService{
		client:    c,
		meta:      meta,
		requests:  reqs,
		store:     userStore{meta: meta, log: log},
		avatarDir: filepath.Join(dataDir, "avatar"),
		log:       log,
	}
}

func (s *userService) Save(ctx context.Context, u models.User) error {
	return s.store.save(ctx, u)
}

func (s *userService) Get(ctx context.Context) (*models.User, error) {
	return s.store.load(ctx)
}

// current is Get that treats a missing user as ErrNoSession.
func (s *userService) current(ctx context.Context) (*models.User, error) {
	u, err := s.store.load(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, common.ErrNoSession
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	u, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)
	if err := s.store.save(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Clear(ctx context.Context) error {
	return s.store.clear(ctx)
}

func (s *userService) UpdateAccount(ctx context.Context, upd models.AccountUpdate) (*models.User, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	u, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	pt := u.ProfileType
	if upd.ProfileType != "" {
		pt, _ = models.ParseProfileType(string(upd.ProfileType))
	}
	req := client.UpdateUserRequest{
		Nome:   strings.TrimSpace(upd.Name),
		Email:  normalizeEmail(upd.Email),
		Cidade: strings.TrimSpace(upd.City),
		Bairro: strings.TrimSpace(upd.District),
		Tipo:   string(pt),
		Senha:  upd.Password,
	}
	api, err := s.client.UpdateUser(ctx, u.ID, req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// the server may answer with an acknowledgement only; the form wins then
	next := models.User{
		ID:          u.ID,
		Name:        req.Nome,
		Email:       req.Email,
		City:        req.Cidade,
		District:    req.Bairro,
		ProfileType: pt,
		Avatar:      u.Avatar,
	}
	if api != nil && api.HasIdentity() {
		mapped := MapAPIUser(ctx, s.log, api)
		if mapped.ID == "" {
			mapped.ID = u.ID
		}
		if mapped.ProfileType == "" {
			mapped.ProfileType = pt
		}
		if mapped.Avatar == "" {
			mapped.Avatar = u.Avatar
		}
		next = mapped
	}

	if err := s.store.save(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteAccount removes the account remotely, then wipes everything local.
func (s *userService) DeleteAccount(ctx context.Context) error {
	u, err := s.current(ctx)
	if err != nil {
		return err
	}
	if err := s.client.DeleteUser(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if path, err := s.ProfileImage(ctx); err == nil && path != "" {
		if err := filex.RemoveIfExists(path); err != nil {
			s.log.Warn(ctx, "remove avatar", "path", path, "error", err)
		}
	}
	if err := s.requests.DeleteAll(ctx); err != nil {
		return fmt.Errorf("wipe requests: %w", err)
	}
	if err := s.meta.Clear(ctx); err != nil {
		return fmt.Errorf("wipe local data: %w", err)
	}
	s.log.Info(ctx, "account deleted", "user_id", u.ID)
	return nil
}

func (s *userService) GetComplete(ctx context.Context) (*models.UserProfile, error) {
	u, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	full, err := s.client.GetUserComplete(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	user := MapAPIUser(ctx, s.log, &full.APIUser)
	if user.ID == "" {
		user.ID = u.ID
	}
	donations := full.Doacoes
	if donations == nil {
		donations = []models.Donation{}
	}
	return &models.UserProfile{User: user, Donations: donations}, nil
}

func (s *userService) HasSeenOnboarding(ctx context.Context) (bool, error) {
	v, err := s.meta.Get(ctx, KeyOnboardingSeen)
	if err != nil {
		return false, err
	}
	return string(v) == "true", nil
}

func (s *userService) MarkOnboardingSeen(ctx context.Context) error {
	return s.meta.Set(ctx, KeyOnboardingSeen, []byte("true"))
}

func (s *userService) ResetOnboarding(ctx context.Context) error {
	return s.meta.Delete(ctx, KeyOnboardingSeen)
}

// SaveProfileImage copies src into the avatar directory under a fresh name,
// stores the new path and then removes the previous copy. A crash between
// the two steps leaves an orphan file, never a dangling path.
func (s *userService) SaveProfileImage(ctx context.Context, src string) (string, error) {
	dir, err := filex.EnsureDir(s.avatarDir)
	if err != nil {
		return "", fmt.Errorf("avatar dir: %w", err)
	}
	dst, err := filex.CopyFile(src, dir, "avatar-"+uuid.NewString()+strings.ToLower(filepath.Ext(src)))
	if err != nil {
		return "", fmt.Errorf("copy avatar: %w", err)
	}

	old, err := s.ProfileImage(ctx)
	if err != nil {
		s.log.Warn(ctx, "read previous avatar", "error", err)
	}
	if err := s.meta.Set(ctx, KeyAvatarPath, []byte(dst)); err != nil {
		_ = filex.RemoveIfExists(dst)
		return "", err
	}
	if old != "" && old != dst {
		if err := filex.RemoveIfExists(old); err != nil {
			s.log.Warn(ctx, "remove previous avatar", "path", old, "error", err)
		}
	}
	return dst, nil
}

func (s *userService) ProfileImage(ctx context.Context) (string, error) {
	v, err := s.meta.Get(ctx, KeyAvatarPath)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
