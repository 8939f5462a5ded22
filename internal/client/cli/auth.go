package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/services"
	"github.com/MacaulyV/foodbridge/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account form and password, creates the account
// and signs in. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &reg.Name},
		{"Email", &reg.Email},
		{"City", &reg.City},
		{"District", &reg.District},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	pt, err := getSimpleText(a.reader, "Profile type (Pessoa Física, Pessoa Jurídica, Organização, ONG)", a.out)
	if err != nil {
		return err
	}
	reg.ProfileType = models.ProfileType(pt)
	if parsed, ok := models.ParseProfileType(pt); ok {
		reg.ProfileType = parsed
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Register(ctx, reg, password)
	if err != nil {
		return a.report(ctx, "register", err)
	}

	a.startSession(s, ModeOnline)
	a.println("Welcome to FoodBridge,", s.User.Name+"!")
	return a.Home(ctx)
}

// Login prompts the user for credentials and tries to authenticate.
//
// The method first attempts an online login. If the server is unavailable
// (errors.Is(err, client.ErrUnavailable)), it falls back to offline login
// against the verifier saved at the last online login. The resulting Mode
// is ModeOnline, ModeOffline, or ModeDisabled when both fail.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err == nil {
		a.startSession(s, ModeOnline)
		a.println("Login successful")
		return a.Home(ctx)
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return a.report(ctx, "login", err)
	}

	a.println("Server unavailable, trying offline login...")
	s, offErr := a.authService.OfflineLogin(ctx, email, password)
	if offErr != nil {
		a.setMode(ModeDisabled)
		a.log.Debug(ctx, "offline login failed", "error", offErr)
		return a.report(ctx, "login", err)
	}
	a.startSession(s, ModeOffline)
	a.println("Offline login successful; cached data is read-only")
	return nil
}

func (a *App) startSession(s *models.Session, mode Mode) {
	a.session = s
	a.setMode(mode)
}

// Logout clears the stored session. The avatar and onboarding flag stay.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return a.report(ctx, "logout", err)
	}
	a.session = nil
	a.println("Logged out")
	return nil
}

// DeleteAccount asks for confirmation, deletes the account on the server
// and wipes local data.
func (a *App) DeleteAccount(ctx context.Context) error {
	if err := a.requireOnline(); err != nil {
		return a.report(ctx, "delete account", err)
	}
	answer, err := getSimpleText(a.reader, "Type DELETE to remove your account and all local data", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) != "DELETE" {
		a.println("Cancelled")
		return nil
	}

	if err := a.userService.DeleteAccount(ctx); err != nil {
		return a.report(ctx, "delete account", err)
	}
	a.session = nil
	a.println("Account deleted")
	return nil
}

// restoreSession loads the saved session at startup. Without one it shows
// onboarding to first-time users.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.authService.CurrentSession(ctx)
	switch {
	case err == nil:
		a.startSession(s, ModeOnline)
		a.println("Welcome back,", s.User.Name)
		return
	case errors.Is(err, common.ErrSessionExpired):
		a.println("Your session has ended. Please log in again.")
	case !errors.Is(err, common.ErrNoSession):
		a.log.Warn(ctx, "restore session", "error", err)
	}

	if a.userService.Destination(ctx) == services.DestinationOnboarding {
		a.showOnboarding(ctx)
	}
}
