package cli

import (
	"context"
	"strings"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/common"
)

// Profile prints the user with their donations. Offline it prints the
// cached record only.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "profile", err)
	}

	user := a.session.User
	var donations []models.Donation
	if a.isOnline() {
		p, err := a.userService.GetComplete(ctx)
		if err != nil {
			return a.report(ctx, "profile", err)
		}
		user, donations = p.User, p.Donations
	}

	a.printf("Name:      %s\n", user.Name)
	a.printf("Email:     %s\n", user.Email)
	a.printf("City:      %s\n", user.City)
	a.printf("District:  %s\n", user.District)
	a.printf("Profile:   %s\n", user.ProfileType)
	if img, err := a.userService.ProfileImage(ctx); err == nil && img != "" {
		a.printf("Avatar:    %s\n", img)
	}
	if donations != nil {
		a.printf("Donations: %d\n", len(donations))
		a.printDonations(donations)
	}
	return nil
}

// EditProfile prompts for each field with the current value as default.
// An empty password keeps the current one.
func (a *App) EditProfile(ctx context.Context) error {
	if err := a.requireOnline(); err != nil {
		return a.report(ctx, "edit profile", err)
	}
	cur := a.session.User
	upd := models.AccountUpdate{}

	fields := []struct {
		prompt, current string
		dst             *string
	}{
		{"Name", cur.Name, &upd.Name},
		{"Email", cur.Email, &upd.Email},
		{"City", cur.City, &upd.City},
		{"District", cur.District, &upd.District},
	}
	for _, f := range fields {
		v, err := GetTextWithDefault(a.reader, f.prompt, f.current, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	pt, err := GetTextWithDefault(a.reader, "Profile type", string(cur.ProfileType), a.out)
	if err != nil {
		return err
	}
	upd.ProfileType = models.ProfileType(pt)

	change, err := GetYesNo(a.reader, "Change password?", a.out)
	if err != nil {
		return err
	}
	if change {
		pw, err := getPassword(a.out)
		if err != nil {
			return err
		}
		upd.Password = string(pw)
		common.WipeByteArray(pw)
	}

	u, err := a.userService.UpdateAccount(ctx, upd)
	if err != nil {
		return a.report(ctx, "edit profile", err)
	}
	a.session.User = *u
	a.println("Profile updated")
	return nil
}

// Avatar replaces the profile image with a copy of the file at path.
func (a *App) Avatar(ctx context.Context, path string) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "avatar", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		p, err := getSimpleText(a.reader, "Image path", a.out)
		if err != nil {
			return err
		}
		path = p
	}

	saved, err := a.userService.SaveProfileImage(ctx, path)
	if err != nil {
		return a.report(ctx, "avatar", err)
	}
	a.println("Avatar saved to", saved)
	return nil
}
