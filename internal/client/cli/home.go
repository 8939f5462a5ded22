package cli

import (
	"context"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/services"
)

const onboardingText = `FoodBridge connects people and companies with surplus food to
organizations and NGOs that distribute it.

  Donors (Pessoa Física, Pessoa Jurídica) publish donations with photos,
  an expiration date and a pickup time.
  Organizations and NGOs browse the feed and request what they can collect.

Type 'register' to create an account or 'login' if you already have one.`

// Root prints the greeting, restores the saved session or shows onboarding,
// and opens the home view when signed in.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to FoodBridge CLI (type 'help' for commands)")
	a.restoreSession(ctx)
	if a.isLoggedIn() {
		a.checkOnline(ctx)
		_ = a.Home(ctx)
	}
}

func (a *App) showOnboarding(ctx context.Context) {
	a.println(onboardingText)
	if err := a.userService.MarkOnboardingSeen(ctx); err != nil {
		a.log.Warn(ctx, "mark onboarding seen", "error", err)
	}
}

// Home opens the view the signed-in user's profile type routes to.
func (a *App) Home(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "home", err)
	}

	switch a.userService.Destination(ctx) {
	case services.DestinationDonationFeed:
		a.println("Home: donation feed")
		return a.Feed(ctx)
	case services.DestinationMyDonations:
		a.println("Home: your donations")
		return a.Mine(ctx)
	default:
		a.showOnboarding(ctx)
		return nil
	}
}

// ResetOnboarding clears the onboarding flag so it shows on next start.
func (a *App) ResetOnboarding(ctx context.Context) error {
	if err := a.userService.ResetOnboarding(ctx); err != nil {
		return a.report(ctx, "reset onboarding", err)
	}
	a.println("Onboarding will show on next start")
	return nil
}

// Ping probes the API and prints the endpoint that answered.
func (a *App) Ping(ctx context.Context) error {
	rep := a.authService.CheckConnection(ctx)
	if !rep.OK {
		a.setMode(ModeOffline)
		return a.report(ctx, "ping", rep.Err)
	}
	a.setMode(ModeOnline)
	a.printf("API reachable via %s (HTTP %d) in %s\n", rep.Endpoint, rep.Status, rep.Latency.Round(time.Millisecond))
	return nil
}
