package services

import (
	"context"

	"github.com/MacaulyV/foodbridge/internal/client/models"
)

// Destination is the first screen shown after sign-in.
type Destination string

const (
	DestinationOnboarding   Destination = "onboarding"
	DestinationLogin        Destination = "login"
	DestinationDonationFeed Destination = "donation-feed"
	DestinationMyDonations  Destination = "my-donations"
)

// RouteByProfile sends organizations and NGOs to the donation feed and
// individuals and companies to their own donations. Anything else goes to
// onboarding.
func RouteByProfile(profile string) Destination {
	pt, _ := models.ParseProfileType(profile)
	switch pt {
	case models.ProfileNGO, models.ProfileOrganization:
		return DestinationDonationFeed
	case models.ProfileIndividual, models.ProfileCompany:
		return DestinationMyDonations
	default:
		return DestinationOnboarding
	}
}

// Destination routes the stored user. Without one, first-time users see
// onboarding and returning users the login. Storage errors count as no user.
func (s *userService) Destination(ctx context.Context) Destination {
	u, err := s.store.load(ctx)
	if err != nil {
		s.log.Warn(ctx, "read user for routing", "error", err)
	}
	if u != nil {
		return RouteByProfile(string(u.ProfileType))
	}

	seen, err := s.HasSeenOnboarding(ctx)
	if err != nil {
		s.log.Warn(ctx, "read onboarding flag", "error", err)
	}
	if seen {
		return DestinationLogin
	}
	return DestinationOnboarding
}
