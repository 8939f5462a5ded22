package services

import (
	"context"
	"fmt"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/metadata"
)

// Local store keys.
const (
	KeyToken           = "token"
	KeyLegacyUser      = "user"
	KeyUserRecord      = "user_record"
	KeyOnboardingSeen  = "onboarding_seen"
	KeyAvatarPath      = "avatar_path"
	KeyOfflineSalt     = "offline_salt"
	KeyOfflineVerifier = "offline_verifier"
	KeyOfflineEmail    = "offline_email"
)

// sessionKeys are removed on logout. The avatar and the onboarding flag
// outlive the session.
var sessionKeys = []string{
	KeyToken,
	KeyLegacyUser,
	KeyUserRecord,
	KeyOfflineSalt,
	KeyOfflineVerifier,
	KeyOfflineEmail,
}

// TokenFromStore reads the bearer token from meta on every call.
func TokenFromStore(meta metadata.Repository) client.TokenSource {
	return func(ctx context.Context) (string, error) {
		v, err := meta.Get(ctx, KeyToken)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(v), nil
	}
}
