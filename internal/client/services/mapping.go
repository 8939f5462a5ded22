package services

import (
	"context"
	"strings"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/logging"
)

// DefaultUserName is used when the API returned no user.
const DefaultUserName = "Usuário"

// MapAPIUser converts the server shape to the stored record. A nil input
// yields a record named DefaultUserName with every other field empty.
// Unknown profile labels are kept verbatim so routing can treat them as
// unknown.
func MapAPIUser(ctx context.Context, log logging.Logger, in *models.APIUser) models.User {
	if in == nil {
		return models.User{Name: DefaultUserName}
	}
	if !in.HasIdentity() && (in.Success || in.Message != "") {
		log.Warn(ctx, "api returned an acknowledgement instead of a user", "message", in.Message)
	}

	pt := models.ProfileType(strings.TrimSpace(in.Tipo))
	if parsed, ok := models.ParseProfileType(in.Tipo); ok {
		pt = parsed
	}

	return models.User{
		ID:          string(in.ID),
		Name:        in.Nome,
		Email:       in.Email,
		City:        in.Cidade,
		District:    in.Bairro,
		ProfileType: pt,
		Avatar:      in.Avatar,
	}
}
