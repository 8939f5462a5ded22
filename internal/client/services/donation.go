package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/MacaulyV/foodbridge/internal/netx"
)

// Multipart field names of the donation endpoints.
const (
	fieldFoodName     = "nome_alimento"
	fieldExpiration   = "data_validade"
	fieldDescription  = "descricao"
	fieldDistrict     = "bairro_ou_distrito"
	fieldPickupTime   = "horario_retirada"
	fieldTerms        = "aceite_termos"
	fieldUserID       = "usuario_id"
	fieldImages       = "imagens"
	fieldImagesToKeep = "imagens_manter"
)

// DonationService publishes and browses donations. The list operations
// never fail: errors are logged and an empty list is returned.
type DonationService interface {
	Create(ctx context.Context, in models.DonationInput) (*models.Donation, error)
	ListAll(ctx context.Context) []models.Donation
	ListMine(ctx context.Context) []models.Donation
	Update(ctx context.Context, id string, in models.DonationInput) (*models.Donation, error)
	Delete(ctx context.Context, id string) error
}

type donationService struct {
	client client.Client
	users  UserService
	log    logging.Logger
}

func NewDonationService(c client.Client, users UserService, log logging.Logger) DonationService {
	return &donationService{client: c, users: users, log: log}
}

func (s *donationService) currentUserID(ctx context.Context) (string, error) {
	return currentUserID(ctx, s.users)
}

func (s *donationService) Create(ctx context.Context, in models.DonationInput) (*models.Donation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	form := donationForm(in, userID)
	kept, fresh := partitionImages(in.Images)
	if len(kept) > 0 {
		s.log.Warn(ctx, "remote images ignored on create", "count", len(kept))
	}
	for _, p := range fresh {
		form.Attach(fieldImages, p)
	}

	d, err := s.client.CreateDonation(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	s.log.Info(ctx, "donation created", "id", d.ID, "images", len(fresh))
	return d, nil
}

func (s *donationService) ListAll(ctx context.Context) []models.Donation {
	list, err := s.client.ListDonations(ctx)
	if err != nil {
		s.log.Error(ctx, "list donations", "error", err)
		return []models.Donation{}
	}
	return orEmpty(list)
}

func (s *donationService) ListMine(ctx context.Context) []models.Donation {
	userID, err := s.currentUserID(ctx)
	if err != nil {
		s.log.Error(ctx, "list my donations", "error", err)
		return []models.Donation{}
	}
	list, err := s.client.ListUserDonations(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "list my donations", "user_id", userID, "error", err)
		return []models.Donation{}
	}
	return orEmpty(list)
}

// Update sends new local images as files and names the remote ones to keep
// in imagens_manter. The field is omitted when nothing is kept.
func (s *donationService) Update(ctx context.Context, id string, in models.DonationInput) (*models.Donation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	form := donationForm(in, userID)
	kept, fresh := partitionImages(in.Images)
	for _, p := range fresh {
		form.Attach(fieldImages, p)
	}
	if len(kept) > 0 {
		names := make([]string, 0, len(kept))
		for _, u := range kept {
			names = append(names, remoteFileName(u))
		}
		form.Set(fieldImagesToKeep, strings.Join(names, ","))
	}

	d, err := s.client.UpdateDonation(ctx, id, form)
	if err != nil {
		return nil, fmt.Errorf("update donation %s: %w", id, err)
	}
	s.log.Info(ctx, "donation updated", "id", id, "kept", len(kept), "added", len(fresh))
	return d, nil
}

func (s *donationService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteDonation(ctx, id); err != nil {
		return fmt.Errorf("delete donation %s: %w", id, err)
	}
	s.log.Info(ctx, "donation deleted", "id", id)
	return nil
}

// currentUserID returns the stored user's id or common.ErrNoSession.
func currentUserID(ctx context.Context, users UserService) (string, error) {
	u, err := users.Get(ctx)
	if err != nil {
		return "", err
	}
	if u == nil || u.ID == "" {
		return "", common.ErrNoSession
	}
	return u.ID, nil
}

func donationForm(in models.DonationInput, userID string) *netx.Form {
	form := &netx.Form{}
	form.Set(fieldFoodName, strings.TrimSpace(in.FoodName))
	form.Set(fieldExpiration, in.ExpirationDate.Format(common.DateLayout))
	form.Set(fieldDescription, strings.TrimSpace(in.Description))
	form.Set(fieldDistrict, strings.TrimSpace(in.District))
	form.Set(fieldPickupTime, strings.TrimSpace(in.PickupTime))
	form.Set(fieldTerms, strconv.FormatBool(in.TermsAccepted))
	form.Set(fieldUserID, userID)
	return form
}

// partitionImages splits images into already uploaded URLs and local files.
func partitionImages(images []string) (kept, fresh []string) {
	for _, img := range images {
		img = strings.TrimSpace(img)
		switch {
		case img == "":
		case strings.HasPrefix(img, "http"):
			kept = append(kept, img)
		default:
			fresh = append(fresh, img)
		}
	}
	return kept, fresh
}

// remoteFileName returns the last path element of an image URL.
func remoteFileName(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}

func orEmpty(list []models.Donation) []models.Donation {
	if list == nil {
		return []models.Donation{}
	}
	return list
}
