package cli

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/common"
)

// Feed lists every published donation.
func (a *App) Feed(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "feed", err)
	}
	a.printDonations(a.donationService.ListAll(ctx))
	return nil
}

// Mine lists the signed-in user's donations.
func (a *App) Mine(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "my donations", err)
	}
	a.printDonations(a.donationService.ListMine(ctx))
	return nil
}

func (a *App) printDonations(list []models.Donation) {
	if len(list) == 0 {
		a.println("No donations yet")
		return
	}

	now := time.Now()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFOOD\tEXPIRES\tDISTRICT\tPICKUP\tIMAGES")
	for _, d := range list {
		exp := d.ExpirationDate
		if len(exp) > len(common.DateLayout) {
			exp = exp[:len(common.DateLayout)]
		}
		if d.Expired(now) {
			exp += " (expired)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", d.ID, d.FoodName, exp, d.District, d.PickupTime, len(d.Images))
	}
	_ = tw.Flush()
}

// Donate prompts for a new donation and publishes it.
func (a *App) Donate(ctx context.Context) error {
	if err := a.requireOnline(); err != nil {
		return a.report(ctx, "donate", err)
	}
	in, err := a.inputDonation(models.DonationInput{})
	if err != nil {
		return err
	}

	d, err := a.donationService.Create(ctx, in)
	if err != nil {
		return a.report(ctx, "donate", err)
	}
	if d.ID == "" {
		a.println("Donation published")
		return nil
	}
	a.println("Donation published with id", d.ID)
	return nil
}

// Edit prompts for new values of one of the user's donations. Existing
// image URLs are pre-filled so they are kept unless removed.
func (a *App) Edit(ctx context.Context, id string) error {
	if err := a.requireOnline(); err != nil {
		return a.report(ctx, "edit donation", err)
	}
	cur, ok := findDonation(a.donationService.ListMine(ctx), id)
	if !ok {
		return a.report(ctx, "edit donation", fmt.Errorf("donation %s: %w", id, common.ErrNotFound))
	}

	in, err := a.inputDonation(models.FromDonation(cur))
	if err != nil {
		return err
	}
	if _, err := a.donationService.Update(ctx, id, in); err != nil {
		return a.report(ctx, "edit donation", err)
	}
	a.println("Donation updated")
	return nil
}

// Remove deletes one of the user's donations after confirmation.
func (a *App) Remove(ctx context.Context, id string) error {
	if err := a.requireOnline(); err != nil {
		return a.report(ctx, "remove donation", err)
	}
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Remove donation %s?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.donationService.Delete(ctx, id); err != nil {
		return a.report(ctx, "remove donation", err)
	}
	a.println("Donation removed")
	return nil
}

// editImages applies the image answer to cur. An empty answer keeps cur.
// When every item starts with + or -, items are added or removed one by one;
// a removal matches the full entry or its file name. Otherwise the answer
// replaces the list.
func editImages(cur, answer []string) []string {
	if len(answer) == 0 {
		return cur
	}
	for _, item := range answer {
		if !strings.HasPrefix(item, "+") && !strings.HasPrefix(item, "-") {
			return answer
		}
	}

	out := append([]string(nil), cur...)
	for _, item := range answer {
		name := strings.TrimSpace(item[1:])
		if name == "" {
			continue
		}
		if item[0] == '+' {
			out = append(out, name)
			continue
		}
		out = slices.DeleteFunc(out, func(img string) bool {
			return img == name || path.Base(strings.SplitN(img, "?", 2)[0]) == name
		})
	}
	return out
}

func findDonation(list []models.Donation, id string) (models.Donation, bool) {
	for _, d := range list {
		if string(d.ID) == id {
			return d, true
		}
	}
	return models.Donation{}, false
}

// inputDonation prompts for the donation form using cur as defaults.
func (a *App) inputDonation(cur models.DonationInput) (models.DonationInput, error) {
	in := cur
	var err error

	if in.FoodName, err = GetTextWithDefault(a.reader, "Food name", cur.FoodName, a.out); err != nil {
		return in, err
	}

	curDate := ""
	if !cur.ExpirationDate.IsZero() {
		curDate = cur.ExpirationDate.Format(common.DateLayout)
	}
	for {
		v, err := GetTextWithDefault(a.reader, "Expiration date (YYYY-MM-DD)", curDate, a.out)
		if err != nil {
			return in, err
		}
		if in.ExpirationDate, err = time.Parse(common.DateLayout, v); err == nil {
			break
		}
		a.println("Invalid date, use YYYY-MM-DD")
	}

	if in.Description, err = GetTextWithDefault(a.reader, "Description", cur.Description, a.out); err != nil {
		return in, err
	}
	if in.District, err = GetTextWithDefault(a.reader, "District", cur.District, a.out); err != nil {
		return in, err
	}
	if in.PickupTime, err = GetTextWithDefault(a.reader, "Preferred pickup time", cur.PickupTime, a.out); err != nil {
		return in, err
	}

	prompt := "Images: local paths to upload"
	if len(cur.Images) > 0 {
		prompt = fmt.Sprintf("Images [%s] (+path adds, -name removes, a plain list replaces)", strings.Join(cur.Images, ", "))
	}
	answer, err := GetList(a.reader, prompt, a.out)
	if err != nil {
		return in, err
	}
	in.Images = editImages(cur.Images, answer)

	if in.TermsAccepted, err = GetYesNo(a.reader, "I confirm the food is safe and accept the donation terms", a.out); err != nil {
		return in, err
	}
	return in, nil
}
