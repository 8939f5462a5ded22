package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/dustin/go-humanize"
)

// RequestDonation asks for a donation from the feed. The request is kept
// on this device.
func (a *App) RequestDonation(ctx context.Context, id string) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "request", err)
	}
	d, ok := findDonation(a.donationService.ListAll(ctx), id)
	if !ok {
		return a.report(ctx, "request", fmt.Errorf("donation %s: %w", id, common.ErrNotFound))
	}

	r, err := a.requestService.Request(ctx, d)
	if err != nil {
		return a.report(ctx, "request", err)
	}
	a.printf("Requested %s (request %s)\n", d.FoodName, r.ID)
	return nil
}

// Requests lists the user's requests, newest first.
func (a *App) Requests(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "requests", err)
	}
	list, err := a.requestService.List(ctx)
	if err != nil {
		return a.report(ctx, "requests", err)
	}
	if len(list) == 0 {
		a.println("No requests yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONATION\tFOOD\tSTATUS\tREQUESTED")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.DonationID, r.Donation.FoodName, r.Status, humanize.Time(r.RequestedAt))
	}
	return tw.Flush()
}

// Cancel deletes one of the user's requests.
func (a *App) Cancel(ctx context.Context, id string) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "cancel", err)
	}
	if err := a.requestService.Cancel(ctx, id); err != nil {
		return a.report(ctx, "cancel", err)
	}
	a.println("Request cancelled")
	return nil
}

// SetRequestStatus marks a waiting request accepted or rejected.
func (a *App) SetRequestStatus(ctx context.Context, id, status string) error {
	if err := a.requireSession(); err != nil {
		return a.report(ctx, "status", err)
	}
	r, err := a.requestService.SetStatus(ctx, id, models.RequestStatus(status))
	if err != nil {
		return a.report(ctx, "status", err)
	}
	a.printf("Request %s is now %s\n", r.ID, r.Status)
	return nil
}
