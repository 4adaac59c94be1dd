package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/auth"
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/handlers"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/store"
)

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) listDrivers(ctx context.Context, args []string) error {
	fs := newFlagSet("drivers", a.out)
	search := fs.String("search", "", "match name or city")
	location := fs.String("location", "", "exact base city")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.store.FetchDrivers(ctx, a.drivers); err != nil {
		return err
	}
	drivers := store.SelectBookableDrivers(a.store, booking.DriverFilter{Search: *search, Location: *location})

	w := a.table()
	fmt.Fprintln(w, "ID\tNAME\tCITY\tRATE")
	for _, d := range drivers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/h\n", d.ID, d.Name(), d.BaseCity, booking.FormatAmount(d.HourlyRate.Float(), booking.Currency))
	}
	return w.Flush()
}

func (a *app) listBookings(ctx context.Context, args []string) error {
	fs := newFlagSet("bookings", a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.store.FetchBookings(ctx, a.bookings); err != nil {
		return err
	}
	a.printBookings(store.SelectBookings(a.store))
	return nil
}

func (a *app) printBookings(list []models.ApiBooking) {
	w := a.table()
	fmt.Fprintln(w, "ID\tDRIVER\tSTART\tHOURS\tTOTAL\tSTATUS\tPAYMENT")
	for _, b := range list {
		currency := b.Pricing.Currency
		if currency == "" {
			currency = booking.Currency
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			b.ID, b.Driver.Name(), b.StartAt.Local().Format("2006-01-02 15:04"),
			b.Pricing.HoursRequested.Int(), booking.FormatAmount(b.Total(), currency),
			b.Status, b.PaymentStatus)
	}
	w.Flush()
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := newFlagSet("book", a.out)
	driverID := fs.String("driver", "", "driver profile id")
	hours := fs.Int("hours", booking.MinHours, "hours to book (1-24)")
	pickup := fs.String("pickup", "", "pickup address")
	dropoff := fs.String("dropoff", "", "dropoff address")
	start := fs.String("start", "", "start time, RFC3339")
	notes := fs.String("notes", "", "notes for the driver")
	agent := fs.Bool("agent", false, "book on behalf of a customer")
	customer := fs.String("customer", "", "customer user id (agent bookings)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *driverID == "" {
		return errors.New("-driver is required")
	}

	alerts := &handlers.AlertRecorder{}
	d, err := a.dashboard(*agent, alerts)
	if err != nil {
		return err
	}
	defer d.Unmount()
	if err := d.Mount(ctx); err != nil {
		if store.SelectDriversStatus(a.store) != store.StatusSucceeded {
			return err
		}
		log.WithError(err).Warn("Some listings failed to load")
	}

	if err := d.SelectDriver(*driverID); err != nil {
		return err
	}
	if err := d.DispatchDrawer(booking.DrawerAction{Type: booking.SetDrawerHours, Hours: *hours}); err != nil {
		return err
	}
	if *agent && *customer != "" {
		name := ""
		for _, u := range d.SearchUsers("") {
			if u.ID == *customer {
				name = u.FullName
			}
		}
		if err := d.DispatchDrawer(booking.DrawerAction{Type: booking.SelectCustomer, UserID: *customer, UserName: name}); err != nil {
			return err
		}
	}
	drawer, _ := d.Drawer()
	fmt.Fprintf(a.out, "Booking %s for %d h: %s\n", drawer.Driver.Name(), drawer.Hours, booking.FormatAmount(drawer.TotalAmount, booking.Currency))

	if err := d.ConfirmDrawer(); err != nil {
		return err
	}
	actions := []booking.FormAction{
		{Type: booking.SetPickup, Location: booking.FormLocation{Address: *pickup}},
		{Type: booking.SetDropoff, Location: booking.FormLocation{Address: *dropoff}},
		{Type: booking.SetNotes, Text: *notes},
	}
	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		actions = append(actions, booking.FormAction{Type: booking.SetStart, Time: t})
	}
	for _, act := range actions {
		if err := d.DispatchForm(act); err != nil {
			return err
		}
	}

	if err := d.SubmitBooking(ctx); err != nil {
		return err
	}
	if text, ok := d.Banner().Current(); ok {
		fmt.Fprintln(a.out, text)
	}
	if list := d.Bookings(); len(list) > 0 {
		fmt.Fprintf(a.out, "Booking id: %s (%s)\n", list[0].ID, list[0].Status)
	}
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := newFlagSet("pay", a.out)
	id := fs.String("booking", "", "booking id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-booking is required")
	}

	alerts := &handlers.AlertRecorder{}
	d, err := a.dashboard(false, alerts)
	if err != nil {
		return err
	}
	defer d.Unmount()
	if err := d.Mount(ctx); err != nil {
		if store.SelectBookingsStatus(a.store) != store.StatusSucceeded {
			return err
		}
		log.WithError(err).Warn("Some listings failed to load")
	}

	outcome, err := d.ClickBooking(*id)
	if err != nil {
		return err
	}
	if outcome != booking.OutcomeOpenPayment {
		if msgs := alerts.Alerts(); len(msgs) > 0 {
			return errors.New(msgs[len(msgs)-1])
		}
		return errors.New("this booking cannot be paid")
	}

	view, _ := d.PaymentView()
	fmt.Fprintf(a.out, "Paying %s for %d h with %s\n", view.Display, view.Hours, view.DriverName)
	if err := d.ConfirmPayment(ctx); err != nil {
		return err
	}
	if text, ok := d.Banner().Current(); ok {
		fmt.Fprintln(a.out, text)
	}
	return nil
}

func (a *app) dashboard(agent bool, alerts handlers.Alerter) (*handlers.Dashboard, error) {
	if agent {
		return handlers.NewAgentDashboard(a.deps(alerts)), nil
	}
	return handlers.NewCustomerDashboard(a.deps(alerts), a.session)
}

func (a *app) listUsers(ctx context.Context, args []string) error {
	fs := newFlagSet("users", a.out)
	search := fs.String("search", "", "match name, email, phone or role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	users, err := a.users.List(ctx)
	if err != nil {
		return err
	}

	w := a.table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tROLES")
	for _, u := range booking.SearchUsers(users, *search) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, u.ContactPhone(), strings.Join(u.Roles, ","))
	}
	return w.Flush()
}

func (a *app) showProfile(ctx context.Context, args []string) error {
	fs := newFlagSet("profile", a.out)
	role := fs.String("role", string(models.RoleCustomer), "profile role")
	create := fs.Bool("create", false, "create the profile for the current user")
	displayName := fs.String("display-name", "", "set the display name")
	city := fs.String("city", "", "set the city")
	phone := fs.String("phone", "", "set the phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r := models.Role(*role)

	if *create {
		p, err := a.profiles.CreateSelf(ctx, models.Profile{Role: r, DisplayName: *displayName, City: *city, Phone: *phone})
		if err != nil {
			return err
		}
		a.printProfile(p)
		return nil
	}

	if err := a.store.FetchProfile(ctx, a.profiles, r); err != nil {
		return err
	}
	p := store.SelectProfile(a.store)
	if p == nil {
		return fmt.Errorf("no %s profile", r)
	}

	var update models.ProfileUpdate
	changed := false
	if *displayName != "" {
		update.DisplayName, changed = displayName, true
	}
	if *city != "" {
		update.City, changed = city, true
	}
	if *phone != "" {
		update.Phone, changed = phone, true
	}
	if changed {
		if p, err := a.profiles.Update(ctx, p.ID, update); err != nil {
			return err
		} else if p != nil {
			a.printProfile(p)
			return nil
		}
	}
	a.printProfile(p)
	return nil
}

func (a *app) printProfile(p *models.Profile) {
	w := a.table()
	fmt.Fprintf(w, "ID\t%s\n", p.ID)
	fmt.Fprintf(w, "Role\t%s\n", p.Role)
	fmt.Fprintf(w, "Name\t%s\n", p.DisplayName)
	fmt.Fprintf(w, "Phone\t%s\n", p.Phone)
	fmt.Fprintf(w, "City\t%s\n", p.City)
	fmt.Fprintf(w, "Country\t%s\n", p.Country)
	w.Flush()
}

func (a *app) listVehicles(ctx context.Context, args []string) error {
	fs := newFlagSet("vehicles", a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.store.FetchVehicles(ctx, a.vehicles); err != nil {
		return err
	}

	w := a.table()
	fmt.Fprintln(w, "ID\tVEHICLE\tYEAR\tCITY\tDAILY\tSTATUS")
	for _, v := range store.SelectVehicles(a.store) {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", v.ID, v.Name(), v.Year.Int(), v.City,
			booking.FormatAmount(v.DailyRate.Float(), v.Currency), v.Status)
	}
	w.Flush()

	// reservations need a session; show the fleet even without one
	if err := a.store.FetchReservations(ctx, a.vehicles); err != nil {
		log.WithError(err).Debug("Skipping reservations")
		return nil
	}
	quotes := store.SelectReservationQuotes(a.store)
	reservations := store.SelectReservations(a.store)
	if len(reservations) == 0 {
		return nil
	}
	fmt.Fprintln(a.out)
	w = a.table()
	fmt.Fprintln(w, "RESERVATION\tVEHICLE\tFROM\tTO\tTOTAL\tSTATUS")
	for _, r := range reservations {
		q := quotes[r.ID]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.VehicleID,
			r.StartAt.Local().Format("2006-01-02"), r.EndAt.Local().Format("2006-01-02"),
			booking.FormatAmount(q.Total, q.Currency), r.Status)
	}
	return w.Flush()
}

func (a *app) loginToken(args []string) error {
	fs := newFlagSet("login-token", a.out)
	token := fs.String("token", "", "bearer token issued by the API")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*token) == "" {
		return errors.New("-token is required")
	}

	session := models.Session{Token: strings.TrimSpace(*token)}
	claims, err := auth.ParseClaims(session.Token)
	switch {
	case err != nil:
		log.WithError(err).Warn("Token is not a JWT; storing it as is")
	case claims.Expired(time.Now()):
		return auth.ErrExpiredToken
	default:
		session.User.ID = claims.UserID
		if claims.Role != "" {
			session.User.Roles = []string{string(claims.Role)}
		}
	}

	if err := a.session.Save(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if session.User.ID != "" {
		fmt.Fprintf(a.out, "Signed in as %s\n", session.User.ID)
	} else {
		fmt.Fprintln(a.out, "Session token stored")
	}
	return nil
}
