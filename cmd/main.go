package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/auth"
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/config"
	"github.com/ukydev/fleet-rental-console/internal/handlers"
	"github.com/ukydev/fleet-rental-console/internal/middleware"
	"github.com/ukydev/fleet-rental-console/internal/notify"
	"github.com/ukydev/fleet-rental-console/internal/services"
	"github.com/ukydev/fleet-rental-console/internal/store"
)

const usage = `usage: rentalctl <command> [flags]

commands:
  drivers      list bookable drivers (-search, -location)
  bookings     list your driver bookings
  book         book a driver (-driver, -hours, -pickup, -dropoff, -start, -notes, -agent, -customer)
  pay          confirm payment of an accepted booking (-booking)
  users        list users an agent can book for (-search)
  profile      show your profile for a role (-role)
  vehicles     list rental vehicles and your reservations
  login-token  store a session token (-token)
`

var errUsage = errors.New("unknown command")

// app wires the console's collaborators for one invocation.
type app struct {
	cfg      *config.Config
	session  *auth.SessionStore
	bookings *services.BookingDriverService
	drivers  *services.DriverService
	users    *services.UserService
	profiles *services.ProfileService
	vehicles *services.VehicleService
	store    *store.Store
	banner   *notify.Banner
	out      io.Writer
	closers  []func()
}

func newApp(cfg *config.Config, out io.Writer) *app {
	session := auth.NewSessionStore(cfg.SessionFile)
	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithMiddleware(
			middleware.RequestID(),
			middleware.Logging(log.StandardLogger()),
			middleware.BearerAuth(session),
		),
	)

	a := &app{
		cfg:      cfg,
		session:  session,
		bookings: services.NewBookingDriverService(client),
		drivers:  services.NewDriverService(client),
		users:    services.NewUserService(client),
		profiles: services.NewProfileService(client),
		vehicles: services.NewVehicleService(client),
		store:    store.New(),
		out:      out,
	}
	a.banner = notify.NewBanner(cfg.NotifyTTL, a.publisher())
	return a
}

// publisher fans out to the log and, when a broker is configured, to MQTT.
// An unreachable broker only disables MQTT.
func (a *app) publisher() notify.Publisher {
	pubs := notify.Multi{notify.LogPublisher{}}
	if a.cfg.MQTTBroker == "" {
		return pubs
	}
	mq, err := notify.NewMQTTPublisher(notify.MQTTConfig{
		BrokerURL: a.cfg.MQTTBroker,
		ClientID:  a.cfg.MQTTClientID,
		Topic:     a.cfg.MQTTTopic,
	})
	if err != nil {
		log.WithError(err).Warn("MQTT notifications disabled")
		return pubs
	}
	a.closers = append(a.closers, mq.Close)
	return append(pubs, mq)
}

func (a *app) close() {
	for _, c := range a.closers {
		c()
	}
}

func (a *app) deps(alerts handlers.Alerter) handlers.Deps {
	return handlers.Deps{
		Bookings: a.bookings,
		Drivers:  a.drivers,
		Users:    a.users,
		Store:    a.store,
		Banner:   a.banner,
		Alerter:  alerts,
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}

	a := newApp(cfg, out)
	defer a.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "drivers":
		return a.listDrivers(ctx, rest)
	case "bookings":
		return a.listBookings(ctx, rest)
	case "book":
		return a.book(ctx, rest)
	case "pay":
		return a.pay(ctx, rest)
	case "users":
		return a.listUsers(ctx, rest)
	case "profile":
		return a.showProfile(ctx, rest)
	case "vehicles":
		return a.listVehicles(ctx, rest)
	case "login-token":
		return a.loginToken(rest)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	fmt.Fprint(out, usage)
	return fmt.Errorf("%w: %s", errUsage, cmd)
}

// userMessage is what the operator sees for err.
func userMessage(err error) string {
	var payErr *booking.PaymentError
	var valErr *booking.ValidationError
	if errors.As(err, &payErr) || errors.As(err, &valErr) {
		return err.Error()
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) || errors.Is(err, apiclient.ErrNetwork) {
		return apiclient.UserMessage(err)
	}
	return err.Error()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		stop()
		os.Exit(1)
	}
}
