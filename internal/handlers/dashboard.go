package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/notify"
	"github.com/ukydev/fleet-rental-console/internal/services"
	"github.com/ukydev/fleet-rental-console/internal/store"
)

// Errors returned by Dashboard operations.
var (
	ErrBusy           = errors.New("a request is already in progress")
	ErrNoDrawer       = errors.New("no driver selected")
	ErrNoForm         = errors.New("booking form is not open")
	ErrNoPayment      = errors.New("no booking selected for payment")
	ErrUnknownDriver  = errors.New("driver not found")
	ErrUnknownBooking = errors.New("booking not found")
	ErrNoCustomer     = errors.New("no signed-in customer")
)

// BookingService is the driver-booking API the dashboards use.
type BookingService interface {
	Create(ctx context.Context, req models.CreateBookingRequest) (*services.CreatedBooking, error)
	ListMine(ctx context.Context) ([]models.ApiBooking, error)
	ConfirmPayment(ctx context.Context, id string) (*models.ApiBooking, error)
}

// DriverService lists bookable drivers.
type DriverService interface {
	ListPublic(ctx context.Context) ([]models.Driver, error)
}

// UserService lists users an agent can book for.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
}

// SessionReader resolves the signed-in user.
type SessionReader interface {
	CurrentUser() (models.User, error)
}

// Alerter shows a blocking message to the operator.
type Alerter interface {
	Alert(message string)
}

// AlertRecorder keeps every alert it receives and logs it.
type AlertRecorder struct {
	mu     sync.Mutex
	alerts []string
}

// Alert records message.
func (r *AlertRecorder) Alert(message string) {
	log.WithField("alert", message).Debug("Operator alert")
	r.mu.Lock()
	r.alerts = append(r.alerts, message)
	r.mu.Unlock()
}

// Alerts returns the alerts received so far.
func (r *AlertRecorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// Deps are the collaborators of a Dashboard. Users is only needed by the
// agent dashboard. Alerter and Now default to an AlertRecorder and
// time.Now.
type Deps struct {
	Bookings BookingService
	Drivers  DriverService
	Users    UserService
	Store    *store.Store
	Banner   *notify.Banner
	Alerter  Alerter
	Now      func() time.Time
}

// Dashboard is a page container for the driver-booking workflow. It owns
// the drawer, form and payment modal; booking data lives in the store.
type Dashboard struct {
	flow       booking.Flow
	customerID string

	bookings BookingService
	drivers  DriverService
	users    UserService
	store    *store.Store
	banner   *notify.Banner
	alerter  Alerter
	now      func() time.Time

	mu         sync.Mutex
	mounted    bool
	gen        uint64
	drawer     *booking.Drawer
	form       *booking.Form
	formGen    uint64
	payment    *models.ApiBooking
	paymentGen uint64

	// Busy flags remember the mount generation that raised them. A flag
	// raised under an earlier mount neither blocks nor is cleared by the
	// current one.
	creating      bool
	creatingGen   uint64
	confirming    bool
	confirmingGen uint64

	userList []models.User
}

// NewCustomerDashboard creates the dashboard of the signed-in customer.
func NewCustomerDashboard(deps Deps, session SessionReader) (*Dashboard, error) {
	user, err := session.CurrentUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCustomer, err)
	}
	if user.ID == "" {
		return nil, ErrNoCustomer
	}
	d := newDashboard(deps, booking.FlowCustomer)
	d.customerID = user.ID
	return d, nil
}

// NewAgentDashboard creates a dashboard for booking on behalf of customers.
func NewAgentDashboard(deps Deps) *Dashboard {
	return newDashboard(deps, booking.FlowAgent)
}

func newDashboard(deps Deps, flow booking.Flow) *Dashboard {
	d := &Dashboard{
		flow:     flow,
		bookings: deps.Bookings,
		drivers:  deps.Drivers,
		users:    deps.Users,
		store:    deps.Store,
		banner:   deps.Banner,
		alerter:  deps.Alerter,
		now:      deps.Now,
	}
	if d.store == nil {
		d.store = store.New()
	}
	if d.banner == nil {
		d.banner = notify.NewBanner(notify.DefaultTTL, nil)
	}
	if d.alerter == nil {
		d.alerter = &AlertRecorder{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Flow reports which booking funnel this dashboard runs.
func (d *Dashboard) Flow() booking.Flow { return d.flow }

// Store returns the store the dashboard reads from.
func (d *Dashboard) Store() *store.Store { return d.store }

// Banner returns the dashboard's success banner.
func (d *Dashboard) Banner() *notify.Banner { return d.banner }

// Mount marks the dashboard live and loads its listings.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	d.mounted = true
	d.gen++
	d.mu.Unlock()

	errs := []error{d.LoadDrivers(ctx), d.LoadBookings(ctx)}
	if d.flow == booking.FlowAgent {
		errs = append(errs, d.LoadUsers(ctx))
	}
	return errors.Join(errs...)
}

// Unmount discards all workflow state. Responses still in flight are
// dropped when they arrive.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted = false
	d.gen++
	d.drawer = nil
	d.form = nil
	d.payment = nil
	d.userList = nil
}

// Mounted reports whether the dashboard is live.
func (d *Dashboard) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// LoadDrivers refreshes the driver grid through the store.
func (d *Dashboard) LoadDrivers(ctx context.Context) error {
	if d.drivers == nil {
		return nil
	}
	return ignoreSuperseded(d.store.FetchDrivers(ctx, d.drivers))
}

// LoadBookings refreshes the booking list through the store. The server's
// copy replaces any locally patched records.
func (d *Dashboard) LoadBookings(ctx context.Context) error {
	if d.bookings == nil {
		return nil
	}
	return ignoreSuperseded(d.store.FetchBookings(ctx, d.bookings))
}

// LoadUsers refreshes the customer picker.
func (d *Dashboard) LoadUsers(ctx context.Context) error {
	if d.users == nil {
		return nil
	}
	d.mu.Lock()
	gen := d.gen
	d.mu.Unlock()

	users, err := d.users.List(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.mounted || d.gen != gen {
		log.Debug("Dropping stale user list")
		return nil
	}
	d.userList = users
	return nil
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, store.ErrSuperseded) {
		return nil
	}
	return err
}

// SearchUsers filters the loaded users for the customer picker.
func (d *Dashboard) SearchUsers(query string) []models.User {
	d.mu.Lock()
	users := d.userList
	d.mu.Unlock()
	return booking.SearchUsers(users, query)
}

// Bookings returns the cached bookings, newest first as the server or the
// last submission ordered them.
func (d *Dashboard) Bookings() []models.ApiBooking {
	return store.SelectBookings(d.store)
}

// BookableDrivers returns the drivers shown in the grid for f.
func (d *Dashboard) BookableDrivers(f booking.DriverFilter) []models.Driver {
	return store.SelectBookableDrivers(d.store, f)
}

func (d *Dashboard) alert(message string) {
	d.alerter.Alert(message)
}
