package session

import (
	"context"
	"fmt"
	"strings"

	"angdelivery/internal/apperr"
	"angdelivery/internal/domain"
	"angdelivery/internal/logx"
)

// Controller owns all transient application state: the authenticated user,
// the last successfully loaded order feed and, for admins, the account
// list. Establishing a session is the sole trigger for the initial feed
// load; every mutation is followed by an unconditional refresh.
//
// The controller is driven by a single goroutine (the UI event loop) and is
// not safe for concurrent use.
type Controller struct {
	auth            AuthGateway
	orders          OrdersGateway
	notify          Notifier
	logger          logx.Logger
	refreshFailures Counter

	user     *domain.User
	feed     []domain.Order
	accounts []domain.User
}

// New creates a Controller. Notifier, logger and counter may be nil.
func New(auth AuthGateway, orders OrdersGateway, notify Notifier, logger logx.Logger, refreshFailures Counter) *Controller {
	if auth == nil || orders == nil {
		return nil
	}
	if notify == nil {
		notify = nopNotifier{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if refreshFailures == nil {
		refreshFailures = nopCounter{}
	}
	return &Controller{
		auth:            auth,
		orders:          orders,
		notify:          notify,
		logger:          logger,
		refreshFailures: refreshFailures,
	}
}

// User returns the authenticated user, or nil.
func (c *Controller) User() *domain.User { return c.user }

// Orders returns the last successfully loaded order feed.
func (c *Controller) Orders() []domain.Order { return c.feed }

// Accounts returns the account list loaded for an admin session.
func (c *Controller) Accounts() []domain.User { return c.accounts }

// Authenticated reports whether a session is established.
func (c *Controller) Authenticated() bool { return c.user != nil }

// Register creates an account and establishes a session with it.
func (c *Controller) Register(ctx context.Context, phone, password, name string, role domain.Role) error {
	if role == "" {
		role = domain.RoleClient
	}
	if err := validateCredentials(phone, password); err != nil {
		c.notify.Error("phone and password are required")
		return err
	}
	if !role.Provisionable() {
		c.notify.Error("only client and courier accounts can be registered")
		return fmt.Errorf("%w: role %q", apperr.Invalid, role)
	}

	u, err := c.auth.Register(ctx, phone, password, strings.TrimSpace(name), role)
	if err != nil {
		c.notify.Error("registration failed")
		return err
	}
	c.establish(ctx, u)
	c.notify.Success("registered as " + u.Phone)
	return nil
}

// Login establishes a session with phone and password credentials.
func (c *Controller) Login(ctx context.Context, phone, password string) error {
	if err := validateCredentials(phone, password); err != nil {
		c.notify.Error("phone and password are required")
		return err
	}

	u, err := c.auth.Login(ctx, phone, password)
	if err != nil {
		c.notify.Error("login failed")
		return err
	}
	c.establish(ctx, u)
	c.notify.Success("welcome back, " + displayName(u))
	return nil
}

// LoginByQR establishes a session with a pre-issued QR token.
func (c *Controller) LoginByQR(ctx context.Context, qrCode string) error {
	qrCode = strings.TrimSpace(qrCode)
	if qrCode == "" {
		c.notify.Error("qr code is required")
		return fmt.Errorf("%w: empty qr code", apperr.Invalid)
	}

	u, err := c.auth.LoginByQR(ctx, qrCode)
	if err != nil {
		c.notify.Error("qr login failed")
		return err
	}
	c.establish(ctx, u)
	c.notify.Success("welcome back, " + displayName(u))
	return nil
}

// Logout discards the session and all in-memory data. No server call.
func (c *Controller) Logout() {
	c.user = nil
	c.feed = nil
	c.accounts = nil
}

// establish swaps in the new session. Session establishment is the single
// subscription point for feed initialization.
func (c *Controller) establish(ctx context.Context, u domain.User) {
	c.user = &u
	c.feed = nil
	c.accounts = nil
	c.Refresh(ctx)
	if u.Role == domain.RoleAdmin {
		c.refreshAccounts(ctx)
	}
}

// Refresh reloads the order feed for the current role. Refresh is
// best-effort: a failure is logged and counted, the last good list stays on
// screen and no notification is raised.
func (c *Controller) Refresh(ctx context.Context) {
	if c.user == nil {
		return
	}

	orders, err := c.loadFeed(ctx)
	if err != nil {
		c.refreshFailures.Inc()
		c.logger.Error("order feed refresh failed",
			logx.String("role", string(c.user.Role)),
			logx.Int64("user_id", c.user.ID),
			logx.Err(err),
		)
		return
	}
	c.feed = orders
}

func (c *Controller) loadFeed(ctx context.Context) ([]domain.Order, error) {
	switch c.user.Role {
	case domain.RoleClient:
		return c.orders.List(ctx, domain.OrderFilter{ClientID: &c.user.ID})
	case domain.RoleAdmin:
		return c.orders.List(ctx, domain.OrderFilter{})
	case domain.RoleCourier:
		// The courier surface needs both the unassigned pool and the
		// courier's own assignments; the service filters are narrower than
		// that, so two snapshots are merged.
		pool, err := c.orders.List(ctx, domain.OrderFilter{Status: domain.StatusPending})
		if err != nil {
			return nil, err
		}
		mine, err := c.orders.List(ctx, domain.OrderFilter{CourierID: &c.user.ID})
		if err != nil {
			return nil, err
		}
		return mergeOrders(pool, mine), nil
	default:
		return nil, fmt.Errorf("%w: role %q", apperr.Invalid, c.user.Role)
	}
}

// mergeOrders concatenates two snapshots, dropping duplicate IDs.
func mergeOrders(a, b []domain.Order) []domain.Order {
	merged := make([]domain.Order, 0, len(a)+len(b))
	seen := make(map[int64]struct{}, len(a)+len(b))
	for _, list := range [][]domain.Order{a, b} {
		for _, o := range list {
			if _, ok := seen[o.ID]; ok {
				continue
			}
			seen[o.ID] = struct{}{}
			merged = append(merged, o)
		}
	}
	return merged
}

// CreateOrder validates the draft and submits it. Validation failures are
// reported locally and never reach the wire.
func (c *Controller) CreateOrder(ctx context.Context, draft domain.OrderDraft) error {
	if err := c.requireRole(domain.RoleClient); err != nil {
		c.notify.Error("only clients can create orders")
		return err
	}
	if err := validateDraft(&draft); err != nil {
		c.notify.Error("fill in all order fields")
		return err
	}

	receipt, err := c.orders.Create(ctx, draft, c.user.ID)
	if err != nil {
		c.notify.Error("order creation failed")
		return err
	}
	c.notify.Success("order #" + receipt.OrderNumber + " created")
	c.Refresh(ctx)
	return nil
}

// AcceptOrder assigns the pending order to the current courier. A race with
// another courier is the server's to reject; the feed is reloaded either way,
// so a lost race drops the stale pending entry immediately.
func (c *Controller) AcceptOrder(ctx context.Context, orderID int64) error {
	if err := c.requireRole(domain.RoleCourier); err != nil {
		c.notify.Error("only couriers can accept orders")
		return err
	}

	err := c.orders.Accept(ctx, orderID, c.user.ID)
	c.Refresh(ctx)
	if err != nil {
		c.notify.Error("could not accept the order")
		return err
	}
	c.notify.Success("order accepted")
	return nil
}

// AdvanceStatus moves an order to the given status. Only the status value
// is checked here; whether the transition is legal for the order's current
// state is left to the server.
func (c *Controller) AdvanceStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if err := c.requireRole(domain.RoleCourier); err != nil {
		c.notify.Error("only couriers can update order status")
		return err
	}
	if status != domain.StatusDelivering && status != domain.StatusCompleted {
		c.notify.Error("invalid status")
		return fmt.Errorf("%w: status %q", apperr.Invalid, status)
	}

	err := c.orders.UpdateStatus(ctx, orderID, status)
	c.Refresh(ctx)
	if err != nil {
		c.notify.Error("could not update the status")
		return err
	}
	c.notify.Success("status updated")
	return nil
}

// RateOrder records a rating for a completed order. The rating value is
// checked before dispatch; single-use is enforced by the view hiding the
// control once a rating exists.
func (c *Controller) RateOrder(ctx context.Context, orderID int64, rating int, review string) error {
	if err := c.requireRole(domain.RoleClient); err != nil {
		c.notify.Error("only clients can rate orders")
		return err
	}
	if !domain.ValidRating(rating) {
		c.notify.Error("rating must be between 1 and 5")
		return fmt.Errorf("%w: rating %d", apperr.Invalid, rating)
	}

	err := c.orders.Rate(ctx, orderID, rating, strings.TrimSpace(review))
	c.Refresh(ctx)
	if err != nil {
		c.notify.Error("could not rate the order")
		return err
	}
	c.notify.Success(fmt.Sprintf("rated %d/5", rating))
	return nil
}

// ProvisionAccount registers a courier or client account on behalf of an
// admin. The session is unchanged; the returned user carries the issued QR
// token, shown exactly once at creation time.
func (c *Controller) ProvisionAccount(ctx context.Context, phone, password, name string, role domain.Role) (domain.User, error) {
	if err := c.requireRole(domain.RoleAdmin); err != nil {
		c.notify.Error("only admins can create accounts")
		return domain.User{}, err
	}
	if !role.Provisionable() {
		c.notify.Error("only client and courier accounts can be created")
		return domain.User{}, fmt.Errorf("%w: role %q", apperr.Invalid, role)
	}
	if err := validateCredentials(phone, password); err != nil {
		c.notify.Error("phone and password are required")
		return domain.User{}, err
	}

	u, err := c.auth.Register(ctx, phone, password, strings.TrimSpace(name), role)
	if err != nil {
		c.notify.Error("account creation failed")
		return domain.User{}, err
	}
	c.notify.Success("account " + u.Phone + " created")
	c.refreshAccounts(ctx)
	return u, nil
}

// AccountDetail fetches a single account for the admin, including the QR
// token still held by the auth service.
func (c *Controller) AccountDetail(ctx context.Context, userID int64) (domain.User, error) {
	if err := c.requireRole(domain.RoleAdmin); err != nil {
		c.notify.Error("only admins can inspect accounts")
		return domain.User{}, err
	}

	u, err := c.auth.Profile(ctx, userID)
	if err != nil {
		c.notify.Error("could not load the account")
		return domain.User{}, err
	}
	return u, nil
}

// refreshAccounts reloads the admin account list, best-effort like Refresh.
func (c *Controller) refreshAccounts(ctx context.Context) {
	users, err := c.auth.ListUsers(ctx)
	if err != nil {
		c.logger.Error("account list refresh failed", logx.Err(err))
		return
	}
	c.accounts = users
}

func (c *Controller) requireRole(role domain.Role) error {
	if c.user == nil {
		return fmt.Errorf("%w: not authenticated", apperr.Invalid)
	}
	if c.user.Role != role {
		return fmt.Errorf("%w: requires role %q", apperr.Invalid, role)
	}
	return nil
}

func validateCredentials(phone, password string) error {
	if strings.TrimSpace(phone) == "" || password == "" {
		return fmt.Errorf("%w: phone and password are required", apperr.Invalid)
	}
	if !domain.ValidatePhone(phone) {
		return fmt.Errorf("%w: phone %q", apperr.Invalid, phone)
	}
	return nil
}

func validateDraft(d *domain.OrderDraft) error {
	if d.Type == "" {
		d.Type = domain.TypeDelivery
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: order type %q", apperr.Invalid, d.Type)
	}
	if strings.TrimSpace(d.FromAddress) == "" ||
		strings.TrimSpace(d.ToAddress) == "" ||
		strings.TrimSpace(d.Items) == "" {
		return fmt.Errorf("%w: addresses and items are required", apperr.Invalid)
	}
	if d.Type != domain.TypeFood {
		d.Restaurant = ""
	}
	return nil
}

func displayName(u domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Phone
}
