package stub

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"angdelivery/internal/apperr"
	"angdelivery/internal/domain"
)

// Store is the in-memory state behind the dev stub. Unlike the rest of the
// application it is accessed from concurrent HTTP handlers, so it locks.
type Store struct {
	mu          sync.Mutex
	users       []*StoredUser
	orders      []*StoredOrder
	nextUserID  int64
	nextOrderID int64
}

// StoredUser is an account record held by the stub.
type StoredUser struct {
	ID           int64
	Phone        string
	PasswordHash []byte
	Role         domain.Role
	Name         string
	QRCode       string
	CreatedAt    time.Time
}

// StoredOrder is an order record held by the stub.
type StoredOrder struct {
	ID          int64
	OrderNumber string
	Type        domain.OrderType
	ClientID    *int64
	CourierID   *int64
	FromAddress string
	ToAddress   string
	Items       string
	Restaurant  string
	Status      domain.OrderStatus
	Rating      *int
	Review      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// CreateUser registers an account. Couriers get a QR login token issued at
// creation. A duplicate phone is a Conflict.
func (s *Store) CreateUser(phone, password string, role domain.Role, name string) (StoredUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return StoredUser{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Phone == phone {
			return StoredUser{}, fmt.Errorf("%w: phone %s already registered", apperr.Conflict, phone)
		}
	}

	s.nextUserID++
	u := &StoredUser{
		ID:           s.nextUserID,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	if role == domain.RoleCourier {
		u.QRCode = uuid.NewString()
	}
	s.users = append(s.users, u)
	return *u, nil
}

// Authenticate checks phone and password credentials.
func (s *Store) Authenticate(phone, password string) (StoredUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Phone != phone {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil {
			return *u, true
		}
		return StoredUser{}, false
	}
	return StoredUser{}, false
}

// AuthenticateQR resolves a pre-issued QR token.
func (s *Store) AuthenticateQR(qrCode string) (StoredUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.QRCode != "" && u.QRCode == qrCode {
			return *u, true
		}
	}
	return StoredUser{}, false
}

// UserByID fetches an account by ID.
func (s *Store) UserByID(id int64) (StoredUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return *u, true
		}
	}
	return StoredUser{}, false
}

// Users returns all accounts, newest first.
func (s *Store) Users() []StoredUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StoredUser, 0, len(s.users))
	for i := len(s.users) - 1; i >= 0; i-- {
		out = append(out, *s.users[i])
	}
	return out
}

// CreateOrder stores a new pending order and assigns it a short sequential
// order number.
func (s *Store) CreateOrder(orderType domain.OrderType, clientID *int64, fromAddress, toAddress, items, restaurant string) StoredOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.nextOrderID++
	o := &StoredOrder{
		ID:          s.nextOrderID,
		OrderNumber: fmt.Sprintf("%03d", len(s.orders)+1),
		Type:        orderType,
		ClientID:    clientID,
		FromAddress: fromAddress,
		ToAddress:   toAddress,
		Items:       items,
		Restaurant:  restaurant,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.orders = append(s.orders, o)
	return *o
}

// Orders returns orders matching the filter, newest first.
func (s *Store) Orders(f domain.OrderFilter) []StoredOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StoredOrder, 0, len(s.orders))
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ClientID != nil && (o.ClientID == nil || *o.ClientID != *f.ClientID) {
			continue
		}
		if f.CourierID != nil && (o.CourierID == nil || *o.CourierID != *f.CourierID) {
			continue
		}
		out = append(out, *o)
	}
	return out
}

// AcceptOrder binds the courier to a pending order. Accepting twice loses
// the race: only the first courier wins.
func (s *Store) AcceptOrder(orderID, courierID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		return fmt.Errorf("%w: order %d", apperr.NotFound, orderID)
	}
	if o.Status != domain.StatusPending {
		return fmt.Errorf("%w: order %d already accepted", apperr.Conflict, orderID)
	}
	o.CourierID = &courierID
	o.Status = domain.StatusAccepted
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateOrderStatus sets the status of an order. Like the real service, it
// does not police the transition.
func (s *Store) UpdateOrderStatus(orderID int64, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		return fmt.Errorf("%w: order %d", apperr.NotFound, orderID)
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// RateOrder records a rating and review on an order.
func (s *Store) RateOrder(orderID int64, rating int, review string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		return fmt.Errorf("%w: order %d", apperr.NotFound, orderID)
	}
	o.Rating = &rating
	o.Review = review
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) findOrder(id int64) *StoredOrder {
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}
