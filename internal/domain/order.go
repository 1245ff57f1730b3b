package domain

type (
	// OrderType represents the kind of an order.
	OrderType string
	// OrderStatus represents the delivery state of an order.
	OrderStatus string
)

// List of possible order types
const (
	TypeDelivery OrderType = "delivery"
	TypeFood     OrderType = "food"
)

// List of possible order statuses, in lifecycle order
const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
)

var allowedTypes = [...]OrderType{
	TypeDelivery, TypeFood,
}

// allowedStatuses is ordered: an order only ever moves to the right.
var allowedStatuses = [...]OrderStatus{
	StatusPending, StatusAccepted, StatusDelivering, StatusCompleted,
}

// Valid checks if the OrderType is valid
func (t OrderType) Valid() bool {
	for _, v := range allowedTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the status an order in state s advances to.
// It returns false for completed and for unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, v := range allowedStatuses {
		if s == v && i+1 < len(allowedStatuses) {
			return allowedStatuses[i+1], true
		}
	}
	return "", false
}

// Order mirrors an order owned by the remote order service. The local copy
// is transient and replaced wholesale on every feed refresh.
type Order struct {
	ID          int64
	OrderNumber string
	Type        OrderType
	ClientID    *int64
	CourierID   *int64
	FromAddress string
	ToAddress   string
	Items       string
	Status      OrderStatus
	Rating      *int
	Review      string
	Restaurant  string
	CreatedAt   string
}

// OrderDraft carries client input for creating an order.
type OrderDraft struct {
	Type        OrderType
	FromAddress string
	ToAddress   string
	Items       string
	Restaurant  string
}

// OrderFilter narrows a feed request server-side. Nil/empty fields are
// omitted from the query.
type OrderFilter struct {
	ClientID  *int64
	CourierID *int64
	Status    OrderStatus
}

// OrderReceipt is returned by the order service on creation.
type OrderReceipt struct {
	OrderID     int64
	OrderNumber string
}

// ValidRating reports whether r is an allowed rating value.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
