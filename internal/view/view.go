package view

import "angdelivery/internal/domain"

// View is a closed, role-tagged variant of the rendered surface. Exactly
// one of Client, Courier and Admin is non-nil, matching Role.
type View struct {
	Role    domain.Role
	Client  *ClientView
	Courier *CourierView
	Admin   *AdminView
}

// ClientView shows order creation plus the client's own orders.
type ClientView struct {
	Orders []OrderCard
}

// OrderCard wraps an order with the rating control decision: the control is
// offered once, only for completed and not yet rated orders.
type OrderCard struct {
	Order   domain.Order
	CanRate bool
}

// CourierView shows the unassigned pool plus the courier's active
// assignments.
type CourierView struct {
	Pending []domain.Order
	Active  []AssignmentCard
}

// AssignmentCard wraps an assignment with its advance action. Completed
// orders never carry an action.
type AssignmentCard struct {
	Order     domain.Order
	NextState domain.OrderStatus
	HasAction bool
}

// AdminView shows aggregate counts, every order and the account list.
type AdminView struct {
	Stats    Stats
	Orders   []domain.Order
	Accounts []domain.User
}

// Stats aggregates order counts for the admin dashboard. Active counts
// orders that are waiting for or bound to a courier.
type Stats struct {
	Total     int
	Active    int
	Completed int
}

// Build computes the view for the authenticated user from the current feed
// snapshot. The surface is purely a function of the role.
func Build(user domain.User, orders []domain.Order, accounts []domain.User) View {
	v := View{Role: user.Role}
	switch user.Role {
	case domain.RoleClient:
		v.Client = buildClient(orders)
	case domain.RoleCourier:
		v.Courier = buildCourier(user.ID, orders)
	case domain.RoleAdmin:
		v.Admin = buildAdmin(orders, accounts)
	}
	return v
}

func buildClient(orders []domain.Order) *ClientView {
	cards := make([]OrderCard, 0, len(orders))
	for _, o := range orders {
		cards = append(cards, OrderCard{
			Order:   o,
			CanRate: o.Status == domain.StatusCompleted && o.Rating == nil,
		})
	}
	return &ClientView{Orders: cards}
}

func buildCourier(courierID int64, orders []domain.Order) *CourierView {
	cv := &CourierView{}
	for _, o := range orders {
		switch {
		case o.Status == domain.StatusPending:
			cv.Pending = append(cv.Pending, o)
		case o.CourierID != nil && *o.CourierID == courierID:
			// delivered orders leave the active list
			if o.Status != domain.StatusAccepted && o.Status != domain.StatusDelivering {
				continue
			}
			card := AssignmentCard{Order: o}
			card.NextState, card.HasAction = o.Status.Next()
			cv.Active = append(cv.Active, card)
		}
	}
	return cv
}

func buildAdmin(orders []domain.Order, accounts []domain.User) *AdminView {
	av := &AdminView{Orders: orders, Accounts: accounts}
	av.Stats.Total = len(orders)
	for _, o := range orders {
		switch o.Status {
		case domain.StatusPending, domain.StatusAccepted:
			av.Stats.Active++
		case domain.StatusCompleted:
			av.Stats.Completed++
		}
	}
	return av
}
