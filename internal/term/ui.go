package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"angdelivery/internal/domain"
	"angdelivery/internal/logx"
	"angdelivery/internal/session"
	"angdelivery/internal/view"
)

// UI is a line-oriented terminal shell over the session controller. It
// renders the role view after every command and reads the next command
// from its input. One goroutine owns the controller for the whole run.
type UI struct {
	ctrl   *session.Controller
	in     io.Reader
	out    io.Writer
	logger logx.Logger
}

// New builds a UI reading commands from in and printing to out.
func New(ctrl *session.Controller, in io.Reader, out io.Writer, logger logx.Logger) *UI {
	if logger == nil {
		logger = logx.Nop()
	}
	return &UI{ctrl: ctrl, in: in, out: out, logger: logger}
}

// ConsoleNotifier prints controller notifications to a writer.
type ConsoleNotifier struct {
	Out io.Writer
}

// Success prints a success notification.
func (n ConsoleNotifier) Success(msg string) { fmt.Fprintf(n.Out, "OK: %s\n", msg) }

// Error prints an error notification.
func (n ConsoleNotifier) Error(msg string) { fmt.Fprintf(n.Out, "ERROR: %s\n", msg) }

// Run processes commands until input is exhausted, "exit" is entered or
// the context is canceled.
func (u *UI) Run(ctx context.Context) error {
	sc := bufio.NewScanner(u.in)
	u.render()
	u.prompt()

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			u.prompt()
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		u.dispatch(ctx, line)
		u.render()
		u.prompt()
	}
	return sc.Err()
}

func (u *UI) dispatch(ctx context.Context, line string) {
	args := strings.Fields(line)
	cmd, rest := args[0], args[1:]

	if !u.ctrl.Authenticated() {
		u.dispatchAnonymous(ctx, cmd, rest)
		return
	}

	switch cmd {
	case "refresh":
		u.ctrl.Refresh(ctx)
	case "logout":
		u.ctrl.Logout()
	case "new":
		u.createOrder(ctx, rest)
	case "rate":
		u.rateOrder(ctx, rest)
	case "accept":
		u.acceptOrder(ctx, rest)
	case "advance":
		u.advanceOrder(ctx, rest)
	case "provision":
		u.provision(ctx, rest)
	case "account":
		u.accountDetail(ctx, rest)
	case "help":
		u.printHelp()
	default:
		fmt.Fprintf(u.out, "unknown command %q, try help\n", cmd)
	}
}

func (u *UI) dispatchAnonymous(ctx context.Context, cmd string, rest []string) {
	switch cmd {
	case "login":
		if len(rest) != 2 {
			fmt.Fprintln(u.out, "usage: login <phone> <password>")
			return
		}
		_ = u.ctrl.Login(ctx, rest[0], rest[1])
	case "qr":
		if len(rest) != 1 {
			fmt.Fprintln(u.out, "usage: qr <code>")
			return
		}
		_ = u.ctrl.LoginByQR(ctx, rest[0])
	case "register":
		if len(rest) < 3 {
			fmt.Fprintln(u.out, "usage: register <client|courier> <phone> <password> [name]")
			return
		}
		name := strings.Join(rest[3:], " ")
		_ = u.ctrl.Register(ctx, rest[1], rest[2], name, domain.Role(rest[0]))
	case "help":
		u.printHelp()
	default:
		fmt.Fprintf(u.out, "unknown command %q, try help\n", cmd)
	}
}

func (u *UI) createOrder(ctx context.Context, rest []string) {
	if len(rest) < 4 {
		fmt.Fprintln(u.out, "usage: new <delivery|food> <from> <to> <items> [restaurant]")
		return
	}
	draft := domain.OrderDraft{
		Type:        domain.OrderType(rest[0]),
		FromAddress: rest[1],
		ToAddress:   rest[2],
		Items:       rest[3],
	}
	if len(rest) > 4 {
		draft.Restaurant = strings.Join(rest[4:], " ")
	}
	_ = u.ctrl.CreateOrder(ctx, draft)
}

func (u *UI) rateOrder(ctx context.Context, rest []string) {
	if len(rest) < 2 {
		fmt.Fprintln(u.out, "usage: rate <orderId> <1-5> [review]")
		return
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		fmt.Fprintln(u.out, "orderId must be a number")
		return
	}
	rating, err := strconv.Atoi(rest[1])
	if err != nil {
		fmt.Fprintln(u.out, "rating must be a number")
		return
	}
	_ = u.ctrl.RateOrder(ctx, id, rating, strings.Join(rest[2:], " "))
}

func (u *UI) acceptOrder(ctx context.Context, rest []string) {
	if len(rest) != 1 {
		fmt.Fprintln(u.out, "usage: accept <orderId>")
		return
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		fmt.Fprintln(u.out, "orderId must be a number")
		return
	}
	_ = u.ctrl.AcceptOrder(ctx, id)
}

func (u *UI) advanceOrder(ctx context.Context, rest []string) {
	if len(rest) != 2 {
		fmt.Fprintln(u.out, "usage: advance <orderId> <delivering|completed>")
		return
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		fmt.Fprintln(u.out, "orderId must be a number")
		return
	}
	_ = u.ctrl.AdvanceStatus(ctx, id, domain.OrderStatus(rest[1]))
}

func (u *UI) provision(ctx context.Context, rest []string) {
	if len(rest) < 3 {
		fmt.Fprintln(u.out, "usage: provision <client|courier> <phone> <password> [name]")
		return
	}
	name := strings.Join(rest[3:], " ")
	created, err := u.ctrl.ProvisionAccount(ctx, rest[1], rest[2], name, domain.Role(rest[0]))
	if err != nil {
		return
	}
	if created.QRCode != "" {
		fmt.Fprintf(u.out, "issued qr code: %s\n", created.QRCode)
	}
}

func (u *UI) accountDetail(ctx context.Context, rest []string) {
	if len(rest) < 1 {
		fmt.Fprintln(u.out, "usage: account <userId>")
		return
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		fmt.Fprintln(u.out, "userId must be a number")
		return
	}
	a, err := u.ctrl.AccountDetail(ctx, id)
	if err != nil {
		return
	}
	name := a.Name
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(u.out, "account #%d %s %s %s\n", a.ID, a.Phone, a.Role, name)
	if a.QRCode != "" {
		fmt.Fprintf(u.out, "qr code: %s\n", a.QRCode)
	}
}

func (u *UI) prompt() {
	fmt.Fprint(u.out, "> ")
}

func (u *UI) render() {
	user := u.ctrl.User()
	if user == nil {
		fmt.Fprintln(u.out, "-- not signed in: login, qr or register --")
		return
	}

	v := view.Build(*user, u.ctrl.Orders(), u.ctrl.Accounts())
	fmt.Fprintf(u.out, "-- signed in as %s (%s) --\n", user.Phone, user.Role)

	switch {
	case v.Client != nil:
		u.renderClient(v.Client)
	case v.Courier != nil:
		u.renderCourier(v.Courier)
	case v.Admin != nil:
		u.renderAdmin(v.Admin)
	}
}

func (u *UI) renderClient(v *view.ClientView) {
	if len(v.Orders) == 0 {
		fmt.Fprintln(u.out, "no orders yet, create one with: new")
		return
	}
	for _, card := range v.Orders {
		line := formatOrder(card.Order)
		if card.CanRate {
			line += "  [rate me]"
		}
		fmt.Fprintln(u.out, line)
	}
}

func (u *UI) renderCourier(v *view.CourierView) {
	fmt.Fprintf(u.out, "available (%d):\n", len(v.Pending))
	for _, o := range v.Pending {
		fmt.Fprintln(u.out, "  "+formatOrder(o))
	}
	fmt.Fprintf(u.out, "mine (%d):\n", len(v.Active))
	for _, card := range v.Active {
		line := "  " + formatOrder(card.Order)
		if card.HasAction {
			line += fmt.Sprintf("  [advance -> %s]", card.NextState)
		}
		fmt.Fprintln(u.out, line)
	}
}

func (u *UI) renderAdmin(v *view.AdminView) {
	fmt.Fprintf(u.out, "orders: %d total, %d active, %d completed\n",
		v.Stats.Total, v.Stats.Active, v.Stats.Completed)
	for _, o := range v.Orders {
		fmt.Fprintln(u.out, "  "+formatOrder(o))
	}
	fmt.Fprintf(u.out, "accounts (%d):\n", len(v.Accounts))
	for _, a := range v.Accounts {
		name := a.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(u.out, "  #%d %s %s %s\n", a.ID, a.Phone, a.Role, name)
	}
}

func (u *UI) printHelp() {
	fmt.Fprintln(u.out, `commands:
  login <phone> <password>
  qr <code>
  register <client|courier> <phone> <password> [name]
  new <delivery|food> <from> <to> <items> [restaurant]
  accept <orderId>
  advance <orderId> <delivering|completed>
  rate <orderId> <1-5> [review]
  provision <client|courier> <phone> <password> [name]
  account <userId>
  refresh | logout | exit`)
}

func formatOrder(o domain.Order) string {
	line := fmt.Sprintf("#%d %s %s: %s -> %s (%s) [%s]",
		o.ID, o.OrderNumber, o.Type, o.FromAddress, o.ToAddress, o.Items, o.Status)
	if o.Rating != nil {
		line += fmt.Sprintf(" rated %d", *o.Rating)
	}
	return line
}
