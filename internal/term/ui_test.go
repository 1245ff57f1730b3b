package term

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"angdelivery/internal/gateway/auth"
	order "angdelivery/internal/gateway/orders"
	"angdelivery/internal/logx"
	"angdelivery/internal/session"
	"angdelivery/internal/stub"
)

func newUIFixture(t *testing.T, script string) (*UI, *strings.Builder) {
	t.Helper()

	store := stub.NewStore()
	h := stub.NewHandlers(store, logx.Nop())
	srv := httptest.NewServer(stub.NewRouter(h))
	t.Cleanup(srv.Close)

	out := &strings.Builder{}
	ctrl := session.New(
		auth.NewClient(srv.URL+"/auth", srv.Client(), logx.Nop()),
		order.NewClient(srv.URL+"/orders", srv.Client(), logx.Nop()),
		ConsoleNotifier{Out: out},
		logx.Nop(),
		nil,
	)
	return New(ctrl, strings.NewReader(script), out, logx.Nop()), out
}

func TestRun_RegisterCreateAndLogout(t *testing.T) {
	t.Parallel()

	script := strings.Join([]string{
		"register client +70000000001 secret Ann",
		"new delivery WarehouseA OfficeB 2-boxes",
		"logout",
		"exit",
	}, "\n") + "\n"

	ui, out := newUIFixture(t, script)
	require.NoError(t, ui.Run(context.Background()))

	text := out.String()
	require.Contains(t, text, "signed in as +70000000001 (client)")
	require.Contains(t, text, "WarehouseA -> OfficeB")
	require.Contains(t, text, "not signed in")
}

func TestRun_UnknownCommandPrintsHint(t *testing.T) {
	t.Parallel()

	ui, out := newUIFixture(t, "frobnicate\nexit\n")
	require.NoError(t, ui.Run(context.Background()))
	require.Contains(t, out.String(), "unknown command")
}

func TestRun_LoginFailureStaysAnonymous(t *testing.T) {
	t.Parallel()

	ui, out := newUIFixture(t, "login +70000000001 wrong\nexit\n")
	require.NoError(t, ui.Run(context.Background()))

	text := out.String()
	require.Contains(t, text, "ERROR:")
	require.Contains(t, text, "not signed in")
}

func TestRun_CanceledContextStops(t *testing.T) {
	t.Parallel()

	ui, _ := newUIFixture(t, "help\nhelp\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, ui.Run(ctx), context.Canceled)
}
