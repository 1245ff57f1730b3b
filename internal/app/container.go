package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"angdelivery/internal/config"
	"angdelivery/internal/gateway/auth"
	order "angdelivery/internal/gateway/orders"
	"angdelivery/internal/logx"
	"angdelivery/internal/metrics"
	"angdelivery/internal/session"
	"angdelivery/internal/term"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	httpClient *http.Client
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		httpClient: &http.Client{},
		logFatalf:  log.Fatalf,
	}
}

// WithHTTPClient sets the HTTP client shared by the gateways
func (b *ContainerBuilder) WithHTTPClient(hc *http.Client) *ContainerBuilder {
	if hc != nil {
		b.httpClient = hc
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerGateways(container, b.httpClient); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerSession(container); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		metrics.NewFeedRefreshFailuresTotal,
	)
}

func registerGateways(container *dig.Container, hc *http.Client) error {
	return provideAll(container,
		func() *http.Client { return hc },
		func(cfg *config.Config, hc *http.Client, logger logx.Logger) *auth.Client {
			return auth.NewClient(cfg.Gateways.AuthURL, hc, logger)
		},
		func(cfg *config.Config, hc *http.Client, logger logx.Logger) *order.Client {
			return order.NewClient(cfg.Gateways.OrdersURL, hc, logger)
		},
	)
}

func registerSession(container *dig.Container) error {
	return provideAll(container,
		func() term.ConsoleNotifier { return term.ConsoleNotifier{Out: os.Stdout} },
		func(
			authGW *auth.Client,
			orderGW *order.Client,
			notifier term.ConsoleNotifier,
			logger logx.Logger,
			failures prometheus.Counter,
		) *session.Controller {
			return session.New(authGW, orderGW, notifier, logger, failures)
		},
		func(ctrl *session.Controller, logger logx.Logger) *term.UI {
			return term.New(ctrl, os.Stdin, os.Stdout, logger)
		},
	)
}
