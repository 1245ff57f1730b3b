package app

import (
	"context"
	"errors"
	"log"

	"go.uber.org/dig"

	"angdelivery/internal/term"
)

// MustRun starts the terminal shell using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(func(ui *term.UI, ctx context.Context) error {
		return ui.Run(ctx)
	})
}
